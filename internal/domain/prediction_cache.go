package domain

import (
	"context"
)

//go:generate mockgen -source=prediction_cache.go -destination=prediction_cache_mock.go -package=domain

type PredictionCache interface {
	GetPrediction(ctx context.Context, key string) (*Prediction, error)
	SavePrediction(ctx context.Context, key string, prediction *Prediction) error
}
