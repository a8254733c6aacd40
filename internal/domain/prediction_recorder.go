package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=prediction_recorder.go -destination=prediction_recorder_mock.go -package=domain

// PredictionRecord is the audit entry emitted for each prediction request.
type PredictionRecord struct {
	PredictionID  string
	RequestID     string
	RecordedAt    time.Time
	Label         string
	Probabilities map[string]float64
	Audit         EligibilityAudit
	ModelVersion  string
	Cached        bool
	Duration      time.Duration
}

type PredictionRecorder interface {
	RecordPrediction(ctx context.Context, record PredictionRecord) error
	Flush(ctx context.Context) error
	Close() error
}
