package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/tracing"
)

const (
	defaultKeyPrefix = "swb:prediction:"
	defaultTTL       = 10 * time.Minute
)

type auditRecord struct {
	Age              bool    `json:"age"`
	DataCompleteness bool    `json:"data_completeness"`
	ReferenceRange   bool    `json:"reference_range"`
	PMAWeeks         float64 `json:"pma_weeks"`
	Eligible         bool    `json:"eligible"`
}

type predictionRecord struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
	Audit         auditRecord        `json:"audit"`
	ModelVersion  string             `json:"model_version"`
	PredictedAt   time.Time          `json:"predicted_at"`
}

type predictionRepository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewPredictionRepository stores predictions as JSON under keyPrefix+key with ttl.
// Empty prefix and non-positive ttl fall back to defaults.
func NewPredictionRepository(client *redis.Client, keyPrefix string, ttl time.Duration) domain.PredictionCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &predictionRepository{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (r *predictionRepository) GetPrediction(ctx context.Context, key string) (*domain.Prediction, error) {
	redisKey := r.keyPrefix + key

	ctx, span := tracing.StartRedisOperationSpan(ctx, "get", redisKey)
	defer span.End()

	data, err := r.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPredictionNotFound
		}
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%w: %v", ErrRedisConnection, err)
	}

	var record predictionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		tracing.RecordError(span, err)
		return nil, ErrInvalidPredictionData
	}

	return &domain.Prediction{
		ID:            record.ID,
		Label:         record.Label,
		Probabilities: record.Probabilities,
		Audit: domain.EligibilityAudit{
			Age:              record.Audit.Age,
			DataCompleteness: record.Audit.DataCompleteness,
			ReferenceRange:   record.Audit.ReferenceRange,
			PMAWeeks:         record.Audit.PMAWeeks,
			Eligible:         record.Audit.Eligible,
		},
		ModelVersion: record.ModelVersion,
		PredictedAt:  record.PredictedAt,
	}, nil
}

func (r *predictionRepository) SavePrediction(ctx context.Context, key string, prediction *domain.Prediction) error {
	if prediction == nil {
		return ErrInvalidPredictionData
	}

	redisKey := r.keyPrefix + key

	ctx, span := tracing.StartRedisOperationSpan(ctx, "set", redisKey)
	defer span.End()

	record := predictionRecord{
		ID:            prediction.ID,
		Label:         prediction.Label,
		Probabilities: prediction.Probabilities,
		Audit: auditRecord{
			Age:              prediction.Audit.Age,
			DataCompleteness: prediction.Audit.DataCompleteness,
			ReferenceRange:   prediction.Audit.ReferenceRange,
			PMAWeeks:         prediction.Audit.PMAWeeks,
			Eligible:         prediction.Audit.Eligible,
		},
		ModelVersion: prediction.ModelVersion,
		PredictedAt:  prediction.PredictedAt,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidPredictionData
	}

	if err := r.client.Set(ctx, redisKey, data, r.ttl).Err(); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %v", ErrRedisConnection, err)
	}
	return nil
}
