package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	predictionMeterName = "sleepwellbaby.prediction"
)

type PredictionMetrics struct {
	predictions         metric.Int64Counter
	eligibilityChecks   metric.Int64Counter
	cacheLookups        metric.Int64Counter
	pipelineDuration    metric.Float64Histogram
	extractionDuration  metric.Float64Histogram
	featureCoverageLoss metric.Int64Counter
}

func NewPredictionMetrics() (*PredictionMetrics, error) {
	meter := otel.Meter(predictionMeterName)

	predictions, err := meter.Int64Counter(
		"swb_predictions_total",
		metric.WithDescription("Total number of predictions by label"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, err
	}

	eligibilityChecks, err := meter.Int64Counter(
		"swb_eligibility_checks_total",
		metric.WithDescription("Eligibility sub-check outcomes"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter(
		"swb_prediction_cache_lookups_total",
		metric.WithDescription("Prediction cache lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	pipelineDuration, err := meter.Float64Histogram(
		"swb_prediction_duration_seconds",
		metric.WithDescription("End-to-end prediction pipeline duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	extractionDuration, err := meter.Float64Histogram(
		"swb_feature_extraction_duration_seconds",
		metric.WithDescription("Windowed feature extraction duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1,
		),
	)
	if err != nil {
		return nil, err
	}

	featureCoverageLoss, err := meter.Int64Counter(
		"swb_feature_missing_total",
		metric.WithDescription("Model feature columns filled as missing"),
		metric.WithUnit("{column}"),
	)
	if err != nil {
		return nil, err
	}

	return &PredictionMetrics{
		predictions:         predictions,
		eligibilityChecks:   eligibilityChecks,
		cacheLookups:        cacheLookups,
		pipelineDuration:    pipelineDuration,
		extractionDuration:  extractionDuration,
		featureCoverageLoss: featureCoverageLoss,
	}, nil
}

func (m *PredictionMetrics) RecordPrediction(ctx context.Context, label, modelVersion string) {
	m.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label", label),
		attribute.String("model_version", modelVersion),
	))
}

func (m *PredictionMetrics) RecordEligibilityCheck(ctx context.Context, check string, passed bool) {
	m.eligibilityChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.Bool("passed", passed),
	))
}

func (m *PredictionMetrics) RecordCacheLookup(ctx context.Context, outcome string) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *PredictionMetrics) RecordPipelineDuration(ctx context.Context, eligible bool, duration time.Duration) {
	m.pipelineDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("eligible", eligible),
	))
}

func (m *PredictionMetrics) RecordExtractionDuration(ctx context.Context, duration time.Duration) {
	m.extractionDuration.Record(ctx, duration.Seconds())
}

func (m *PredictionMetrics) RecordMissingFeatures(ctx context.Context, count int) {
	if count == 0 {
		return
	}
	m.featureCoverageLoss.Add(ctx, int64(count))
}
