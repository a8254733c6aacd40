package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const predictionTracerName = "github.com/KasumiMercury/sleepwellbaby/internal/service/predict"

func PredictionTracer() trace.Tracer {
	return otel.Tracer(predictionTracerName)
}

func StartPredictionSpan(ctx context.Context, modelVersion string) (context.Context, trace.Span) {
	return PredictionTracer().Start(ctx, "swb.predict",
		trace.WithAttributes(
			attribute.String("model.version", modelVersion),
		),
	)
}

func StartStageSpan(ctx context.Context, stage string) (context.Context, trace.Span) {
	return PredictionTracer().Start(ctx, "swb.predict."+stage)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return PredictionTracer().Start(ctx, "swb.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordEligibilityResult(span trace.Span, age, data, reference bool, pmaWeeks float64, err error) {
	span.SetAttributes(
		attribute.Bool("eligibility.age", age),
		attribute.Bool("eligibility.data_completeness", data),
		attribute.Bool("eligibility.reference_range", reference),
		attribute.Float64("eligibility.pma_weeks", pmaWeeks),
	)
	recordStatus(span, err)
}

func RecordExtractionResult(span trace.Span, columnCount, missingCount int, err error) {
	span.SetAttributes(
		attribute.Int("features.column_count", columnCount),
		attribute.Int("features.missing_count", missingCount),
	)
	recordStatus(span, err)
}

func RecordPredictionResult(span trace.Span, label string, cached bool, err error) {
	span.SetAttributes(
		attribute.String("prediction.label", label),
		attribute.Bool("prediction.cached", cached),
	)
	recordStatus(span, err)
}

// RecordError marks a stage span as failed, leaving successful spans unset.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func recordStatus(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
