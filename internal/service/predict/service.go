// Package predict composes eligibility, normalization, feature extraction,
// classification and decision mapping into a single prediction.
package predict

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/model"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/logging"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/metrics"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/tracing"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/decision"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/eligibility"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/features"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/normalize"
)

const probabilityTolerance = 1e-6

type Service struct {
	checker   *eligibility.Checker
	extractor *features.Extractor
	artifact  *model.Artifact
	cache     domain.PredictionCache
	recorder  domain.PredictionRecorder
	metrics   *metrics.PredictionMetrics
	rule      decision.Rule
}

// NewService wires the pipeline. cache, recorder and predictionMetrics may be nil.
func NewService(
	checker *eligibility.Checker,
	extractor *features.Extractor,
	artifact *model.Artifact,
	cache domain.PredictionCache,
	recorder domain.PredictionRecorder,
	predictionMetrics *metrics.PredictionMetrics,
	rule decision.Rule,
) (*Service, error) {
	if err := rule.Validate(artifact.Classes()); err != nil {
		return nil, err
	}

	return &Service{
		checker:   checker,
		extractor: extractor,
		artifact:  artifact,
		cache:     cache,
		recorder:  recorder,
		metrics:   predictionMetrics,
		rule:      rule,
	}, nil
}

func (s *Service) Classes() []string {
	return s.artifact.Classes()
}

func (s *Service) ModelVersion() string {
	return s.artifact.Version()
}

// Predict returns the sleep-stage prediction for payload. Ineligible payloads
// yield the ineligible label with every probability at -1 and never reach the
// classifier.
func (s *Service) Predict(ctx context.Context, payload *domain.Payload, opts ...Option) (*domain.Prediction, error) {
	start := time.Now()

	options := predictOptions{rule: s.rule}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracing.StartPredictionSpan(ctx, s.ModelVersion())
	defer span.End()

	prediction, cached, err := s.predict(ctx, payload, options.rule)
	if err != nil {
		tracing.RecordPredictionResult(span, "", false, err)
		return nil, err
	}
	tracing.RecordPredictionResult(span, prediction.Label, cached, nil)

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordPrediction(ctx, prediction.Label, prediction.ModelVersion)
		s.metrics.RecordPipelineDuration(ctx, prediction.IsEligible(), duration)
	}

	s.record(ctx, prediction, cached, duration)

	slog.InfoContext(ctx, "prediction completed",
		slog.String("prediction_id", prediction.ID),
		slog.String("label", prediction.Label),
		slog.Bool("eligible", prediction.IsEligible()),
		slog.Bool("cached", cached),
		slog.Duration("duration", duration),
	)

	return prediction, nil
}

func (s *Service) predict(ctx context.Context, payload *domain.Payload, rule decision.Rule) (*domain.Prediction, bool, error) {
	if payload == nil {
		return nil, false, fmt.Errorf("%w: payload is required", domain.ErrInvalidInput)
	}
	if err := payload.Validate(); err != nil {
		return nil, false, err
	}
	if err := rule.Validate(s.Classes()); err != nil {
		return nil, false, err
	}

	resolved := payload.WithObservationDate(s.checker.ObservationDate(payload))

	key := s.cacheKey(ctx, rule, resolved)
	if cached := s.lookup(ctx, key); cached != nil {
		return cached, true, nil
	}

	audit, err := s.checkEligibility(ctx, resolved)
	if err != nil {
		return nil, false, err
	}

	var prediction *domain.Prediction
	if !audit.Eligible {
		prediction = domain.NewIneligiblePrediction(s.Classes(), audit)
	} else {
		prediction, err = s.classify(ctx, resolved, audit, rule)
		if err != nil {
			return nil, false, err
		}
	}

	prediction.ID = uuid.NewString()
	prediction.ModelVersion = s.ModelVersion()

	s.store(ctx, key, prediction)

	return prediction, false, nil
}

func (s *Service) checkEligibility(ctx context.Context, payload *domain.Payload) (domain.EligibilityAudit, error) {
	ctx, span := tracing.StartStageSpan(ctx, "eligibility")
	defer span.End()

	audit, err := s.checker.Check(ctx, payload)
	tracing.RecordEligibilityResult(span, audit.Age, audit.DataCompleteness, audit.ReferenceRange, audit.PMAWeeks, err)
	if err != nil {
		return audit, err
	}

	if s.metrics != nil {
		s.metrics.RecordEligibilityCheck(ctx, "age", audit.Age)
		s.metrics.RecordEligibilityCheck(ctx, "data_completeness", audit.DataCompleteness)
		s.metrics.RecordEligibilityCheck(ctx, "reference_range", audit.ReferenceRange)
	}

	return audit, nil
}

// Preprocess normalizes the payload and returns the feature row in the
// classifier's column order. Columns the extractor did not produce are NaN.
func (s *Service) Preprocess(ctx context.Context, payload *domain.Payload) (*features.Frame, error) {
	start := time.Now()

	ctx, span := tracing.StartStageSpan(ctx, "features")
	defer span.End()

	series := normalize.Normalize(payload)

	frame, err := s.extractor.Extract(ctx, series)
	if err != nil {
		tracing.RecordExtractionResult(span, 0, 0, err)
		return nil, fmt.Errorf("failed to extract features: %w", err)
	}

	frame = frame.Reindex(s.artifact.Xcol())

	missing := countMissing(frame.Row(0))
	tracing.RecordExtractionResult(span, len(frame.Columns()), missing, nil)
	if s.metrics != nil {
		s.metrics.RecordExtractionDuration(ctx, time.Since(start))
		s.metrics.RecordMissingFeatures(ctx, missing)
	}
	if missing > 0 {
		slog.DebugContext(ctx, "feature columns filled as missing",
			slog.Int("missing_count", missing),
			slog.Int("column_count", len(frame.Columns())),
		)
	}

	return frame, nil
}

func (s *Service) classify(ctx context.Context, payload *domain.Payload, audit domain.EligibilityAudit, rule decision.Rule) (*domain.Prediction, error) {
	frame, err := s.Preprocess(ctx, payload)
	if err != nil {
		return nil, err
	}

	_, span := tracing.StartStageSpan(ctx, "classify")
	defer span.End()

	classes := s.Classes()

	proba, err := s.artifact.Classifier.PredictProba(frame.Row(0))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to predict probabilities: %w", err)
	}

	proba, err = renormalize(proba, len(classes))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	label, err := decision.Label(proba, classes, rule)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	probabilities := make(map[string]float64, len(classes))
	for i, class := range classes {
		probabilities[class] = proba[i]
	}

	return &domain.Prediction{
		Label:         label,
		Probabilities: probabilities,
		Audit:         audit,
		PredictedAt:   time.Now().UTC(),
	}, nil
}

func (s *Service) cacheKey(ctx context.Context, rule decision.Rule, payload *domain.Payload) string {
	if s.cache == nil {
		return ""
	}
	key, err := CacheKey(s.ModelVersion(), rule, payload)
	if err != nil {
		slog.WarnContext(ctx, "prediction cache disabled for request",
			slog.String("error", err.Error()),
		)
		return ""
	}
	return key
}

func (s *Service) lookup(ctx context.Context, key string) *domain.Prediction {
	if key == "" {
		return nil
	}

	prediction, err := s.cache.GetPrediction(ctx, key)
	switch {
	case err == nil:
		s.recordCacheLookup(ctx, "hit")
		return prediction
	case errors.Is(err, domain.ErrPredictionNotFound):
		s.recordCacheLookup(ctx, "miss")
	default:
		s.recordCacheLookup(ctx, "error")
		slog.WarnContext(ctx, "failed to read prediction cache",
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (s *Service) store(ctx context.Context, key string, prediction *domain.Prediction) {
	if key == "" {
		return
	}
	if err := s.cache.SavePrediction(ctx, key, prediction); err != nil {
		slog.WarnContext(ctx, "failed to write prediction cache",
			slog.String("prediction_id", prediction.ID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordCacheLookup(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(ctx, outcome)
	}
}

func (s *Service) record(ctx context.Context, prediction *domain.Prediction, cached bool, duration time.Duration) {
	if s.recorder == nil {
		return
	}

	record := domain.PredictionRecord{
		PredictionID:  prediction.ID,
		RequestID:     logging.RequestIDFromContext(ctx),
		RecordedAt:    time.Now().UTC(),
		Label:         prediction.Label,
		Probabilities: prediction.Probabilities,
		Audit:         prediction.Audit,
		ModelVersion:  prediction.ModelVersion,
		Cached:        cached,
		Duration:      duration,
	}

	if err := s.recorder.RecordPrediction(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record prediction",
			slog.String("prediction_id", prediction.ID),
			slog.String("error", err.Error()),
		)
	}
}

// renormalize guards the classifier contract: one finite non-negative
// probability per class, rescaled to sum to one.
func renormalize(proba []float64, classCount int) ([]float64, error) {
	if len(proba) != classCount {
		return nil, fmt.Errorf("classifier returned %d probabilities for %d classes", len(proba), classCount)
	}

	var total float64
	for _, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return nil, fmt.Errorf("classifier returned invalid probability %v", p)
		}
		total += p
	}
	if total == 0 {
		return nil, errors.New("classifier returned all-zero probabilities")
	}
	if math.Abs(total-1) <= probabilityTolerance {
		return proba, nil
	}

	out := make([]float64, len(proba))
	for i, p := range proba {
		out[i] = p / total
	}
	return out, nil
}

func countMissing(row []float64) int {
	n := 0
	for _, v := range row {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
