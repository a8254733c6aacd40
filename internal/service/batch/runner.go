package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/predict"
)

const (
	DefaultGestationPeriod       = 210
	DefaultMissingIndexThreshold = 0.1

	// WindowDuration is the span covered by one payload.
	WindowDuration = time.Duration(domain.SeriesLength) * domain.SampleInterval
)

// Frequency is the sampling rate of a recording.
type Frequency string

const (
	Frequency1Hz    Frequency = "1s"
	Frequency2500ms Frequency = "2.5s"
)

func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case Frequency1Hz, Frequency2500ms:
		return Frequency(s), nil
	default:
		return "", fmt.Errorf("%w: unsupported frequency %q", domain.ErrInvalidInput, s)
	}
}

// Hz returns the samples per second.
func (f Frequency) Hz() float64 {
	if f == Frequency2500ms {
		return domain.SamplingFrequencyHz
	}
	return 1
}

// Predictor is the part of predict.Service the runner depends on.
type Predictor interface {
	Predict(ctx context.Context, payload *domain.Payload, opts ...predict.Option) (*domain.Prediction, error)
	Classes() []string
}

type Options struct {
	// BirthDate defaults to the observation date of each target.
	BirthDate       *domain.Date
	GestationPeriod int
	Frequency       Frequency
	// MissingIndexThreshold is the largest tolerated fraction of window timestamps absent from the series.
	MissingIndexThreshold float64
}

func DefaultOptions() Options {
	return Options{
		GestationPeriod:       DefaultGestationPeriod,
		Frequency:             Frequency1Hz,
		MissingIndexThreshold: DefaultMissingIndexThreshold,
	}
}

// Result is the prediction at one target timestamp.
type Result struct {
	Time       time.Time
	Prediction *domain.Prediction
}

type Runner struct {
	predictor Predictor
	opts      Options
}

func NewRunner(predictor Predictor, opts Options) *Runner {
	if opts.GestationPeriod == 0 {
		opts.GestationPeriod = DefaultGestationPeriod
	}
	if opts.Frequency == "" {
		opts.Frequency = Frequency1Hz
	}
	return &Runner{
		predictor: predictor,
		opts:      opts,
	}
}

// Run predicts at every target. Targets whose reference statistics are not
// defined are ineligible without running the pipeline.
func (r *Runner) Run(ctx context.Context, s *Series, targets []time.Time) ([]Result, error) {
	for _, column := range append(append([]string(nil), SignalColumns...), ReferenceColumns()...) {
		if !s.HasColumn(column) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
		}
	}

	slog.InfoContext(ctx, "batch prediction started",
		slog.Int("rows", s.Len()),
		slog.Int("targets", len(targets)),
		slog.String("frequency", string(r.opts.Frequency)),
	)

	results := make([]Result, 0, len(targets))
	ineligible := 0
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prediction, err := r.predictAt(ctx, s, target)
		if err != nil {
			return nil, fmt.Errorf("prediction at %s: %w", target.Format(time.RFC3339), err)
		}
		if !prediction.IsEligible() {
			ineligible++
		}
		results = append(results, Result{Time: target, Prediction: prediction})
	}

	slog.InfoContext(ctx, "batch prediction completed",
		slog.Int("predictions", len(results)),
		slog.Int("ineligible", ineligible),
	)

	return results, nil
}

func (r *Runner) predictAt(ctx context.Context, s *Series, target time.Time) (*domain.Prediction, error) {
	timestamps := r.WindowTimestamps(target)

	missing := 0
	for _, ts := range timestamps {
		if _, ok := s.IndexOf(ts); !ok {
			missing++
		}
	}
	if fraction := float64(missing) / float64(len(timestamps)); fraction > r.opts.MissingIndexThreshold {
		return nil, fmt.Errorf("%w: %d of %d (threshold %.0f%%)",
			ErrTooManyMissingTimestamps, missing, len(timestamps), r.opts.MissingIndexThreshold*100)
	}

	last := timestamps[len(timestamps)-1]
	for _, column := range ReferenceColumns() {
		if math.IsNaN(s.ValueAt(column, last)) {
			slog.DebugContext(ctx, "reference values undefined",
				slog.Time("target", target),
				slog.String("column", column),
			)
			return domain.NewIneligiblePrediction(r.predictor.Classes(), domain.EligibilityAudit{}), nil
		}
	}

	return r.predictor.Predict(ctx, r.payload(s, timestamps))
}

// WindowTimestamps returns the payload sample times for target: one every
// 2.5 s over (target-8m, target], rounded to whole seconds for 1 Hz recordings.
func (r *Runner) WindowTimestamps(target time.Time) []time.Time {
	timestamps := make([]time.Time, domain.SeriesLength)
	start := target.Add(-WindowDuration)
	for i := range timestamps {
		ts := start.Add(time.Duration(i+1) * domain.SampleInterval)
		if r.opts.Frequency == Frequency1Hz {
			ts = roundHalfEven(ts, time.Second)
		}
		timestamps[i] = ts
	}
	return timestamps
}

func (r *Runner) payload(s *Series, timestamps []time.Time) *domain.Payload {
	last := timestamps[len(timestamps)-1]
	observation := domain.DateOf(last)

	birth := observation
	if r.opts.BirthDate != nil {
		birth = *r.opts.BirthDate
	}

	payload := &domain.Payload{
		BirthDate:       birth,
		GestationPeriod: r.opts.GestationPeriod,
		ObservationDate: &observation,
	}
	for kind, signal := range SignalColumn {
		block := &domain.VitalBlock{
			Ref2hMean:  s.ValueAt(ReferenceColumn(signal, Reference2h, "mean"), last),
			Ref2hStd:   s.ValueAt(ReferenceColumn(signal, Reference2h, "std"), last),
			Ref24hMean: s.ValueAt(ReferenceColumn(signal, Reference24h, "mean"), last),
			Ref24hStd:  s.ValueAt(ReferenceColumn(signal, Reference24h, "std"), last),
			Values:     make([]float64, len(timestamps)),
		}
		for i, ts := range timestamps {
			v := s.ValueAt(signal, ts)
			if math.IsNaN(v) {
				v = -1
			}
			block.Values[i] = v
		}

		switch kind {
		case domain.VitalHR:
			payload.HR = block
		case domain.VitalRR:
			payload.RR = block
		case domain.VitalOS:
			payload.OS = block
		}
	}
	return payload
}

// Targets returns timestamps every interval from the first point with a full
// window behind it up to the end of the series.
func Targets(s *Series, every time.Duration) []time.Time {
	if s.Len() == 0 || every <= 0 {
		return nil
	}

	first := s.Times[0].Add(WindowDuration)
	last := s.Times[s.Len()-1]

	var targets []time.Time
	for t := first; !t.After(last); t = t.Add(every) {
		targets = append(targets, t)
	}
	return targets
}

// roundHalfEven rounds t to a multiple of d, ties to even.
func roundHalfEven(t time.Time, d time.Duration) time.Time {
	ns := t.UnixNano()
	q := ns / int64(d)
	rem := ns % int64(d)
	if rem < 0 {
		q--
		rem += int64(d)
	}
	switch {
	case 2*rem > int64(d):
		q++
	case 2*rem == int64(d) && q%2 != 0:
		q++
	}
	return time.Unix(0, q*int64(d)).In(t.Location())
}
