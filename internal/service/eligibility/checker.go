package eligibility

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

type Checker struct {
	ranges  map[domain.VitalKind]ReferenceRange
	windows []int
	today   func() domain.Date
}

type Option func(*Checker)

// WithReferenceRanges replaces the reference table.
func WithReferenceRanges(ranges map[domain.VitalKind]ReferenceRange) Option {
	return func(c *Checker) {
		c.ranges = ranges
	}
}

// WithToday overrides the clock used when the observation date is absent.
func WithToday(today func() domain.Date) Option {
	return func(c *Checker) {
		c.today = today
	}
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		ranges:  DefaultReferenceRanges,
		windows: domain.LookbackWindows,
		today:   domain.Today,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ObservationDate returns the payload's observation date, defaulting to today.
func (c *Checker) ObservationDate(payload *domain.Payload) domain.Date {
	if payload.ObservationDate != nil {
		return *payload.ObservationDate
	}
	return c.today()
}

// PMAWeeks returns the postmenstrual age in weeks on the observation date.
func (c *Checker) PMAWeeks(payload *domain.Payload) (float64, error) {
	observation := c.ObservationDate(payload)
	if observation.Before(payload.BirthDate.Time) {
		return 0, fmt.Errorf("%w: observation date %s cannot be before birth date %s",
			domain.ErrInvalidInput, observation, payload.BirthDate)
	}

	conception := payload.BirthDate.AddDays(-payload.GestationPeriod)

	return float64(observation.DaysSince(conception)) / 7, nil
}

// AgeEligible reports whether MinPMAWeeks <= PMA < MaxPMAWeeks.
func (c *Checker) AgeEligible(payload *domain.Payload) (bool, float64, error) {
	pma, err := c.PMAWeeks(payload)
	if err != nil {
		return false, 0, err
	}
	return MinPMAWeeks <= pma && pma < MaxPMAWeeks, pma, nil
}

// DataEligible reports whether every lookback window of every vital holds at most
// MissingThreshold sentinel samples. The newest samples are at the end of each series.
func (c *Checker) DataEligible(payload *domain.Payload) bool {
	vitals := payload.Vitals()
	for _, window := range c.windows {
		n := domain.SamplesInWindow(window)
		for _, kind := range domain.VitalKinds {
			block, ok := vitals[kind]
			if !ok {
				continue
			}
			if missingFraction(tail(block.Values, n)) > domain.MissingThreshold {
				return false
			}
		}
	}
	return true
}

// ReferenceEligible reports whether all reference statistics fall inside the reference table.
// Vitals without a table entry are ignored.
func (c *Checker) ReferenceEligible(payload *domain.Payload) bool {
	for kind, block := range payload.Vitals() {
		ref, ok := c.ranges[kind]
		if !ok {
			continue
		}
		for _, mean := range []float64{block.Ref2hMean, block.Ref24hMean} {
			if !ref.Mean.Contains(mean) {
				return false
			}
		}
		for _, std := range []float64{block.Ref2hStd, block.Ref24hStd} {
			if !ref.Std.Contains(std) {
				return false
			}
		}
	}
	return true
}

// Check runs every sub-check and returns the audit record. All sub-checks run
// even when an earlier one already failed.
func (c *Checker) Check(ctx context.Context, payload *domain.Payload) (domain.EligibilityAudit, error) {
	ageOK, pma, err := c.AgeEligible(payload)
	if err != nil {
		return domain.EligibilityAudit{}, err
	}
	if !ageOK {
		slog.InfoContext(ctx, "patient does not meet PMA criteria",
			slog.Float64("pma_weeks", pma),
		)
	}

	dataOK := c.DataEligible(payload)
	if !dataOK {
		slog.InfoContext(ctx, "data completeness criteria not met")
	}

	refOK := c.ReferenceEligible(payload)
	if !refOK {
		slog.InfoContext(ctx, "reference values out of bounds")
	}

	audit := domain.EligibilityAudit{
		Age:              ageOK,
		DataCompleteness: dataOK,
		ReferenceRange:   refOK,
		PMAWeeks:         pma,
		Eligible:         ageOK && dataOK && refOK,
	}

	slog.DebugContext(ctx, "eligibility checked",
		slog.Bool("age", audit.Age),
		slog.Bool("data_completeness", audit.DataCompleteness),
		slog.Bool("reference_range", audit.ReferenceRange),
		slog.Bool("eligible", audit.Eligible),
	)

	return audit, nil
}

func tail(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}

func missingFraction(values []float64) float64 {
	if len(values) == 0 {
		return 1
	}
	missing := 0
	for _, v := range values {
		if domain.IsMissing(v) {
			missing++
		}
	}
	return float64(missing) / float64(len(values))
}
