// Package features derives per-window statistical features from normalized vital series.
package features

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// WindowFeatures is the feature row of one lookback window.
type WindowFeatures struct {
	Window  int
	Values  map[string]float64
	Lengths map[domain.VitalKind]int
}

// MinimumSamples returns the number of present samples a window needs to be kept.
func MinimumSamples(window int, coverage float64) int {
	return int(float64(window) / domain.SampleInterval.Seconds() * coverage)
}

// Covered reports whether every vital retained enough samples in the window.
func (w WindowFeatures) Covered(coverage float64) bool {
	minimum := MinimumSamples(w.Window, coverage)
	for _, n := range w.Lengths {
		if n < minimum {
			return false
		}
	}
	return true
}

type Extractor struct {
	windows  []int
	coverage float64
	parallel bool
}

type Option func(*Extractor)

// WithParallel fans window extraction out over goroutines.
func WithParallel(parallel bool) Option {
	return func(e *Extractor) {
		e.parallel = parallel
	}
}

func WithWindows(windows []int) Option {
	return func(e *Extractor) {
		e.windows = slices.Clone(windows)
	}
}

func WithCoverage(coverage float64) Option {
	return func(e *Extractor) {
		e.coverage = coverage
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		windows:  slices.Clone(domain.LookbackWindows),
		coverage: domain.MinimumCoverage,
	}
	for _, opt := range opts {
		opt(e)
	}
	slices.Sort(e.windows)
	return e
}

func (e *Extractor) Windows() []int {
	return slices.Clone(e.windows)
}

// anchor is the reference time shared by every window, in seconds.
func (e *Extractor) anchor() float64 {
	return float64(e.windows[len(e.windows)-1])
}

// ExtractWindows computes one feature row per lookback window, in window order.
func (e *Extractor) ExtractWindows(ctx context.Context, series map[domain.VitalKind][]float64) ([]WindowFeatures, error) {
	results := make([]WindowFeatures, len(e.windows))

	if !e.parallel {
		for i, window := range e.windows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.extractWindow(window, series)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, window := range e.windows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.extractWindow(window, series)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Extract returns a single-row frame with the features of every covered window.
// Windows lacking coverage are left missing; when no window is covered the row
// is entirely missing. Derived sum columns are dropped.
func (e *Extractor) Extract(ctx context.Context, series map[domain.VitalKind][]float64) (*Frame, error) {
	windows, err := e.ExtractWindows(ctx, series)
	if err != nil {
		return nil, err
	}

	row := make(map[string]float64)
	covered := 0
	for _, w := range windows {
		if !w.Covered(e.coverage) {
			slog.DebugContext(ctx, "dropping under-covered window",
				slog.Int("window_seconds", w.Window),
				slog.Int("minimum_samples", MinimumSamples(w.Window, e.coverage)),
			)
			continue
		}
		covered++
		for col, v := range w.Values {
			row[col] = v
		}
	}

	if covered == 0 {
		slog.WarnContext(ctx, "no lookback window has sufficient coverage, features are missing",
			slog.Int("window_count", len(windows)),
		)
	}

	frame := NewFrame(Columns(e.windows))
	frame.AppendRow(row)

	return frame.DropColumns(IsDerived), nil
}

func (e *Extractor) extractWindow(window int, series map[domain.VitalKind][]float64) WindowFeatures {
	anchor := e.anchor()
	interval := domain.SampleInterval.Seconds()

	result := WindowFeatures{
		Window:  window,
		Values:  make(map[string]float64, len(series)*len(Features)),
		Lengths: make(map[domain.VitalKind]int, len(series)),
	}

	for _, kind := range domain.VitalKinds {
		values, ok := series[kind]
		if !ok {
			continue
		}

		n := len(values)
		present := make([]float64, 0, n)
		for i, v := range values {
			// the newest sample sits on the anchor
			sampleTime := anchor - float64(n-1-i)*interval
			if anchor-sampleTime >= float64(window) {
				continue
			}
			if math.IsNaN(v) {
				continue
			}
			present = append(present, v)
		}

		stats := compute(present)
		for feature, v := range stats {
			result.Values[ColumnName(kind, window, feature)] = v
		}
		result.Lengths[kind] = len(present)
	}

	return result
}
