package batch

import (
	"math"
	"time"
)

const (
	DefaultTolerance2h  = 0.10
	DefaultTolerance24h = 0.05
)

// ComputeReferenceValues adds the trailing 2h and 24h mean and sample standard
// deviation of every signal column. A window yields NaN until it holds at least
// tolerance * freqHz * window seconds observed values. Windows are (t-d, t].
func ComputeReferenceValues(s *Series, freqHz, tolerance2h, tolerance24h float64) error {
	windows := []struct {
		window    ReferenceWindow
		tolerance float64
	}{
		{window: Reference2h, tolerance: tolerance2h},
		{window: Reference24h, tolerance: tolerance24h},
	}

	for _, signal := range SignalColumns {
		values, err := s.Column(signal)
		if err != nil {
			return err
		}
		for _, w := range windows {
			minPeriods := int(freqHz * w.tolerance * w.window.Duration.Seconds())
			means, stds := rollingMeanStd(s.Times, values, w.window.Duration, minPeriods)
			if err := s.SetColumn(ReferenceColumn(signal, w.window, "mean"), means); err != nil {
				return err
			}
			if err := s.SetColumn(ReferenceColumn(signal, w.window, "std"), stds); err != nil {
				return err
			}
		}
	}
	return nil
}

// rollingMeanStd computes time-windowed statistics with running sums.
// NaN values are skipped and do not count towards minPeriods. Sums are kept
// relative to the first observed value to limit cancellation.
func rollingMeanStd(times []time.Time, values []float64, window time.Duration, minPeriods int) ([]float64, []float64) {
	means := make([]float64, len(values))
	stds := make([]float64, len(values))
	minPeriods = max(minPeriods, 1)

	shift := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			shift = v
			break
		}
	}

	var sum, sumSq float64
	count := 0
	start := 0
	for i, t := range times {
		if v := values[i] - shift; !math.IsNaN(v) {
			sum += v
			sumSq += v * v
			count++
		}
		for !times[start].After(t.Add(-window)) {
			if v := values[start] - shift; !math.IsNaN(v) {
				sum -= v
				sumSq -= v * v
				count--
			}
			start++
		}

		means[i] = math.NaN()
		stds[i] = math.NaN()
		if count < minPeriods {
			continue
		}
		n := float64(count)
		means[i] = sum/n + shift
		if count > 1 {
			variance := (sumSq - sum*sum/n) / (n - 1)
			stds[i] = math.Sqrt(math.Max(variance, 0))
		}
	}
	return means, stds
}
