// Package normalize rescales raw vital series against patient reference statistics.
package normalize

import (
	"math"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

const (
	// SentinelEpsilon absorbs floating noise around the zero sentinel.
	SentinelEpsilon = 1e-10

	// minScale is the smallest usable scale; anything below is replaced by 1.
	minScale = 10 * 2.220446049250313e-16
)

// Scale returns a usable scale for std, replacing degenerate values by 1.
func Scale(std float64) float64 {
	if math.IsNaN(std) || math.Abs(std) < minScale {
		return 1
	}
	return std
}

// MaskMissing returns a copy of values with sentinel-coded samples replaced by NaN.
func MaskMissing(values []float64) []float64 {
	masked := make([]float64, len(values))
	for i, v := range values {
		if v <= SentinelEpsilon {
			masked[i] = math.NaN()
			continue
		}
		masked[i] = v
	}
	return masked
}

// Rescale z-scores values with the given center and scale. Missing samples stay NaN.
func Rescale(values []float64, mean, std float64) []float64 {
	scale := Scale(std)
	scaled := MaskMissing(values)
	for i, v := range scaled {
		if math.IsNaN(v) {
			continue
		}
		scaled[i] = (v - mean) / scale
	}
	return scaled
}

// Normalize converts every vital block of the payload. Scaled vitals use their
// 24 hour reference mean and standard deviation; the others are only masked.
func Normalize(payload *domain.Payload) map[domain.VitalKind][]float64 {
	series := make(map[domain.VitalKind][]float64, len(domain.VitalKinds))
	for kind, block := range payload.Vitals() {
		if !kind.IsScaled() {
			series[kind] = MaskMissing(block.Values)
			continue
		}
		series[kind] = Rescale(block.Values, block.Ref24hMean, block.Ref24hStd)
	}
	return series
}
