package features

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) <= tol
}

func TestLinearTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Trend
	}{
		{
			name:   "perfect positive line",
			values: []float64{1, 3, 5, 7, 9},
			want:   Trend{Slope: 2, Intercept: 1, RValue: 1, PValue: 0},
		},
		{
			name:   "perfect negative line",
			values: []float64{4, 3, 2, 1},
			want:   Trend{Slope: -1, Intercept: 4, RValue: -1, PValue: 0},
		},
		{
			name:   "constant series",
			values: []float64{5, 5, 5, 5},
			want:   Trend{Slope: 0, Intercept: 5, RValue: 0, PValue: 1},
		},
		{
			name:   "two equal samples",
			values: []float64{2, 2},
			want:   Trend{Slope: 0, Intercept: 2, RValue: 0, PValue: 1},
		},
		{
			name:   "two distinct samples",
			values: []float64{2, 4},
			want:   Trend{Slope: 2, Intercept: 2, RValue: 1, PValue: 0},
		},
		{
			name:   "single sample",
			values: []float64{1},
			want:   Trend{Slope: math.NaN(), Intercept: math.NaN(), RValue: math.NaN(), PValue: math.NaN()},
		},
		{
			name:   "empty",
			values: nil,
			want:   Trend{Slope: math.NaN(), Intercept: math.NaN(), RValue: math.NaN(), PValue: math.NaN()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearTrend(tt.values)

			if !almostEqual(got.Slope, tt.want.Slope, 1e-9) {
				t.Errorf("Slope = %v, want %v", got.Slope, tt.want.Slope)
			}
			if !almostEqual(got.Intercept, tt.want.Intercept, 1e-9) {
				t.Errorf("Intercept = %v, want %v", got.Intercept, tt.want.Intercept)
			}
			if !almostEqual(got.RValue, tt.want.RValue, 1e-9) {
				t.Errorf("RValue = %v, want %v", got.RValue, tt.want.RValue)
			}
			if !almostEqual(got.PValue, tt.want.PValue, 1e-6) {
				t.Errorf("PValue = %v, want %v", got.PValue, tt.want.PValue)
			}
		})
	}
}

func TestLinearTrend_NoisySeriesPValueInRange(t *testing.T) {
	got := LinearTrend([]float64{1, 0, 1, 0, 1, 0, 1, 0})

	if got.PValue <= 0 || got.PValue >= 1 {
		t.Errorf("PValue = %v, want within (0, 1)", got.PValue)
	}
	if got.RValue >= 0 {
		t.Errorf("RValue = %v, want negative for a falling alternation", got.RValue)
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "odd", values: []float64{3, 1, 2}, want: 2},
		{name: "even", values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "empty", values: nil, want: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); !almostEqual(got, tt.want, 0) {
				t.Errorf("Median() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompute(t *testing.T) {
	got := compute([]float64{-3, 1, 2})

	want := map[Feature]float64{
		FeatureSumValues:       0,
		FeatureMedian:          1,
		FeatureMean:            0,
		FeatureLength:          3,
		FeatureVariance:        14.0 / 3,
		FeatureRootMeanSquare:  math.Sqrt(14.0 / 3),
		FeatureMaximum:         2,
		FeatureAbsoluteMaximum: 3,
		FeatureMinimum:         -3,
	}

	for feature, w := range want {
		if !almostEqual(got[feature], w, 1e-12) {
			t.Errorf("%s = %v, want %v", feature, got[feature], w)
		}
	}
	if len(got) != len(Features) {
		t.Errorf("computed %d features, want %d", len(got), len(Features))
	}
}

func TestCompute_Empty(t *testing.T) {
	got := compute(nil)

	if got[FeatureLength] != 0 {
		t.Errorf("length = %v, want 0", got[FeatureLength])
	}
	for _, f := range []Feature{FeatureMean, FeatureMedian, FeatureVariance, FeatureTrendSlope} {
		if !math.IsNaN(got[f]) {
			t.Errorf("%s = %v, want NaN", f, got[f])
		}
	}
}
