package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// tiny keeps the t statistic finite for perfect correlations.
const tiny = 1e-20

// Trend holds the least-squares fit of the samples against their position.
type Trend struct {
	Slope     float64
	Intercept float64
	RValue    float64
	PValue    float64
}

// LinearTrend regresses values on 0..n-1 and reports a two-sided p-value for a
// zero slope. Fewer than two samples yield NaN everywhere.
func LinearTrend(values []float64) Trend {
	n := len(values)
	if n < 2 {
		nan := math.NaN()
		return Trend{Slope: nan, Intercept: nan, RValue: nan, PValue: nan}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, values, nil, false)

	_, ssx := stat.PopMeanVariance(xs, nil)
	_, ssy := stat.PopMeanVariance(values, nil)

	r := 0.0
	if ssx != 0 && ssy != 0 {
		r = stat.Correlation(xs, values, nil)
		r = math.Max(-1, math.Min(1, r))
	}

	var p float64
	if n == 2 {
		if values[0] == values[1] {
			p = 1
		}
	} else {
		df := float64(n - 2)
		t := r * math.Sqrt(df/((1-r+tiny)*(1+r+tiny)))
		p = 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Survival(math.Abs(t))
	}

	return Trend{
		Slope:     slope,
		Intercept: intercept,
		RValue:    r,
		PValue:    p,
	}
}

// Median returns the middle value, averaging the two central values for even lengths.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// compute returns every statistic of Features for the present samples.
func compute(values []float64) map[Feature]float64 {
	n := len(values)
	out := make(map[Feature]float64, len(Features))
	out[FeatureLength] = float64(n)
	out[FeatureSumValues] = floats.Sum(values)

	if n == 0 {
		nan := math.NaN()
		for _, f := range Features {
			if f != FeatureLength && f != FeatureSumValues {
				out[f] = nan
			}
		}
		return out
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	maximum := floats.Max(values)
	minimum := floats.Min(values)

	out[FeatureMedian] = Median(values)
	out[FeatureMean] = mean
	out[FeatureVariance] = variance
	out[FeatureRootMeanSquare] = math.Sqrt(floats.Dot(values, values) / float64(n))
	out[FeatureMaximum] = maximum
	out[FeatureAbsoluteMaximum] = math.Max(math.Abs(maximum), math.Abs(minimum))
	out[FeatureMinimum] = minimum

	trend := LinearTrend(values)
	out[FeatureTrendPValue] = trend.PValue
	out[FeatureTrendRValue] = trend.RValue
	out[FeatureTrendIntercept] = trend.Intercept
	out[FeatureTrendSlope] = trend.Slope

	return out
}
