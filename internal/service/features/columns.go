package features

import (
	"fmt"
	"strings"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// Feature names a statistic computed per vital and window.
type Feature string

const (
	FeatureSumValues       Feature = "sum_values"
	FeatureMedian          Feature = "median"
	FeatureMean            Feature = "mean"
	FeatureLength          Feature = "length"
	FeatureVariance        Feature = "variance"
	FeatureRootMeanSquare  Feature = "root_mean_square"
	FeatureMaximum         Feature = "maximum"
	FeatureAbsoluteMaximum Feature = "absolute_maximum"
	FeatureMinimum         Feature = "minimum"
	FeatureTrendPValue     Feature = `linear_trend__attr_"pvalue"`
	FeatureTrendRValue     Feature = `linear_trend__attr_"rvalue"`
	FeatureTrendIntercept  Feature = `linear_trend__attr_"intercept"`
	FeatureTrendSlope      Feature = `linear_trend__attr_"slope"`
)

// Features is the extraction order of every computed statistic.
var Features = []Feature{
	FeatureSumValues,
	FeatureMedian,
	FeatureMean,
	FeatureLength,
	FeatureVariance,
	FeatureRootMeanSquare,
	FeatureMaximum,
	FeatureAbsoluteMaximum,
	FeatureMinimum,
	FeatureTrendPValue,
	FeatureTrendRValue,
	FeatureTrendIntercept,
	FeatureTrendSlope,
}

// ColumnName returns the feature column key, e.g. HR__0_60__mean.
func ColumnName(kind domain.VitalKind, window int, feature Feature) string {
	return fmt.Sprintf("%s__0_%d__%s", kind, window, feature)
}

// Columns lists every column the extractor produces for the given windows.
func Columns(windows []int) []string {
	cols := make([]string, 0, len(domain.VitalKinds)*len(windows)*len(Features))
	for _, kind := range domain.VitalKinds {
		for _, window := range windows {
			for _, feature := range Features {
				cols = append(cols, ColumnName(kind, window, feature))
			}
		}
	}
	return cols
}

// IsDerived reports columns that are a linear function of other columns on complete data.
func IsDerived(col string) bool {
	return strings.HasSuffix(col, "__"+string(FeatureSumValues))
}
