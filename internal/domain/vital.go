package domain

import "time"

// VitalKind identifies one of the monitored vital-sign series.
type VitalKind string

const (
	VitalHR VitalKind = "HR"
	VitalRR VitalKind = "RR"
	VitalOS VitalKind = "OS"
)

// VitalKinds is the fixed processing order of the vital blocks.
var VitalKinds = []VitalKind{VitalHR, VitalRR, VitalOS}

const (
	SeriesLength        = 192
	SampleInterval      = 2500 * time.Millisecond
	SamplingFrequencyHz = 0.4

	// MissingThreshold is the largest tolerated fraction of sentinel samples per lookback window.
	MissingThreshold = 0.5
	// MinimumCoverage is the fraction of expected samples a window needs to keep its features.
	MinimumCoverage = 0.5
)

// LookbackWindows are the trailing feature windows in seconds. The last one is the anchor.
var LookbackWindows = []int{60, 120, 240, 480}

func (k VitalKind) String() string {
	return string(k)
}

// PayloadKey returns the JSON key of the vital block.
func (k VitalKind) PayloadKey() string {
	return "param_" + string(k)
}

// IsScaled reports whether the series is rescaled against its reference statistics.
// Oxygen saturation is kept on its absolute scale.
func (k VitalKind) IsScaled() bool {
	return k != VitalOS
}

// SamplesInWindow returns the number of samples a window of the given length holds.
func SamplesInWindow(windowSeconds int) int {
	return int(float64(windowSeconds) * SamplingFrequencyHz)
}

// IsMissing reports whether a raw sample is sentinel-coded as missing.
func IsMissing(v float64) bool {
	return v <= 0
}
