package eligibility

import (
	"math"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

const (
	// MinPMAWeeks and MaxPMAWeeks bound the eligible postmenstrual age: Min <= PMA < Max.
	MinPMAWeeks = 28.0
	MaxPMAWeeks = 34.0
)

// Range is a closed-or-half-open numeric interval.
type Range struct {
	Min          float64
	Max          float64
	ExclusiveMin bool
}

// Contains reports whether v lies inside the range. NaN is never contained.
func (r Range) Contains(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	if r.ExclusiveMin {
		if v <= r.Min {
			return false
		}
	} else if v < r.Min {
		return false
	}
	return v <= r.Max
}

// ReferenceRange bounds the reference statistics of one vital.
// Means are inclusive on both ends, standard deviations exclude the lower bound.
type ReferenceRange struct {
	Mean Range
	Std  Range
}

// DefaultReferenceRanges is the process-wide reference table.
var DefaultReferenceRanges = map[domain.VitalKind]ReferenceRange{
	domain.VitalHR: {
		Mean: Range{Min: 100, Max: 220},
		Std:  Range{Min: 0, Max: 25, ExclusiveMin: true},
	},
	domain.VitalRR: {
		Mean: Range{Min: 20, Max: 90},
		Std:  Range{Min: 0, Max: 30, ExclusiveMin: true},
	},
	domain.VitalOS: {
		Mean: Range{Min: 85, Max: 100},
		Std:  Range{Min: 0, Max: 10, ExclusiveMin: true},
	},
}
