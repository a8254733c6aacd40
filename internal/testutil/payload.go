package testutil

import (
	"math"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// ObservationDate is the observation date of NewPayload.
var ObservationDate = domain.NewDate(2024, 3, 15)

// NewPayload returns an eligible payload: PMA 30 weeks, complete series and
// reference statistics inside the default ranges.
func NewPayload() *domain.Payload {
	observation := ObservationDate
	return &domain.Payload{
		BirthDate:       observation.AddDays(-14),
		GestationPeriod: 28 * 7,
		ObservationDate: &observation,
		HR:              NewVitalBlock(140, 10, wave(140, 8, 0)),
		RR:              NewVitalBlock(45, 8, wave(45, 6, 1)),
		OS:              NewVitalBlock(97, 1.5, wave(97, 1, 2)),
	}
}

// NewVitalBlock uses the same statistics for the 2h and 24h references.
func NewVitalBlock(mean, std float64, values []float64) *domain.VitalBlock {
	return &domain.VitalBlock{
		Ref2hMean:  mean,
		Ref2hStd:   std,
		Ref24hMean: mean,
		Ref24hStd:  std,
		Values:     values,
	}
}

// Constant returns a full-length series holding v.
func Constant(v float64) []float64 {
	values := make([]float64, domain.SeriesLength)
	for i := range values {
		values[i] = v
	}
	return values
}

func wave(center, amplitude, phase float64) []float64 {
	values := make([]float64, domain.SeriesLength)
	for i := range values {
		values[i] = center + amplitude*math.Sin(float64(i)/9+phase)
	}
	return values
}
