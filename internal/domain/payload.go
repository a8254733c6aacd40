package domain

import (
	"encoding/json"
	"fmt"
)

// MinSampleValue is the lowest accepted raw sample; -1 is the missing sentinel.
const MinSampleValue = -1

// VitalBlock holds one vital series with the patient's reference statistics.
// Values are chronologically ascending; the last element is the most recent sample.
type VitalBlock struct {
	Ref2hMean  float64   `json:"ref2h_mean"`
	Ref2hStd   float64   `json:"ref2h_std"`
	Ref24hMean float64   `json:"ref24h_mean"`
	Ref24hStd  float64   `json:"ref24h_std"`
	Values     []float64 `json:"values" binding:"required,len=192,dive,gte=-1"`
}

// UnmarshalJSON rejects blocks that omit a reference statistic, so an absent
// key never decodes to a zero reference.
func (b *VitalBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ref2hMean  *float64  `json:"ref2h_mean"`
		Ref2hStd   *float64  `json:"ref2h_std"`
		Ref24hMean *float64  `json:"ref24h_mean"`
		Ref24hStd  *float64  `json:"ref24h_std"`
		Values     []float64 `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	refs := []struct {
		key   string
		value *float64
	}{
		{"ref2h_mean", raw.Ref2hMean},
		{"ref2h_std", raw.Ref2hStd},
		{"ref24h_mean", raw.Ref24hMean},
		{"ref24h_std", raw.Ref24hStd},
	}
	for _, ref := range refs {
		if ref.value == nil {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, ref.key)
		}
	}

	*b = VitalBlock{
		Ref2hMean:  *raw.Ref2hMean,
		Ref2hStd:   *raw.Ref2hStd,
		Ref24hMean: *raw.Ref24hMean,
		Ref24hStd:  *raw.Ref24hStd,
		Values:     raw.Values,
	}
	return nil
}

// Payload is a single prediction request.
type Payload struct {
	BirthDate       Date  `json:"birth_date" binding:"required"`
	GestationPeriod int   `json:"gestation_period" binding:"required"`
	ObservationDate *Date `json:"observation_date"`

	HR *VitalBlock `json:"param_HR" binding:"required"`
	RR *VitalBlock `json:"param_RR" binding:"required"`
	OS *VitalBlock `json:"param_OS" binding:"required"`
}

// Vital returns the block for kind, or nil when absent.
func (p *Payload) Vital(kind VitalKind) *VitalBlock {
	switch kind {
	case VitalHR:
		return p.HR
	case VitalRR:
		return p.RR
	case VitalOS:
		return p.OS
	default:
		return nil
	}
}

// Vitals returns the present blocks keyed by kind.
func (p *Payload) Vitals() map[VitalKind]*VitalBlock {
	vitals := make(map[VitalKind]*VitalBlock, len(VitalKinds))
	for _, kind := range VitalKinds {
		if block := p.Vital(kind); block != nil {
			vitals[kind] = block
		}
	}
	return vitals
}

// WithObservationDate returns a shallow copy whose observation date is set to
// date when the payload leaves it absent.
func (p *Payload) WithObservationDate(date Date) *Payload {
	resolved := *p
	if resolved.ObservationDate == nil {
		resolved.ObservationDate = &date
	}
	return &resolved
}

// Validate checks the structural requirements of the payload.
func (p *Payload) Validate() error {
	if p.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth_date is required", ErrInvalidInput)
	}
	for _, kind := range VitalKinds {
		block := p.Vital(kind)
		if block == nil {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, kind.PayloadKey())
		}
		if len(block.Values) != SeriesLength {
			return fmt.Errorf("%w: %s.values must hold %d samples, got %d",
				ErrInvalidInput, kind.PayloadKey(), SeriesLength, len(block.Values))
		}
		for i, v := range block.Values {
			if v < MinSampleValue {
				return fmt.Errorf("%w: %s.values[%d] = %v is below %d",
					ErrInvalidInput, kind.PayloadKey(), i, v, MinSampleValue)
			}
		}
	}
	return nil
}
