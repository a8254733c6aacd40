package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func block(n int) *VitalBlock {
	return &VitalBlock{
		Ref2hMean:  140,
		Ref2hStd:   10,
		Ref24hMean: 140,
		Ref24hStd:  10,
		Values:     make([]float64, n),
	}
}

func validPayload() *Payload {
	return &Payload{
		BirthDate:       NewDate(2024, 3, 1),
		GestationPeriod: 196,
		HR:              block(SeriesLength),
		RR:              block(SeriesLength),
		OS:              block(SeriesLength),
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "valid", in: "2024-02-29", want: NewDate(2024, 2, 29)},
		{name: "invalid day", in: "2023-02-29", wantErr: true},
		{name: "wrong layout", in: "29/02/2024", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidInput", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var holder struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-03-15"}`), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if holder.D.String() != "2024-03-15" {
		t.Errorf("D = %s, want 2024-03-15", holder.D)
	}

	out, err := json.Marshal(holder)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"d":"2024-03-15"}` {
		t.Errorf("Marshal() = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"d":20240315}`), &holder); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("numeric date error = %v, want ErrInvalidInput", err)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2024, 2, 28)
	if got := d.AddDays(2).String(); got != "2024-03-01" {
		t.Errorf("AddDays(2) = %s, want 2024-03-01", got)
	}
	if got := NewDate(2024, 3, 15).DaysSince(NewDate(2024, 1, 1)); got != 74 {
		t.Errorf("DaysSince() = %d, want 74", got)
	}
	if got := DateOf(time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)); got.String() != "2024-03-15" {
		t.Errorf("DateOf() = %s", got)
	}
}

func TestPayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Payload)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *Payload) {}},
		{name: "missing birth date", mutate: func(p *Payload) { p.BirthDate = Date{} }, wantErr: true},
		{name: "missing OS", mutate: func(p *Payload) { p.OS = nil }, wantErr: true},
		{name: "short RR", mutate: func(p *Payload) { p.RR = block(SeriesLength - 1) }, wantErr: true},
		{name: "long HR", mutate: func(p *Payload) { p.HR = block(SeriesLength + 1) }, wantErr: true},
		{name: "sentinel sample", mutate: func(p *Payload) { p.OS.Values[0] = -1 }},
		{name: "sample below sentinel", mutate: func(p *Payload) { p.HR.Values[5] = -50 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPayload_JSONKeys(t *testing.T) {
	data := []byte(`{
		"birth_date": "2024-03-01",
		"gestation_period": 196,
		"observation_date": "2024-03-15",
		"unknown": true,
		"param_HR": {"ref2h_mean": 1, "ref2h_std": 2, "ref24h_mean": 3, "ref24h_std": 4, "values": [1, -1]},
		"param_RR": {"ref2h_mean": 0, "ref2h_std": 0, "ref24h_mean": 0, "ref24h_std": 0, "values": []},
		"param_OS": {"ref2h_mean": 0, "ref2h_std": 0, "ref24h_mean": 0, "ref24h_std": 0, "values": []}
	}`)

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.ObservationDate == nil || p.ObservationDate.String() != "2024-03-15" {
		t.Errorf("ObservationDate = %v", p.ObservationDate)
	}
	if p.HR.Ref24hStd != 4 || len(p.HR.Values) != 2 {
		t.Errorf("HR = %+v", p.HR)
	}
	if got := len(p.Vitals()); got != 3 {
		t.Errorf("len(Vitals()) = %d, want 3", got)
	}
}

func TestVitalBlock_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    VitalBlock
		wantErr bool
	}{
		{
			name: "zero references are kept",
			data: `{"ref2h_mean": 0, "ref2h_std": 0, "ref24h_mean": 0, "ref24h_std": 0, "values": [1]}`,
			want: VitalBlock{Values: []float64{1}},
		},
		{
			name:    "missing ref24h_std",
			data:    `{"ref2h_mean": 140, "ref2h_std": 10, "ref24h_mean": 140, "values": [1]}`,
			wantErr: true,
		},
		{
			name:    "null ref2h_mean",
			data:    `{"ref2h_mean": null, "ref2h_std": 10, "ref24h_mean": 140, "ref24h_std": 10, "values": [1]}`,
			wantErr: true,
		},
		{
			name:    "string reference",
			data:    `{"ref2h_mean": "140", "ref2h_std": 10, "ref24h_mean": 140, "ref24h_std": 10, "values": [1]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got VitalBlock
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got.Ref24hStd != tt.want.Ref24hStd || len(got.Values) != len(tt.want.Values) {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.want)
			}
		})
	}

	var missing VitalBlock
	err := json.Unmarshal([]byte(`{"values": []}`), &missing)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing references error = %v, want ErrInvalidInput", err)
	}
}

func TestPayload_WithObservationDate(t *testing.T) {
	fallback := NewDate(2024, 3, 20)

	p := validPayload()
	resolved := p.WithObservationDate(fallback)
	if p.ObservationDate != nil {
		t.Error("WithObservationDate mutated the receiver")
	}
	if resolved.ObservationDate == nil || !resolved.ObservationDate.Equal(fallback.Time) {
		t.Errorf("ObservationDate = %v, want %s", resolved.ObservationDate, fallback)
	}

	explicit := NewDate(2024, 3, 10)
	p.ObservationDate = &explicit
	if got := p.WithObservationDate(fallback).ObservationDate; !got.Equal(explicit.Time) {
		t.Errorf("explicit ObservationDate overwritten with %s", got)
	}
}

func TestVitalHelpers(t *testing.T) {
	if got := SamplesInWindow(60); got != 24 {
		t.Errorf("SamplesInWindow(60) = %d, want 24", got)
	}
	if got := SamplesInWindow(480); got != SeriesLength {
		t.Errorf("SamplesInWindow(480) = %d, want %d", got, SeriesLength)
	}
	for _, v := range []float64{0, -1, -5} {
		if !IsMissing(v) {
			t.Errorf("IsMissing(%v) = false", v)
		}
	}
	if IsMissing(0.1) {
		t.Error("IsMissing(0.1) = true")
	}
	if VitalOS.IsScaled() || !VitalHR.IsScaled() {
		t.Error("only oxygen saturation keeps its absolute scale")
	}
	if VitalRR.PayloadKey() != "param_RR" {
		t.Errorf("PayloadKey() = %s", VitalRR.PayloadKey())
	}
}

func TestNewIneligiblePrediction(t *testing.T) {
	p := NewIneligiblePrediction(DefaultClasses, EligibilityAudit{Age: true})
	if p.IsEligible() {
		t.Error("IsEligible() = true")
	}
	for _, class := range DefaultClasses {
		if p.Probabilities[class] != IneligibleProbability {
			t.Errorf("%s = %v, want %v", class, p.Probabilities[class], IneligibleProbability)
		}
	}
}
