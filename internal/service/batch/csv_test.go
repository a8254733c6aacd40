package batch

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"datetime,HR,RESP,SpO2",
		"2024-03-15 10:00:00,140,45,97",
		"2024-03-15 10:00:01,,46,NaN",
		"2024-03-15T10:00:02Z,142,47,98",
	}, "\n")

	s, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if diff := cmp.Diff([]string{"HR", "RESP", "SpO2"}, s.Columns()); diff != "" {
		t.Errorf("Columns() mismatch (-want +got):\n%s", diff)
	}

	second := time.Date(2024, 3, 15, 10, 0, 1, 0, time.UTC)
	if !math.IsNaN(s.ValueAt(ColumnHR, second)) {
		t.Error("empty cell should read as NaN")
	}
	if !math.IsNaN(s.ValueAt(ColumnSpO2, second)) {
		t.Error("NaN cell should read as NaN")
	}
	if got := s.ValueAt(ColumnRESP, second); got != 46 {
		t.Errorf("RESP = %v, want 46", got)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no datetime column", input: "time,HR\n2024-03-15 10:00:00,140"},
		{name: "bad timestamp", input: "datetime,HR\nyesterday,140"},
		{name: "bad value", input: "datetime,HR\n2024-03-15 10:00:00,abc"},
		{name: "unsorted", input: "datetime,HR\n2024-03-15 10:00:01,140\n2024-03-15 10:00:00,141"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	s := newTestSeries(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), time.Second, 2)
	_ = s.SetColumn(ColumnHR, []float64{140, math.NaN()})

	results := []Result{{
		Time: s.Times[1],
		Prediction: &domain.Prediction{
			Label:         "W",
			Probabilities: map[string]float64{"AS": 0.25, "QS": 0.25, "W": 0.5},
		},
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s, results, domain.DefaultClasses); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := strings.Join([]string{
		"datetime,HR,prediction,AS,QS,W",
		"2024-03-15T10:00:00Z,140,,,,",
		"2024-03-15T10:00:01Z,,W,0.25,0.25,0.5",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteCSV() mismatch (-want +got):\n%s", diff)
	}
}
