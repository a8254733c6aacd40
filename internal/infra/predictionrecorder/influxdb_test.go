//go:build !gcloud

package predictionrecorder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

func TestNewPoint(t *testing.T) {
	record := domain.PredictionRecord{
		PredictionID:  "p-1",
		RequestID:     "r-1",
		RecordedAt:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Label:         "QS",
		Probabilities: map[string]float64{"AS": 0.25, "QS": 0.5, "W": 0.25},
		Audit:         domain.EligibilityAudit{Age: true, DataCompleteness: true, ReferenceRange: true, PMAWeeks: 30, Eligible: true},
		ModelVersion:  "v1",
		Duration:      1500 * time.Millisecond,
	}

	point := newPoint(record)

	if point.Name() != predictionMeasurement {
		t.Errorf("Name() = %q, want %q", point.Name(), predictionMeasurement)
	}
	if !point.Time().Equal(record.RecordedAt) {
		t.Errorf("Time() = %v, want %v", point.Time(), record.RecordedAt)
	}

	tags := make(map[string]string)
	for _, tag := range point.TagList() {
		tags[tag.Key] = tag.Value
	}
	wantTags := map[string]string{"label": "QS", "model_version": "v1", "eligible": "true", "cached": "false"}
	if diff := cmp.Diff(wantTags, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	fields := make(map[string]any)
	for _, field := range point.FieldList() {
		fields[field.Key] = field.Value
	}
	wantFields := map[string]any{
		"prediction_id":    "p-1",
		"request_id":       "r-1",
		"pma_weeks":        30.0,
		"age_ok":           true,
		"data_complete":    true,
		"reference_ok":     true,
		"duration_seconds": 1.5,
		"prob_AS":          0.25,
		"prob_QS":          0.5,
		"prob_W":           0.25,
	}
	if diff := cmp.Diff(wantFields, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRecorder_FallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing credentials", cfg: &Config{InfluxDBURL: "http://localhost:8086"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("NewRecorder() error = %v", err)
			}
			if _, ok := recorder.(*noopRecorder); !ok {
				t.Errorf("NewRecorder() = %T, want *noopRecorder", recorder)
			}
			if err := recorder.RecordPrediction(context.Background(), domain.PredictionRecord{}); err != nil {
				t.Errorf("RecordPrediction() error = %v", err)
			}
		})
	}
}

type fakeWriteAPI struct {
	err    error
	points []*write.Point
}

func (f *fakeWriteAPI) WriteRecord(ctx context.Context, line ...string) error { return f.err }

func (f *fakeWriteAPI) WritePoint(ctx context.Context, point ...*write.Point) error {
	f.points = append(f.points, point...)
	return f.err
}

func (f *fakeWriteAPI) EnableBatching() {}

func (f *fakeWriteAPI) Flush(ctx context.Context) error { return nil }

func TestInfluxDBRecorder_RecordPrediction(t *testing.T) {
	record := domain.PredictionRecord{PredictionID: "p-1", Label: "W", RecordedAt: time.Now()}

	t.Run("success", func(t *testing.T) {
		api := &fakeWriteAPI{}
		r := &influxDBRecorder{writeAPI: api, bucket: "predictions", org: "nicu"}

		if err := r.RecordPrediction(context.Background(), record); err != nil {
			t.Fatalf("RecordPrediction() error = %v", err)
		}
		if len(api.points) != 1 {
			t.Errorf("points written = %d, want 1", len(api.points))
		}
	})

	t.Run("write failure names the destination", func(t *testing.T) {
		writeErr := errors.New("unauthorized")
		r := &influxDBRecorder{writeAPI: &fakeWriteAPI{err: writeErr}, bucket: "predictions", org: "nicu"}

		err := r.RecordPrediction(context.Background(), record)
		if !errors.Is(err, writeErr) {
			t.Fatalf("RecordPrediction() error = %v, want wrapped %v", err, writeErr)
		}
		if !strings.Contains(err.Error(), "nicu/predictions") {
			t.Errorf("error %q does not name org/bucket", err)
		}
	})
}
