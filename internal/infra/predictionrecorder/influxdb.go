//go:build !gcloud

package predictionrecorder

import (
	"context"
	"fmt"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

const predictionMeasurement = "swb_prediction"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.PredictionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "prediction recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, prediction recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "prediction recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("org", cfg.InfluxDBOrg),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordPrediction(ctx context.Context, record domain.PredictionRecord) error {
	if err := r.writeAPI.WritePoint(ctx, newPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write prediction to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("prediction_id", record.PredictionID),
			slog.String("org", r.org),
			slog.String("bucket", r.bucket),
		)
		return fmt.Errorf("write prediction to %s/%s: %w", r.org, r.bucket, err)
	}
	return nil
}

// newPoint tags a record by label and model version; probabilities become prob_<class> fields.
func newPoint(record domain.PredictionRecord) *write.Point {
	fields := map[string]any{
		"prediction_id":    record.PredictionID,
		"request_id":       record.RequestID,
		"pma_weeks":        record.Audit.PMAWeeks,
		"age_ok":           record.Audit.Age,
		"data_complete":    record.Audit.DataCompleteness,
		"reference_ok":     record.Audit.ReferenceRange,
		"duration_seconds": record.Duration.Seconds(),
	}
	for class, p := range record.Probabilities {
		fields["prob_"+class] = p
	}

	return influxdb2.NewPoint(
		predictionMeasurement,
		map[string]string{
			"label":         record.Label,
			"model_version": record.ModelVersion,
			"eligible":      boolTag(record.Audit.Eligible),
			"cached":        boolTag(record.Cached),
		},
		fields,
		record.RecordedAt,
	)
}

func boolTag(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
