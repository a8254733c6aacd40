//go:build gcloud

package predictionrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

type bigQueryProbability struct {
	Class       string  `bigquery:"class"`
	Probability float64 `bigquery:"probability"`
}

type bigQueryRecord struct {
	RecordedAt      time.Time             `bigquery:"recorded_at"`
	PredictionID    string                `bigquery:"prediction_id"`
	RequestID       string                `bigquery:"request_id"`
	Label           string                `bigquery:"label"`
	Probabilities   []bigQueryProbability `bigquery:"probabilities"`
	Eligible        bool                  `bigquery:"eligible"`
	AgeOK           bool                  `bigquery:"age_ok"`
	DataComplete    bool                  `bigquery:"data_complete"`
	ReferenceOK     bool                  `bigquery:"reference_ok"`
	PMAWeeks        float64               `bigquery:"pma_weeks"`
	ModelVersion    string                `bigquery:"model_version"`
	Cached          bool                  `bigquery:"cached"`
	DurationSeconds float64               `bigquery:"duration_seconds"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.PredictionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "prediction recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, prediction recording disabled")
		return NewNoopRecorder(), nil
	}

	var opts []option.ClientOption
	if cfg.BigQueryCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.BigQueryCredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID, opts...)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, prediction recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)
	inserter := table.Inserter()

	slog.InfoContext(ctx, "prediction recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordPrediction(ctx context.Context, record domain.PredictionRecord) error {
	probabilities := make([]bigQueryProbability, 0, len(record.Probabilities))
	for class, p := range record.Probabilities {
		probabilities = append(probabilities, bigQueryProbability{Class: class, Probability: p})
	}

	row := &bigQueryRecord{
		RecordedAt:      record.RecordedAt,
		PredictionID:    record.PredictionID,
		RequestID:       record.RequestID,
		Label:           record.Label,
		Probabilities:   probabilities,
		Eligible:        record.Audit.Eligible,
		AgeOK:           record.Audit.Age,
		DataComplete:    record.Audit.DataCompleteness,
		ReferenceOK:     record.Audit.ReferenceRange,
		PMAWeeks:        record.Audit.PMAWeeks,
		ModelVersion:    record.ModelVersion,
		Cached:          record.Cached,
		DurationSeconds: record.Duration.Seconds(),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert prediction to BigQuery",
			slog.String("error", err.Error()),
			slog.String("prediction_id", record.PredictionID),
		)
		return err
	}

	return nil
}

func (r *bigQueryRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
