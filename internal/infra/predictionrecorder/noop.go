package predictionrecorder

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// noopRecorder drops audit records. It is used when no audit backend is configured.
type noopRecorder struct{}

func NewNoopRecorder() domain.PredictionRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordPrediction(ctx context.Context, record domain.PredictionRecord) error {
	slog.DebugContext(ctx, "prediction audit record dropped",
		slog.String("prediction_id", record.PredictionID),
		slog.String("label", record.Label),
	)
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
