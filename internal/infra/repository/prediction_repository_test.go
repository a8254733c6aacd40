package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/testutil"
)

func TestSaveAndGetPrediction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPredictionRepository(client, "test:prediction:", time.Minute)

	tests := []struct {
		name       string
		prediction *domain.Prediction
	}{
		{
			name: "eligible prediction",
			prediction: &domain.Prediction{
				ID:            "p-1",
				Label:         "QS",
				Probabilities: map[string]float64{"AS": 0.2, "QS": 0.7, "W": 0.1},
				Audit:         domain.EligibilityAudit{Age: true, DataCompleteness: true, ReferenceRange: true, PMAWeeks: 30, Eligible: true},
				ModelVersion:  "v1",
				PredictedAt:   time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "ineligible prediction",
			prediction: &domain.Prediction{
				ID:            "p-2",
				Label:         domain.LabelIneligible,
				Probabilities: map[string]float64{"AS": -1, "QS": -1, "W": -1},
				Audit:         domain.EligibilityAudit{Age: false, DataCompleteness: true, ReferenceRange: true, PMAWeeks: 35.5},
				ModelVersion:  "v1",
				PredictedAt:   time.Date(2024, 3, 15, 10, 5, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.SavePrediction(ctx, tt.prediction.ID, tt.prediction); err != nil {
				t.Fatalf("SavePrediction() error = %v", err)
			}

			got, err := repo.GetPrediction(ctx, tt.prediction.ID)
			if err != nil {
				t.Fatalf("GetPrediction() error = %v", err)
			}
			if diff := cmp.Diff(tt.prediction, got); diff != "" {
				t.Errorf("GetPrediction() mismatch (-want +got):\n%s", diff)
			}

			ttl, err := client.TTL(ctx, "test:prediction:"+tt.prediction.ID).Result()
			if err != nil {
				t.Fatalf("TTL() error = %v", err)
			}
			if ttl <= 0 || ttl > time.Minute {
				t.Errorf("TTL = %v, want within (0, 1m]", ttl)
			}
		})
	}
}

func TestGetPredictionNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPredictionRepository(client, "", 0)

	_, err := repo.GetPrediction(ctx, "absent")
	if !errors.Is(err, domain.ErrPredictionNotFound) {
		t.Errorf("GetPrediction() error = %v, want ErrPredictionNotFound", err)
	}
}

func TestGetPredictionInvalidData(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPredictionRepository(client, "", 0)

	if err := client.Set(ctx, defaultKeyPrefix+"corrupt", "{not json", 0).Err(); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	_, err := repo.GetPrediction(ctx, "corrupt")
	if !errors.Is(err, ErrInvalidPredictionData) {
		t.Errorf("GetPrediction() error = %v, want ErrInvalidPredictionData", err)
	}
}

func TestSavePredictionNil(t *testing.T) {
	repo := NewPredictionRepository(nil, "", 0)

	if err := repo.SavePrediction(context.Background(), "k", nil); !errors.Is(err, ErrInvalidPredictionData) {
		t.Errorf("SavePrediction() error = %v, want ErrInvalidPredictionData", err)
	}
}
