package domain

import (
	"time"
)

const (
	LabelIneligible = "ineligible"

	// IneligibleProbability is reported for every class on the ineligible path.
	IneligibleProbability = -1.0
)

// DefaultClasses are the sleep stages of the bundled model.
var DefaultClasses = []string{"AS", "QS", "W"}

// EligibilityAudit records the outcome of every eligibility sub-check for one request.
type EligibilityAudit struct {
	Age              bool    `json:"age"`
	DataCompleteness bool    `json:"data_completeness"`
	ReferenceRange   bool    `json:"reference_range"`
	PMAWeeks         float64 `json:"pma_weeks"`
	Eligible         bool    `json:"eligible"`
}

type Prediction struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
	Audit         EligibilityAudit   `json:"audit"`
	ModelVersion  string             `json:"model_version,omitempty"`
	PredictedAt   time.Time          `json:"predicted_at"`
}

// NewIneligiblePrediction builds the sentinel result for the given classes.
func NewIneligiblePrediction(classes []string, audit EligibilityAudit) *Prediction {
	probabilities := make(map[string]float64, len(classes))
	for _, class := range classes {
		probabilities[class] = IneligibleProbability
	}
	return &Prediction{
		Label:         LabelIneligible,
		Probabilities: probabilities,
		Audit:         audit,
		PredictedAt:   time.Now().UTC(),
	}
}

func (p *Prediction) IsEligible() bool {
	return p.Label != LabelIneligible
}
