package model

import (
	"fmt"
	"math"
)

// SoftmaxParams is the on-disk form of a multinomial linear model.
type SoftmaxParams struct {
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
	FeatureMeans []float64   `json:"feature_means"`
}

// SoftmaxClassifier scores each class linearly and applies softmax.
// Missing features are imputed with the training mean.
type SoftmaxClassifier struct {
	classes []string
	params  SoftmaxParams
}

func NewSoftmaxClassifier(classes []string, params SoftmaxParams, width int) (*SoftmaxClassifier, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("softmax: no classes: %w", ErrInvalidArtifact)
	}
	if len(params.Coefficients) != len(classes) || len(params.Intercepts) != len(classes) {
		return nil, fmt.Errorf("softmax: %d coefficient rows and %d intercepts for %d classes: %w",
			len(params.Coefficients), len(params.Intercepts), len(classes), ErrInvalidArtifact)
	}
	for k, coef := range params.Coefficients {
		if len(coef) != width {
			return nil, fmt.Errorf("softmax: class %s has %d coefficients, want %d: %w",
				classes[k], len(coef), width, ErrInvalidArtifact)
		}
	}
	if len(params.FeatureMeans) != width {
		return nil, fmt.Errorf("softmax: %d feature means, want %d: %w", len(params.FeatureMeans), width, ErrInvalidArtifact)
	}

	return &SoftmaxClassifier{
		classes: append([]string(nil), classes...),
		params:  params,
	}, nil
}

func (c *SoftmaxClassifier) Classes() []string {
	return append([]string(nil), c.classes...)
}

func (c *SoftmaxClassifier) PredictProba(row []float64) ([]float64, error) {
	width := len(c.params.FeatureMeans)
	if len(row) != width {
		return nil, fmt.Errorf("softmax: got %d features, want %d", len(row), width)
	}

	scores := make([]float64, len(c.classes))
	for k, coef := range c.params.Coefficients {
		score := c.params.Intercepts[k]
		for j, w := range coef {
			x := row[j]
			if math.IsNaN(x) {
				x = c.params.FeatureMeans[j]
			}
			score += w * x
		}
		scores[k] = score
	}

	return softmax(scores), nil
}
