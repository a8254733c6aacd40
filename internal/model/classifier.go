// Package model loads the frozen sleep-stage classifier and exposes its prediction contract.
package model

import (
	"errors"
	"math"
)

//go:generate mockgen -source=classifier.go -destination=classifier_mock.go -package=model

var ErrInvalidArtifact = errors.New("invalid model artifact")

// Classifier predicts class probabilities for one feature row laid out in Support.Xcol order.
// Missing features are NaN. Implementations must be safe for concurrent use.
type Classifier interface {
	PredictProba(row []float64) ([]float64, error)
	Classes() []string
}

// Support describes the feature columns the classifier was trained on.
type Support struct {
	Xcol    []string `json:"xcol"`
	Version string   `json:"version"`
}

// Artifact is a loaded classifier with its support data. It is read-only after Load.
type Artifact struct {
	Classifier Classifier
	Support    Support
}

func (a *Artifact) Classes() []string {
	return a.Classifier.Classes()
}

func (a *Artifact) Xcol() []string {
	cols := make([]string, len(a.Support.Xcol))
	copy(cols, a.Support.Xcol)
	return cols
}

func (a *Artifact) Version() string {
	return a.Support.Version
}

// softmax writes the normalized exponentials of scores into a new slice.
func softmax(scores []float64) []float64 {
	peak := math.Inf(-1)
	for _, s := range scores {
		peak = math.Max(peak, s)
	}

	out := make([]float64, len(scores))
	var total float64
	for i, s := range scores {
		out[i] = math.Exp(s - peak)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// normalize rescales non-negative weights to sum to one, falling back to uniform.
func normalize(weights []float64) []float64 {
	var total float64
	for _, w := range weights {
		total += w
	}

	out := make([]float64, len(weights))
	for i, w := range weights {
		if total > 0 {
			out[i] = w / total
		} else {
			out[i] = 1 / float64(len(weights))
		}
	}
	return out
}
