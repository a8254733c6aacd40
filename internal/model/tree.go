package model

import (
	"fmt"
	"math"
)

// Node is one split or leaf of a regression tree. Leaves ignore Feature.
type Node struct {
	Leaf        bool    `json:"leaf,omitempty"`
	Value       float64 `json:"value,omitempty"`
	Feature     int     `json:"feature,omitempty"`
	Threshold   float64 `json:"threshold,omitempty"`
	Left        int     `json:"left,omitempty"`
	Right       int     `json:"right,omitempty"`
	MissingLeft bool    `json:"missing_left,omitempty"`
}

// Tree contributes its leaf value to the score of Class. Node 0 is the root.
type Tree struct {
	Class int    `json:"class"`
	Nodes []Node `json:"nodes"`
}

// Sigmoid maps a raw class probability p to 1 / (1 + exp(A*p + B)).
type Sigmoid struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

type TreeEnsembleParams struct {
	BaseScores  []float64 `json:"base_scores"`
	Trees       []Tree    `json:"trees"`
	Calibration []Sigmoid `json:"calibration,omitempty"`
}

// TreeEnsembleClassifier sums boosted tree outputs per class, applies softmax,
// and optionally calibrates each class before renormalizing.
type TreeEnsembleClassifier struct {
	classes []string
	params  TreeEnsembleParams
	width   int
}

func NewTreeEnsembleClassifier(classes []string, params TreeEnsembleParams, width int) (*TreeEnsembleClassifier, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("tree_ensemble: no classes: %w", ErrInvalidArtifact)
	}
	if len(params.BaseScores) != len(classes) {
		return nil, fmt.Errorf("tree_ensemble: %d base scores for %d classes: %w", len(params.BaseScores), len(classes), ErrInvalidArtifact)
	}
	if len(params.Calibration) != 0 && len(params.Calibration) != len(classes) {
		return nil, fmt.Errorf("tree_ensemble: %d calibrators for %d classes: %w", len(params.Calibration), len(classes), ErrInvalidArtifact)
	}

	for t, tree := range params.Trees {
		if tree.Class < 0 || tree.Class >= len(classes) {
			return nil, fmt.Errorf("tree_ensemble: tree %d targets class %d: %w", t, tree.Class, ErrInvalidArtifact)
		}
		if len(tree.Nodes) == 0 {
			return nil, fmt.Errorf("tree_ensemble: tree %d is empty: %w", t, ErrInvalidArtifact)
		}
		for n, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= width {
				return nil, fmt.Errorf("tree_ensemble: tree %d node %d splits on feature %d of %d: %w", t, n, node.Feature, width, ErrInvalidArtifact)
			}
			// children must point forward so evaluation always terminates
			if node.Left <= n || node.Left >= len(tree.Nodes) || node.Right <= n || node.Right >= len(tree.Nodes) {
				return nil, fmt.Errorf("tree_ensemble: tree %d node %d has invalid children: %w", t, n, ErrInvalidArtifact)
			}
		}
	}

	return &TreeEnsembleClassifier{
		classes: append([]string(nil), classes...),
		params:  params,
		width:   width,
	}, nil
}

func (c *TreeEnsembleClassifier) Classes() []string {
	return append([]string(nil), c.classes...)
}

func (c *TreeEnsembleClassifier) PredictProba(row []float64) ([]float64, error) {
	if len(row) != c.width {
		return nil, fmt.Errorf("tree_ensemble: got %d features, want %d", len(row), c.width)
	}

	scores := append([]float64(nil), c.params.BaseScores...)
	for _, tree := range c.params.Trees {
		scores[tree.Class] += tree.evaluate(row)
	}

	proba := softmax(scores)
	if len(c.params.Calibration) == 0 {
		return proba, nil
	}

	calibrated := make([]float64, len(proba))
	for k, p := range proba {
		s := c.params.Calibration[k]
		calibrated[k] = 1 / (1 + math.Exp(s.A*p+s.B))
	}
	return normalize(calibrated), nil
}

func (t Tree) evaluate(row []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Leaf {
			return node.Value
		}

		x := row[node.Feature]
		switch {
		case math.IsNaN(x):
			if node.MissingLeft {
				i = node.Left
			} else {
				i = node.Right
			}
		case x < node.Threshold:
			i = node.Left
		default:
			i = node.Right
		}
	}
}
