// Package decision turns class probabilities into sleep-stage labels.
package decision

import (
	"fmt"
	"math"
	"slices"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
)

// Rule configures the optional wake override. The zero value is plain arg-max.
type Rule struct {
	WakeLabel     string
	WakeThreshold *float64
}

// NewWakeRule returns a rule that overrides the arg-max with label when its
// probability exceeds threshold.
func NewWakeRule(label string, threshold float64) Rule {
	return Rule{WakeLabel: label, WakeThreshold: &threshold}
}

// HasOverride reports whether either half of the override is set.
func (r Rule) HasOverride() bool {
	return r.WakeLabel != "" || r.WakeThreshold != nil
}

// Validate checks the rule against the classifier's classes.
func (r Rule) Validate(classes []string) error {
	if !r.HasOverride() {
		return nil
	}
	if r.WakeLabel == "" || r.WakeThreshold == nil {
		return fmt.Errorf("wake_label and wake_threshold should be provided in conjunction: %w", domain.ErrInvalidArgument)
	}
	if !slices.Contains(classes, r.WakeLabel) {
		return fmt.Errorf("wake_label %q is expected to be in classes %v: %w", r.WakeLabel, classes, domain.ErrInvalidArgument)
	}
	if math.IsNaN(*r.WakeThreshold) {
		return fmt.Errorf("wake_threshold must be a number: %w", domain.ErrInvalidArgument)
	}
	return nil
}

// Labels maps each probability row to a label. Ties resolve to the class
// listed first; callers must not depend on that order.
func Labels(probabilities [][]float64, classes []string, rule Rule) ([]string, error) {
	if err := rule.Validate(classes); err != nil {
		return nil, err
	}

	wake := -1
	if rule.HasOverride() {
		wake = slices.Index(classes, rule.WakeLabel)
	}

	labels := make([]string, len(probabilities))
	for i, row := range probabilities {
		if len(row) != len(classes) {
			return nil, fmt.Errorf("row %d has %d probabilities for %d classes: %w", i, len(row), len(classes), domain.ErrInvalidArgument)
		}

		best := argmax(row, wake)
		if wake >= 0 && row[wake] > *rule.WakeThreshold {
			best = wake
		}
		if best < 0 {
			// only the wake class exists and it stayed below the threshold
			best = wake
		}
		labels[i] = classes[best]
	}

	return labels, nil
}

// Label maps a single probability row.
func Label(probabilities []float64, classes []string, rule Rule) (string, error) {
	labels, err := Labels([][]float64{probabilities}, classes, rule)
	if err != nil {
		return "", err
	}
	return labels[0], nil
}

// argmax returns the index of the largest value, ignoring index skip.
func argmax(row []float64, skip int) int {
	best := -1
	for i, v := range row {
		if i == skip {
			continue
		}
		if best < 0 || v > row[best] {
			best = i
		}
	}
	return best
}
