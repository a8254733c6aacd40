package predict

import (
	"github.com/KasumiMercury/sleepwellbaby/internal/service/decision"
)

type predictOptions struct {
	rule decision.Rule
}

type Option func(*predictOptions)

// WithWakeOverride replaces the service-wide decision rule for one call.
func WithWakeOverride(label string, threshold float64) Option {
	return func(o *predictOptions) {
		o.rule = decision.NewWakeRule(label, threshold)
	}
}

// WithRule sets the decision rule for one call. A zero Rule disables the override.
func WithRule(rule decision.Rule) Option {
	return func(o *predictOptions) {
		o.rule = rule
	}
}
