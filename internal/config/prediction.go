package config

import (
	"os"
	"strconv"

	"github.com/KasumiMercury/sleepwellbaby/internal/service/decision"
)

const (
	featureParallelEnv = "FEATURE_PARALLEL"
	wakeLabelEnv       = "WAKE_LABEL"
	wakeThresholdEnv   = "WAKE_THRESHOLD"
)

type PredictionConfig struct {
	FeatureParallel bool
	WakeLabel       string
	WakeThreshold   *float64
}

func LoadPredictionConfig() (*PredictionConfig, error) {
	cfg := &PredictionConfig{
		FeatureParallel: os.Getenv(featureParallelEnv) == "true",
		WakeLabel:       os.Getenv(wakeLabelEnv),
	}

	if raw := os.Getenv(wakeThresholdEnv); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, ErrInvalidWakeThreshold
		}
		cfg.WakeThreshold = &parsed
	}

	return cfg, nil
}

// Rule returns the server-wide decision rule.
func (c *PredictionConfig) Rule() decision.Rule {
	return decision.Rule{
		WakeLabel:     c.WakeLabel,
		WakeThreshold: c.WakeThreshold,
	}
}

func (c *PredictionConfig) Validate() error {
	if (c.WakeLabel == "") != (c.WakeThreshold == nil) {
		return ErrWakeOverrideIncomplete
	}
	return nil
}
