package predict

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/KasumiMercury/sleepwellbaby/internal/domain"
	"github.com/KasumiMercury/sleepwellbaby/internal/service/decision"
)

type cacheKeyInput struct {
	ModelVersion  string          `json:"model_version"`
	WakeLabel     string          `json:"wake_label,omitempty"`
	WakeThreshold *float64        `json:"wake_threshold,omitempty"`
	Payload       *domain.Payload `json:"payload"`
}

// CacheKey hashes everything the prediction depends on. The payload must have
// its observation date resolved.
func CacheKey(modelVersion string, rule decision.Rule, payload *domain.Payload) (string, error) {
	data, err := json.Marshal(cacheKeyInput{
		ModelVersion:  modelVersion,
		WakeLabel:     rule.WakeLabel,
		WakeThreshold: rule.WakeThreshold,
		Payload:       payload,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
