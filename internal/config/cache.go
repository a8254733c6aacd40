package config

import (
	"os"
	"time"
)

const (
	predictionCacheEnabledEnv = "PREDICTION_CACHE_ENABLED"
	predictionCacheTTLEnv     = "PREDICTION_CACHE_TTL"
	predictionCachePrefixEnv  = "PREDICTION_CACHE_PREFIX"

	defaultPredictionCacheTTL    = 10 * time.Minute
	defaultPredictionCachePrefix = "swb:prediction:"
)

type CacheConfig struct {
	Enabled   bool
	TTL       time.Duration
	KeyPrefix string
}

func LoadCacheConfig() (*CacheConfig, error) {
	ttl := defaultPredictionCacheTTL
	if raw := os.Getenv(predictionCacheTTLEnv); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidCacheTTL
		}
		ttl = parsed
	}

	return &CacheConfig{
		Enabled:   os.Getenv(predictionCacheEnabledEnv) == "true",
		TTL:       ttl,
		KeyPrefix: getEnvOrDefault(predictionCachePrefixEnv, defaultPredictionCachePrefix),
	}, nil
}
