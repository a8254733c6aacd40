package config

import (
	"log/slog"
	"os"

	"github.com/KasumiMercury/sleepwellbaby/internal/observability/logging"
)

const (
	portEnv     = "PORT"
	logLevelEnv = "LOG_LEVEL"
	modelDirEnv = "MODEL_DIR"

	defaultPort     = "8080"
	defaultModelDir = "models"
)

type Config struct {
	Port       string
	LogLevel   slog.Level
	ModelDir   string
	Redis      *RedisConfig
	Cache      *CacheConfig
	Prediction *PredictionConfig
}

func Load() (*Config, error) {
	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	cacheConfig, err := LoadCacheConfig()
	if err != nil {
		return nil, err
	}

	predictionConfig, err := LoadPredictionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:       getEnvOrDefault(portEnv, defaultPort),
		LogLevel:   logging.ParseLevel(os.Getenv(logLevelEnv)),
		ModelDir:   getEnvOrDefault(modelDirEnv, defaultModelDir),
		Redis:      redisConfig,
		Cache:      cacheConfig,
		Prediction: predictionConfig,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
