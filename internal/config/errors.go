package config

import "errors"

var (
	ErrRedisAddrMissing       = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB         = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidCacheTTL        = errors.New("PREDICTION_CACHE_TTL must be a positive duration")
	ErrInvalidWakeThreshold   = errors.New("WAKE_THRESHOLD must be a number")
	ErrWakeOverrideIncomplete = errors.New("WAKE_LABEL and WAKE_THRESHOLD must be set together")
	ErrModelDirMissing        = errors.New("MODEL_DIR is required")
)
