package repository

import "errors"

var (
	ErrRedisConnection       = errors.New("redis connection error")
	ErrInvalidPredictionData = errors.New("invalid prediction data")
)
