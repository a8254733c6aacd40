package config

import (
	"crypto/tls"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisAddrEnv        = "REDIS_ADDR"
	redisPasswordEnv    = "REDIS_PASSWORD"
	redisDBEnv          = "REDIS_DB"
	redisTLSEnv         = "REDIS_TLS"
	redisDialTimeoutEnv = "REDIS_DIAL_TIMEOUT"

	defaultRedisAddr        = "localhost:6379"
	defaultRedisDB          = 0
	defaultRedisDialTimeout = 5 * time.Second
)

// RedisConfig describes the prediction cache backend.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	DialTimeout time.Duration
}

func LoadRedisConfig() (*RedisConfig, error) {
	db := defaultRedisDB
	if raw := os.Getenv(redisDBEnv); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return nil, ErrInvalidRedisDB
		}
		db = parsed
	}

	dialTimeout := defaultRedisDialTimeout
	if raw := os.Getenv(redisDialTimeoutEnv); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			dialTimeout = parsed
		}
	}

	return &RedisConfig{
		Addr:        getEnvOrDefault(redisAddrEnv, defaultRedisAddr),
		Password:    os.Getenv(redisPasswordEnv),
		DB:          db,
		TLS:         os.Getenv(redisTLSEnv) == "true",
		DialTimeout: dialTimeout,
	}, nil
}

// Options builds the go-redis client options.
func (c *RedisConfig) Options() *redis.Options {
	opts := &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: c.DialTimeout,
	}
	if c.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
