// Package config loads service configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Backend selects the persistence gateway implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendDynamoDB Backend = "dynamodb"
)

// Config holds all service settings.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageBackend Backend `env:"STORAGE_BACKEND" envDefault:"memory"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DynamoDBTableName string `env:"DYNAMODB_TABLE_NAME" envDefault:"swapdeck-records"`

	// RankingCacheTTL bounds how long boost/seller-level lookups are memoized.
	RankingCacheTTL string `env:"RANKING_CACHE_TTL" envDefault:"1m"`
}

// Load reads configuration from a .env file (when present) and the process
// environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	switch cfg.StorageBackend {
	case BackendMemory, BackendRedis, BackendDynamoDB:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}
