// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/example/conference-manager/internal/persistence"
)

// Config captures environment driven configuration for the conference manager.
type Config struct {
	// StorageBackend selects the snapshot store: memory, sqlite, or redis.
	StorageBackend string `env:"CONFMGR_STORAGE_BACKEND" envDefault:"sqlite"`

	// SQLitePath is the snapshot database file for the sqlite backend.
	SQLitePath string `env:"CONFMGR_SQLITE_PATH" envDefault:"conference.db"`

	Redis RedisConfig `envPrefix:"CONFMGR_REDIS_"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"CONFMGR_LOG_LEVEL" envDefault:"info"`

	// SuggestionCacheTTL bounds how long room suggestions may be served
	// from cache.
	SuggestionCacheTTL time.Duration `env:"CONFMGR_SUGGESTION_CACHE_TTL" envDefault:"30s"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	URI       string        `env:"URI"`
	Host      string        `env:"HOST" envDefault:"localhost"`
	Port      string        `env:"PORT" envDefault:"6379"`
	Username  string        `env:"USERNAME"`
	Password  string        `env:"PASSWORD"`
	DB        int           `env:"DB" envDefault:"0"`
	KeyPrefix string        `env:"KEY_PREFIX" envDefault:"confmgr:"`
	TTL       time.Duration `env:"SNAPSHOT_TTL" envDefault:"0"`
}

// Load parses configuration from the current process environment.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if !persistence.Backend(cfg.StorageBackend).Valid() {
		return Config{}, fmt.Errorf("config: %w: %q", persistence.ErrUnknownBackend, cfg.StorageBackend)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("config: unknown log level %q", cfg.LogLevel)
	}

	if cfg.SuggestionCacheTTL < 0 {
		return Config{}, fmt.Errorf("config: suggestion cache TTL must not be negative")
	}

	return cfg, nil
}
