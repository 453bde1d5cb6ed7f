package main

import (
	"fmt"

	"github.com/example/conference-manager/internal/config"
	"github.com/example/conference-manager/internal/persistence"
	"github.com/example/conference-manager/internal/persistence/memory"
	"github.com/example/conference-manager/internal/persistence/redis"
	"github.com/example/conference-manager/internal/persistence/sqlite"
)

// newSnapshotRepository selects the storage backend named by the
// configuration.
func newSnapshotRepository(cfg config.Config) (persistence.SnapshotRepository, error) {
	switch persistence.Backend(cfg.StorageBackend) {
	case persistence.BackendMemory:
		return memory.NewRepository(), nil
	case persistence.BackendSQLite:
		return sqlite.NewRepository(sqlite.DefaultConfig(cfg.SQLitePath))
	case persistence.BackendRedis:
		return redis.NewRepository(redis.Config{
			URI:       cfg.Redis.URI,
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Username:  cfg.Redis.Username,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Redis.TTL,
		})
	default:
		return nil, fmt.Errorf("%w: %q", persistence.ErrUnknownBackend, cfg.StorageBackend)
	}
}
