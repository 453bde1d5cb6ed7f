// Package redis stores engine snapshots in Redis as a single JSON value.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/conference-manager/internal/persistence"
)

// Config holds Redis connection settings.
type Config struct {
	// URI takes precedence over the individual parameters when set.
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string

	// TTL bounds how long a snapshot survives without a refresh. Zero
	// keeps snapshots forever.
	TTL time.Duration
}

// Repository implements persistence.SnapshotRepository on Redis.
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository connects to Redis and verifies the connection.
func NewRepository(cfg Config) (*Repository, error) {
	var client *redis.Client

	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("redis: parsing URI: %w", err)
		}
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connecting: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// Close closes the Redis connection.
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) snapshotKey() string {
	return r.keyPrefix + "snapshot"
}

// SaveSnapshot replaces the stored snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, snap persistence.Snapshot) error {
	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("redis: marshaling snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.snapshotKey(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: saving snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored snapshot, or persistence.ErrNoSnapshot
// when the key is absent.
func (r *Repository) LoadSnapshot(ctx context.Context) (persistence.Snapshot, error) {
	data, err := r.client.Get(ctx, r.snapshotKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return persistence.Snapshot{}, persistence.ErrNoSnapshot
		}
		return persistence.Snapshot{}, fmt.Errorf("redis: loading snapshot: %w", err)
	}

	var snap persistence.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("redis: unmarshaling snapshot: %w", err)
	}
	return snap, nil
}
