package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"leadscout/internal/config"
)

// Open builds the Store selected by cfg.Driver. rdb is only used by the redis driver.
func Open(ctx context.Context, cfg config.StorageConfig, rdb *redis.Client) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "redis":
		if rdb == nil {
			return nil, fmt.Errorf("storage: redis driver needs a redis client")
		}
		return NewRedisStore(rdb), nil
	case "postgres":
		s, err := OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// NewDeduper returns a redis-backed Deduper when rdb is set, else an in-memory one.
func NewDeduper(rdb *redis.Client, ttl time.Duration) Deduper {
	if rdb != nil {
		return NewRedisDeduper(rdb, ttl)
	}
	return NewMemoryDeduper(ttl)
}
