// Package redisclient builds the shared Redis connection used for storage,
// dedup claims and score memos.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"leadscout/internal/config"
)

// New creates a Redis client from configuration. It does not connect.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Check pings the server within timeout and returns the reply.
func Check(ctx context.Context, rdb *redis.Client, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return "", fmt.Errorf("redis %s: %w", rdb.Options().Addr, err)
	}
	return res, nil
}
