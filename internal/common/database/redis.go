// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"compare-workers/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the attribute cache and comparison sessions. Cache and
// session calls are short, so read and write deadlines stay tight.
type RedisClient struct {
	Client *redis.Client
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	opts := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdle,
	}
	return &RedisClient{Client: redis.NewClient(opts)}
}

func (c *RedisClient) Name() string { return "redis" }

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	return c.Client.Close()
}
