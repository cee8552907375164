package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/threeofkind/storefront/cmd/config"
)

var client *redis.Client

// New initializes the Redis client and verifies connectivity. Timeouts are short because Redis
// only backs a cache and session lookups; callers fall back to MySQL on cache errors.
func New(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config provided")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	c := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("unable to ping redis at %s: %w", addr, err)
	}

	client = c
	return nil
}

func Get() *redis.Client {
	return client
}

// Set replaces the shared client, used by tests to point at an in-memory server.
func Set(c *redis.Client) {
	client = c
}

func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
