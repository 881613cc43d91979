// Package redis holds the session slot and the analytics cache.
package redis

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPoolSize = 5
)

// Config describes the Redis instance. An admin panel has one concurrent
// user, so the pool stays small.
type Config struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

// Connect returns a client once a PING succeeds.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cmp.Or(cfg.Timeout, defaultTimeout)

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cmp.Or(cfg.PoolSize, defaultPoolSize),
		DialTimeout: timeout,
		ClientName:  "blog-admin",
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
