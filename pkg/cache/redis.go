package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/madrasah-analytics-api/pkg/config"
)

// NewRedis returns the result-cache client, or nil when caching is disabled.
// Operation timeouts are kept short: a slow cache must not delay an analytics
// response that can be recomputed.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client := redis.NewClient(Options(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), client.Options().DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}
	return client, nil
}

// Options maps cfg onto go-redis options with defaults for unset values.
func Options(cfg config.RedisConfig) *redis.Options {
	dial := cfg.DialTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}
	op := cfg.OpTimeout
	if op <= 0 {
		op = 500 * time.Millisecond
	}
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dial,
		ReadTimeout:  op,
		WriteTimeout: op,
		PoolSize:     cfg.PoolSize,
		ClientName:   "madrasah-analytics",
	}
}
