// Package redisstore keeps the short-lived shared state of the checkout service
// in Redis: the cached fabric token, per-order processing locks and the
// payment update channel.
package redisstore

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/telebirr-checkout/internal/config"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "telebirr:"

// Connect opens a client and pings it once.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "addr", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("connected to redis", "addr", cfg.Addr, "db", cfg.DB)
	return rdb, nil
}
