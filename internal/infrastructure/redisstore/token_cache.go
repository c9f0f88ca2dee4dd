package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const fabricTokenKey = keyPrefix + "fabric_token"

type TokenCache struct {
	rdb *redis.Client
}

func NewTokenCache(rdb *redis.Client) *TokenCache {
	return &TokenCache{rdb: rdb}
}

func (c *TokenCache) Get(ctx context.Context) (string, bool, error) {
	token, err := c.rdb.Get(ctx, fabricTokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read cached fabric token: %w", err)
	}
	return token, true, nil
}

// Set stores the token for ttl. A non-positive ttl is ignored so an already
// expired token is never cached.
func (c *TokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.rdb.Set(ctx, fabricTokenKey, token, ttl).Err(); err != nil {
		return fmt.Errorf("cache fabric token: %w", err)
	}
	return nil
}
