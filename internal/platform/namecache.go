package platform

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NameCache decorates a Client with a Redis-backed cache in front of
// FetchDisplayName. Display names are presentation data, so cache misses
// and Redis outages degrade to the underlying lookup rather than failing.
type NameCache struct {
	Client

	redis  *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewNameCache wraps client; a nil redis client disables caching entirely.
func NewNameCache(client Client, redis *redislib.Client, ttl time.Duration, logger *zap.Logger) *NameCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NameCache{
		Client: client,
		redis:  redis,
		prefix: "displayname:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *NameCache) FetchDisplayName(ctx context.Context, userID string) (string, error) {
	if c.redis == nil {
		return c.Client.FetchDisplayName(ctx, userID)
	}

	key := c.key(userID)
	if cached, err := c.redis.Get(ctx, key).Result(); err == nil && cached != "" {
		return cached, nil
	} else if err != nil && err != redislib.Nil {
		c.logger.Warn("display name cache read failed", zap.Error(err))
	}

	name, err := c.Client.FetchDisplayName(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, name, c.ttl).Err(); err != nil {
		c.logger.Warn("display name cache write failed", zap.Error(err))
	}
	return name, nil
}

func (c *NameCache) key(userID string) string {
	return fmt.Sprintf("%s%s", c.prefix, userID)
}
