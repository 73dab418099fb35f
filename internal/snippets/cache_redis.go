package snippets

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matheuslc/snipnest_api/internal/telemetry"
)

const cacheOpTimeout = 2 * time.Second

// RedisCache implements Cache over a Redis client. Every failure is logged,
// counted, and swallowed; a nil or unreachable client degrades the adapter
// to a permanent miss/no-op without affecting callers.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	p := strings.TrimSpace(prefix)
	if p == "" {
		p = "snipnest:cache:"
	}
	return &RedisCache{client: client, prefix: p}
}

func (c *RedisCache) keyByID(id int64) string {
	return c.prefix + "snippet:" + strconv.FormatInt(id, 10)
}

func (c *RedisCache) GetByID(ctx context.Context, id int64) (*Snippet, bool) {
	if c.client == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	key := c.keyByID(id)
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			telemetry.CountCacheOp(ctx, "get", telemetry.CacheMiss)
			return nil, false
		}
		c.degraded(ctx, "get", key, err)
		return nil, false
	}

	var s Snippet
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		c.degraded(ctx, "get", key, err)
		return nil, false
	}
	telemetry.CountCacheOp(ctx, "get", telemetry.CacheHit)
	return &s, true
}

func (c *RedisCache) SetByID(ctx context.Context, s *Snippet, ttl time.Duration) {
	if c.client == nil {
		return
	}
	key := c.keyByID(s.ID)
	payload, err := json.Marshal(s)
	if err != nil {
		c.degraded(ctx, "set", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.degraded(ctx, "set", key, err)
		return
	}
	telemetry.CountCacheOp(ctx, "set", telemetry.CacheOK)
}

func (c *RedisCache) DeleteByID(ctx context.Context, id int64) {
	if c.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	key := c.keyByID(id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.degraded(ctx, "delete", key, err)
		return
	}
	telemetry.CountCacheOp(ctx, "delete", telemetry.CacheOK)
}

func (c *RedisCache) degraded(ctx context.Context, op, key string, err error) {
	telemetry.CountCacheOp(ctx, op, telemetry.CacheError)
	telemetry.LogWarn(ctx, "snippet cache degraded",
		telemetry.LogString("cache.op", op),
		telemetry.LogString("cache.key", key),
		telemetry.LogString("error", err.Error()),
	)
}
