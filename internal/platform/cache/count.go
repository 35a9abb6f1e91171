// Package cache provides a small read-through cache for the public count
// endpoints. Counts sit outside every guard invariant, so a few seconds of
// staleness is acceptable; writers invalidate on insert to keep the common
// case fresh.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"bolao/internal/platform/redis"
)

// Count collapses concurrent callers onto one upstream query and, when Redis
// is configured, keeps the result for a short TTL.
type Count struct {
	name   string
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	fetch  func(ctx context.Context) (int64, error)
	group  singleflight.Group
}

// NewCount builds a cache around fetch. rdb may be nil; the singleflight
// collapse still applies.
func NewCount(name string, rdb *redis.Client, ttl time.Duration, logger *slog.Logger, fetch func(ctx context.Context) (int64, error)) *Count {
	return &Count{
		name:   name,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
		fetch:  fetch,
	}
}

func (c *Count) key() string {
	return "bolao:count:" + c.name
}

// Get returns the cached count, falling through to the fetch function on a
// miss. Redis failures degrade to a direct fetch rather than failing the
// request.
func (c *Count) Get(ctx context.Context) (int64, error) {
	v, err, _ := c.group.Do(c.name, func() (any, error) {
		if c.rdb != nil {
			cached, err := c.rdb.Get(ctx, c.key()).Result()
			if err == nil {
				if n, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
					return n, nil
				}
			} else if err != goredis.Nil && c.logger != nil {
				c.logger.WarnContext(ctx, "count cache read failed", "name", c.name, "error", err)
			}
		}

		n, err := c.fetch(ctx)
		if err != nil {
			return int64(0), err
		}

		if c.rdb != nil {
			if err := c.rdb.Set(ctx, c.key(), strconv.FormatInt(n, 10), c.ttl).Err(); err != nil && c.logger != nil {
				c.logger.WarnContext(ctx, "count cache write failed", "name", c.name, "error", err)
			}
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Invalidate drops the cached value after a successful insert so the count
// endpoints observe the new record immediately.
func (c *Count) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key()).Err(); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "count cache invalidate failed", "name", c.name, "error", err)
	}
}
