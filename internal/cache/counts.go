// Package cache keeps derived response counts in Redis so dashboard listings
// do not re-count documents on every page load. The database count stays
// authoritative; entries expire and are recomputed on the next miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type CountCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// New connects to Redis at addr. An empty addr disables the cache entirely:
// every method on a nil-client cache is a miss or a no-op.
func New(addr string, ttl time.Duration, log *zap.Logger) *CountCache {
	c := &CountCache{ttl: ttl, log: log}
	if addr == "" {
		return c
	}
	c.client = redis.NewClient(&redis.Options{Addr: addr})
	return c
}

func key(surveyID string) string {
	return fmt.Sprintf("survey:%s:responses", surveyID)
}

// ResponseCount returns the cached count for a survey, with ok=false on a
// miss or when the cache is disabled.
func (c *CountCache) ResponseCount(ctx context.Context, surveyID string) (int64, bool) {
	if c.client == nil {
		return 0, false
	}
	n, err := c.client.Get(ctx, key(surveyID)).Int64()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Response count cache read failed", zap.Error(err), zap.String("surveyID", surveyID))
		}
		return 0, false
	}
	return n, true
}

// SetResponseCount stores a freshly derived count.
func (c *CountCache) SetResponseCount(ctx context.Context, surveyID string, count int64) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key(surveyID), count, c.ttl).Err(); err != nil {
		c.log.Warn("Response count cache write failed", zap.Error(err), zap.String("surveyID", surveyID))
	}
}

// Invalidate drops a survey's cached count, used after a new submission or
// a survey deletion.
func (c *CountCache) Invalidate(ctx context.Context, surveyID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(surveyID)).Err(); err != nil {
		c.log.Warn("Response count cache invalidation failed", zap.Error(err), zap.String("surveyID", surveyID))
	}
}

// Close releases the Redis connection.
func (c *CountCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
