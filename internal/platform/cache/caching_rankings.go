// Package cache provides caching decorators for the ranking pipeline.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_board/internal/feature/rankings/domain/entity"
)

// RankingsSource is the slice of the ranking pipeline this decorator
// consumes.
type RankingsSource interface {
	TopVolume(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error)
	HighVolumeMovers(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error)
}

// CachingRankings decorates a RankingsSource with short-TTL Redis
// memoization keyed by (view, period, limit, threshold). It is a
// read-through cache external to the pipeline's contract: failures are
// never cached, "no data" results are cached like any success, and a
// nil Redis client turns the decorator into a pass-through.
type CachingRankings struct {
	inner     RankingsSource
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachingRankings decorates a RankingsSource with Redis memoization.
// If ttl is 0, it defaults to one minute. If namespace is empty, it
// uses "rankings".
func NewCachingRankings(rdb *redis.Client, ttl time.Duration, inner RankingsSource, namespace string) *CachingRankings {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "rankings"
	}
	return &CachingRankings{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// TopVolume memoizes the top-volume view per (period, limit).
func (c *CachingRankings) TopVolume(ctx context.Context, period entity.Period, limit int) (*entity.RankedResult, error) {
	key := fmt.Sprintf("%s:top:%s:%d", c.namespace, period, limit)
	return c.through(ctx, key, func() (*entity.RankedResult, error) {
		return c.inner.TopVolume(ctx, period, limit)
	})
}

// HighVolumeMovers memoizes the movers view per (minVolume, limit).
func (c *CachingRankings) HighVolumeMovers(ctx context.Context, minVolume float64, limit int) (*entity.RankedResult, error) {
	key := fmt.Sprintf("%s:movers:%s:%d", c.namespace,
		strconv.FormatFloat(minVolume, 'f', -1, 64), limit)
	return c.through(ctx, key, func() (*entity.RankedResult, error) {
		return c.inner.HighVolumeMovers(ctx, minVolume, limit)
	})
}

// through runs the read-through protocol for one key: cache hit, then
// pipeline, then best-effort store.
func (c *CachingRankings) through(ctx context.Context, key string, load func() (*entity.RankedResult, error)) (*entity.RankedResult, error) {
	if c.rdb == nil {
		return load()
	}

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.RankedResult
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := load()
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}
