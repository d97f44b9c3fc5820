// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stockcharts/internal/feature/charts/domain/entity"
	"stockcharts/internal/feature/charts/usecase"
)

// CachingFeedRepository decorates a FeedRepository with Redis caching.
// Instances sharing one Redis see the same feed snapshot until it expires,
// so a burst of requests costs one upstream call.
type CachingFeedRepository struct {
	inner     usecase.FeedRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	key       string
}

var _ usecase.FeedRepository = (*CachingFeedRepository)(nil)

// NewCachingFeedRepository decorates a FeedRepository with Redis caching.
// source identifies the upstream feed (its URL) and becomes part of the key.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "feed".
func NewCachingFeedRepository(rdb *redis.Client, ttl time.Duration, inner usecase.FeedRepository, namespace, source string) *CachingFeedRepository {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "feed"
	}
	return &CachingFeedRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		key:       namespace + ":" + safe(source),
	}
}

// Fetch returns the cached feed when present, otherwise fetches and stores it.
// Upstream errors are never cached.
func (c *CachingFeedRepository) Fetch(ctx context.Context) (entity.Feed, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Fetch(ctx)
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, c.key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Feed
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, c.key).Err()
	}

	// 2) Fallback to upstream
	out, err := c.inner.Fetch(ctx)
	if err != nil {
		return entity.Feed{}, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, c.key, b, c.ttl).Err()
	}

	return out, nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
