package di

import (
	"github.com/redis/go-redis/v9"

	"stockcharts/internal/feature/charts/usecase"
	"stockcharts/internal/platform/lock"
)

// NewLocker creates the per-symbol lock used while writing charts.
// If Redis is available, it returns a Redis-backed lock shared across instances.
// Otherwise, it falls back to an in-process lock.
func NewLocker(rdb *redis.Client) usecase.Locker {
	if rdb != nil {
		return lock.NewRedis(rdb, "chartlock", lock.DefaultTTL)
	}
	return lock.NewLocal()
}
