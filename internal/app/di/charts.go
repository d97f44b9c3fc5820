package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stockcharts/internal/feature/charts/adapters"
	"stockcharts/internal/feature/charts/adapters/gochart"
	"stockcharts/internal/feature/charts/usecase"
	"stockcharts/internal/platform/cache"
	"stockcharts/internal/platform/config"
)

// NewChartsUsecase wires the feed client, renderer, run history and lock into the charts usecase.
// db may be nil, in which case runs are not recorded.
func NewChartsUsecase(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *usecase.ChartsUsecase {
	var runs usecase.RunRepository
	if db != nil {
		runs = adapters.NewRunRepository(db)
	}

	renderer := gochart.NewRenderer(gochart.Options{})

	return usecase.NewChartsUsecase(
		NewFeedRepository(cfg, rdb),
		renderer,
		runs,
		NewLocker(rdb),
		usecase.Config{
			OutputDir: cfg.Charts.Dir,
			Window:    cfg.Window(),
		},
	)
}

// NewFeedRepository returns the feed client, wrapped in a Redis cache when
// Redis is available and feed.cache_ttl is set.
func NewFeedRepository(cfg *config.Config, rdb *redis.Client) usecase.FeedRepository {
	client := NewFeedClient(cfg)
	if rdb == nil || cfg.Feed.CacheTTL <= 0 {
		return client
	}
	return cache.NewCachingFeedRepository(rdb, cfg.Feed.CacheTTL, client, "feed", cfg.Feed.URL)
}
