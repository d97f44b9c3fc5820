// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"stockcharts/internal/platform/config"
	"stockcharts/internal/platform/externalapi/stockfeed"
	infrahttp "stockcharts/internal/platform/http"
	"stockcharts/internal/shared/ratelimiter"
)

// NewFeedClient creates a stock feed client with its HTTP client and rate limiter.
func NewFeedClient(cfg *config.Config) *stockfeed.Client {
	httpClient := infrahttp.NewHTTPClient(cfg.Feed.Timeout)
	limiter := ratelimiter.NewRateLimiter(cfg.Feed.RateLimitPerMinute, time.Minute)
	return stockfeed.NewClient(stockfeed.Config{
		URL:     cfg.Feed.URL,
		Timeout: cfg.Feed.Timeout,
	}, httpClient, limiter)
}
