package di

import (
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"stockcharts/internal/platform/config"
	infraredis "stockcharts/internal/platform/redis"
)

// NewLogger sets the default slog logger at the configured level.
func NewLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, nil
}

// OpenRedis connects to Redis when it is configured.
// It returns nil when Redis is not configured or not reachable; callers then run with in-process locks.
func OpenRedis(cfg *config.Config) *redis.Client {
	if !cfg.RedisEnabled() {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(cfg.RedisAddr(), cfg.Redis.Password)
	if err != nil {
		slog.Warn("Redis unavailable. Running with in-process locks.", "error", err)
		return nil
	}
	return rdb
}
