// Package config loads the service configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"stockcharts/internal/platform/externalapi/stockfeed"
)

// Config holds all application configuration.
type Config struct {
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Feed struct {
		URL                string        `yaml:"url"`
		Timeout            time.Duration `yaml:"timeout"`
		RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
		CacheTTL           time.Duration `yaml:"cache_ttl"` // 0 disables the Redis feed cache
	} `yaml:"feed"`
	Charts struct {
		Dir        string `yaml:"dir"`
		WindowDays int    `yaml:"window_days"`
	} `yaml:"charts"`
	Database struct {
		Driver string `yaml:"driver"` // sqlite | postgres
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = ":8080"
	cfg.Feed.URL = stockfeed.DefaultURL
	cfg.Feed.Timeout = 30 * time.Second
	cfg.Feed.RateLimitPerMinute = 30
	cfg.Charts.Dir = "charts"
	cfg.Charts.WindowDays = 90
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "charts.db"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setString("HTTP_ADDR", &c.HTTP.Addr)
	setString("FEED_URL", &c.Feed.URL)
	setString("CHARTS_DIR", &c.Charts.Dir)
	setString("DB_DRIVER", &c.Database.Driver)
	setString("DB_DSN", &c.Database.DSN)
	setString("REDIS_HOST", &c.Redis.Host)
	setString("REDIS_PORT", &c.Redis.Port)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("RENDER_CRON", &c.Schedule.Cron)
	setString("LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("FEED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FEED_TIMEOUT: %w", err)
		}
		c.Feed.Timeout = d
	}
	if v := os.Getenv("FEED_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FEED_CACHE_TTL: %w", err)
		}
		c.Feed.CacheTTL = d
	}
	if v := os.Getenv("FEED_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FEED_RATE_LIMIT: %w", err)
		}
		c.Feed.RateLimitPerMinute = n
	}
	if v := os.Getenv("CHARTS_WINDOW_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHARTS_WINDOW_DAYS: %w", err)
		}
		c.Charts.WindowDays = n
	}
	return nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Feed.URL) == "" {
		errs = append(errs, errors.New("feed.url must not be empty"))
	}
	if c.Feed.Timeout < 0 {
		errs = append(errs, errors.New("feed.timeout must not be negative"))
	}
	if c.Feed.CacheTTL < 0 {
		errs = append(errs, errors.New("feed.cache_ttl must not be negative"))
	}
	if c.Charts.WindowDays <= 0 {
		errs = append(errs, fmt.Errorf("charts.window_days must be positive, got %d", c.Charts.WindowDays))
	}
	if c.Charts.Dir == "" {
		errs = append(errs, errors.New("charts.dir must not be empty"))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Window returns the trailing chart window.
func (c *Config) Window() time.Duration {
	return time.Duration(c.Charts.WindowDays) * 24 * time.Hour
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// RedisAddr returns host:port, defaulting the port to 6379.
func (c *Config) RedisAddr() string {
	port := c.Redis.Port
	if port == "" {
		port = "6379"
	}
	return c.Redis.Host + ":" + port
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
