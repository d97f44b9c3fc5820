package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stockcharts/internal/app/di"
	"stockcharts/internal/platform/config"
	infradb "stockcharts/internal/platform/db"
)

const defaultTimeout = 5 * time.Minute

type options struct {
	configPath string
	chartsDir  string
	timeout    time.Duration
}

// newRootCmd creates the render command.
func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch the price feed and write every chart once",
		Long: `render fetches the stock feed, keeps the trailing window per symbol and
writes one PNG line chart per symbol, exactly like GET / on the server.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", envOr("CONFIG_PATH", "config.yaml"), "Configuration file path")
	cmd.Flags().StringVar(&opts.chartsDir, "charts-dir", "", "Output directory (overrides charts.dir)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "Deadline for the whole run")

	return cmd
}

func run(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.chartsDir != "" {
		cfg.Charts.Dir = opts.chartsDir
	}
	if _, err := di.NewLogger(cfg); err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	db, err := infradb.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := infradb.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	rdb := di.OpenRedis(cfg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	uc := di.NewChartsUsecase(cfg, db, rdb)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	res, err := uc.Generate(ctx, "cli")
	if err != nil {
		slog.Error("render failed", "error", err)
		return err
	}
	slog.Info("render ok", "charts", len(res.Artifacts), "elapsed", res.Elapsed, "dir", cfg.Charts.Dir)
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
