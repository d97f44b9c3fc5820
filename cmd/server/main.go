package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockcharts/internal/app/di"
	"stockcharts/internal/app/router"
	chartshandler "stockcharts/internal/feature/charts/transport/handler"
	"stockcharts/internal/platform/config"
	infradb "stockcharts/internal/platform/db"
	"stockcharts/internal/platform/scheduler"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	// run の defer（DB / Redis / スケジューラーの後始末）が終わってから終了コードを返す
	if err != nil {
		log.Fatal(err)
	}
}

// run はサーバーを起動し、ctx がキャンセルされるか起動に失敗するまでブロックします。
func run(ctx context.Context) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := di.NewLogger(cfg); err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// db
	db, err := infradb.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	defer func() {
		if err := infradb.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Redis（任意）
	rdb := di.OpenRedis(cfg)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Usecase / Handler
	chartsUC := di.NewChartsUsecase(cfg, db, rdb)
	chartsH := chartshandler.NewChartsHandler(chartsUC)

	// 定期実行
	if cfg.Schedule.Cron != "" {
		sched := scheduler.NewScheduler(ctx, chartsUC)
		if err := sched.Register(cfg.Schedule.Cron); err != nil {
			return fmt.Errorf("invalid schedule: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// ルータ生成
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.NewRouter(chartsH, cfg.Charts.Dir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.HTTP.Addr, "charts_dir", cfg.Charts.Dir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
