// Package db はgormによるデータベース接続とマイグレーションを提供します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	chartadapters "stockcharts/internal/feature/charts/adapters"
)

const (
	// DefaultConnectTimeout はDB接続リトライを打ち切るまでの時間です。
	DefaultConnectTimeout = 60 * time.Second
	// DefaultRetryInterval は接続リトライの間隔です。
	DefaultRetryInterval = 3 * time.Second
)

// Opener はDSNからgorm接続を開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// Dialector はドライバー名に対応するgormのOpenerを返します。
// 対応ドライバー: "sqlite", "postgres"
func Dialector(driver string) (Opener, error) {
	var open func(string) gorm.Dialector
	switch driver {
	case "sqlite":
		open = sqlite.Open
	case "postgres":
		open = postgres.Open
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return func(dsn string) (*gorm.DB, error) {
		return gorm.Open(open(dsn), &gorm.Config{})
	}, nil
}

// ConnectWithRetry は接続に成功するか timeout を過ぎるまで interval ごとに再試行します。
// コンテナ起動直後などDBがまだ受け付けていない場合に使います。
func ConnectWithRetry(dsn string, timeout, interval time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// Migrate は実行履歴テーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&chartadapters.RunModel{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDB は設定されたドライバーで接続し、マイグレーションまで行います。
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	open, err := Dialector(driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(dsn, DefaultConnectTimeout, DefaultRetryInterval, open)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	slog.Info("database ready", "driver", driver)
	return db, nil
}

// Close は gorm が保持する接続プールを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
