// Package scheduler は cron 式に従ってチャートを定期再生成します。
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"stockcharts/internal/feature/charts/usecase"
)

// Trigger は cron から起動された実行を履歴上で識別するための値です。
const Trigger = "cron"

// Generator はチャート生成ユースケースのうちスケジューラーが使う部分です。
type Generator interface {
	Generate(ctx context.Context, trigger string) (usecase.Result, error)
}

// Scheduler は cron ジョブを管理します。
type Scheduler struct {
	cron *cron.Cron
	gen  Generator
	ctx  context.Context
}

// NewScheduler は秒フィールド付き (6フィールド) の cron 式を受け付ける Scheduler を生成します。
// ctx はジョブ実行時のコンテキストで、キャンセルされると実行中の生成も中断されます。
func NewScheduler(ctx context.Context, gen Generator) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		gen:  gen,
		ctx:  ctx,
	}
}

// Register は cron 式 expr のスケジュールでチャート生成ジョブを登録します。
func (s *Scheduler) Register(expr string) error {
	if _, err := s.cron.AddFunc(expr, s.RunNow); err != nil {
		return fmt.Errorf("register render job %q: %w", expr, err)
	}
	return nil
}

// Start はスケジューラーを開始します。
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop は新しいジョブの起動を止め、実行中のジョブの終了を待ちます。
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// RunNow はチャート生成を1回実行します。失敗はログに残すだけです。
func (s *Scheduler) RunNow() {
	res, err := s.gen.Generate(s.ctx, Trigger)
	if err != nil {
		slog.Error("scheduled render failed", "error", err)
		return
	}
	slog.Info("scheduled render finished", "charts", len(res.Artifacts), "elapsed", res.Elapsed)
}
