package usecase

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"stockcharts/internal/feature/charts/domain/entity"
)

const (
	// DefaultOutputDir はチャート画像の既定の出力先ディレクトリです。
	DefaultOutputDir = "charts"
	// DefaultRunsLimit は実行履歴のデフォルト返却件数です。
	DefaultRunsLimit = 20
	// MaxRunsLimit は実行履歴の最大返却件数です。
	MaxRunsLimit = 100
)

// FeedRepository は外部の株価フィードを取得するリポジトリのインターフェイスです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type FeedRepository interface {
	Fetch(ctx context.Context) (entity.Feed, error)
}

// ChartRenderer は1銘柄分の Series を画像ファイルとして書き出します。
// window は今回の実行の描画期間で、Series が空の場合の横軸に使われます。
type ChartRenderer interface {
	Render(ctx context.Context, symbol string, series entity.Series, window entity.Window, outputDir string) (entity.Artifact, error)
}

// RunRepository は実行履歴の永続化レイヤーを抽象化します。
type RunRepository interface {
	Save(ctx context.Context, run *entity.Run) error
	Recent(ctx context.Context, limit int) ([]entity.Run, error)
}

// Locker は銘柄ごとのチャートファイルへの書き込みを排他制御します。
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Config はチャート生成ユースケースの設定です。
type Config struct {
	OutputDir string           // チャートの出力先
	Window    time.Duration    // 描画対象期間
	Now       func() time.Time // 現在時刻（テスト用に差し替え可能）
}

// Result は1回のチャート生成の結果です。
type Result struct {
	Artifacts []entity.Artifact
	Elapsed   time.Duration
}

// ChartsUsecase はフィード取得 → 銘柄ごとの集計 → 期間フィルタ → 描画 を同期的に実行します。
type ChartsUsecase struct {
	feed     FeedRepository
	renderer ChartRenderer
	runs     RunRepository
	locker   Locker
	cfg      Config
}

// NewChartsUsecase は ChartsUsecase の新しいインスタンスを生成します。
// runs と locker は nil を許容します（履歴を保存しない／ロックしない）。
func NewChartsUsecase(feed FeedRepository, renderer ChartRenderer, runs RunRepository, locker Locker, cfg Config) *ChartsUsecase {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ChartsUsecase{feed: feed, renderer: renderer, runs: runs, locker: locker, cfg: cfg}
}

// Generate はフィードを取得し、全銘柄のチャートを書き出します。
// 途中で失敗した場合はそのエラーをそのまま返します。部分的な成功は報告しません。
func (u *ChartsUsecase) Generate(ctx context.Context, trigger string) (Result, error) {
	start := u.cfg.Now()
	run := &entity.Run{StartedAt: start.UTC(), Trigger: trigger}

	artifacts, err := u.generate(ctx, start, run)

	elapsed := u.cfg.Now().Sub(start)
	run.Elapsed = elapsed
	run.Charts = len(artifacts)
	if err != nil {
		run.Error = err.Error()
	}
	u.record(ctx, run)

	if err != nil {
		return Result{}, err
	}
	slog.Info("charts generated", "charts", len(artifacts), "elapsed", elapsed, "trigger", trigger)
	return Result{Artifacts: artifacts, Elapsed: elapsed}, nil
}

func (u *ChartsUsecase) generate(ctx context.Context, now time.Time, run *entity.Run) ([]entity.Artifact, error) {
	feed, err := u.feed.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	grouped, err := Group(feed)
	if err != nil {
		return nil, err
	}
	run.Symbols = len(grouped)

	// マップの反復順は不定なので、銘柄名順に描画する
	symbols := make([]string, 0, len(grouped))
	for s := range grouped {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)

	win := WindowFor(now, u.cfg.Window)
	artifacts := make([]entity.Artifact, 0, len(symbols))
	for _, symbol := range symbols {
		series := FilterToWindow(grouped[symbol], now, u.cfg.Window)
		a, err := u.renderOne(ctx, symbol, series, win)
		if err != nil {
			return artifacts, err
		}
		slog.Debug("chart written", "symbol", symbol, "path", a.Path, "points", a.Points)
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// renderOne は銘柄のロックを取得してからチャートを描画します。
func (u *ChartsUsecase) renderOne(ctx context.Context, symbol string, series entity.Series, win entity.Window) (entity.Artifact, error) {
	if u.locker != nil {
		unlock, err := u.locker.Lock(ctx, "chart:"+symbol)
		if err != nil {
			return entity.Artifact{}, err
		}
		defer unlock()
	}
	return u.renderer.Render(ctx, symbol, series, win, u.cfg.OutputDir)
}

// record は実行履歴を保存します。保存に失敗してもリクエストは失敗させません。
func (u *ChartsUsecase) record(ctx context.Context, run *entity.Run) {
	if u.runs == nil {
		return
	}
	if err := u.runs.Save(context.WithoutCancel(ctx), run); err != nil {
		slog.Warn("failed to save run", "error", err)
	}
}

// RecentRuns は直近の実行履歴を新しい順に返します。
func (u *ChartsUsecase) RecentRuns(ctx context.Context, limit int) ([]entity.Run, error) {
	if u.runs == nil {
		return []entity.Run{}, nil
	}
	if limit <= 0 || limit > MaxRunsLimit {
		limit = DefaultRunsLimit
	}
	return u.runs.Recent(ctx, limit)
}
