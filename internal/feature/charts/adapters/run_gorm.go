// Package adapters はchartsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stockcharts/internal/feature/charts/domain/entity"
	"stockcharts/internal/feature/charts/usecase"
)

type runGorm struct {
	db *gorm.DB
}

var _ usecase.RunRepository = (*runGorm)(nil)

// NewRunRepository は指定されたDB接続で実行履歴リポジトリの新しいインスタンスを生成します。
func NewRunRepository(db *gorm.DB) *runGorm {
	return &runGorm{db: db}
}

// RunModel は実行履歴テーブルの行です。
type RunModel struct {
	ID        uint      `gorm:"primaryKey"`
	StartedAt time.Time `gorm:"not null;index"`
	ElapsedMS int64     `gorm:"not null"`
	Symbols   int       `gorm:"not null;default:0"`
	Charts    int       `gorm:"not null;default:0"`
	Trigger   string    `gorm:"column:triggered_by;size:16;not null"`
	Error     string    `gorm:"size:1024"`
	CreatedAt time.Time
}

func (RunModel) TableName() string {
	return "chart_runs"
}

func toModel(e entity.Run) RunModel {
	msg := e.Error
	if len(msg) > 1024 {
		msg = msg[:1024]
	}
	return RunModel{
		ID:        e.ID,
		StartedAt: e.StartedAt.UTC(),
		ElapsedMS: e.Elapsed.Milliseconds(),
		Symbols:   e.Symbols,
		Charts:    e.Charts,
		Trigger:   e.Trigger,
		Error:     msg,
	}
}

func toEntity(m RunModel) entity.Run {
	return entity.Run{
		ID:        m.ID,
		StartedAt: m.StartedAt.UTC(),
		Elapsed:   time.Duration(m.ElapsedMS) * time.Millisecond,
		Symbols:   m.Symbols,
		Charts:    m.Charts,
		Trigger:   m.Trigger,
		Error:     m.Error,
	}
}

// Save は実行履歴を1件保存し、採番されたIDを run に書き戻します。
func (r *runGorm) Save(ctx context.Context, run *entity.Run) error {
	m := toModel(*run)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	run.ID = m.ID
	return nil
}

// Recent は開始時刻の新しい順に最大 limit 件の実行履歴を返します。
func (r *runGorm) Recent(ctx context.Context, limit int) ([]entity.Run, error) {
	var rows []RunModel
	q := r.db.WithContext(ctx).Order("started_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Run, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
