// Package handler はchartsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stockcharts/internal/feature/charts/domain/entity"
	"stockcharts/internal/feature/charts/transport/http/dto"
	"stockcharts/internal/feature/charts/usecase"
)

// ChartsUsecase はチャート生成のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ChartsUsecase interface {
	Generate(ctx context.Context, trigger string) (usecase.Result, error)
	RecentRuns(ctx context.Context, limit int) ([]entity.Run, error)
}

// ChartsHandler はチャート生成に関するHTTPリクエストを処理します。
type ChartsHandler struct {
	uc ChartsUsecase
}

// NewChartsHandler は指定されたusecaseでChartsHandlerの新しいインスタンスを生成します。
func NewChartsHandler(uc ChartsUsecase) *ChartsHandler {
	return &ChartsHandler{uc: uc}
}

// SuccessMessage はチャート生成完了時のレスポンス本文を返します（所要時間は小数点以下2桁）。
func SuccessMessage(elapsed time.Duration) string {
	return fmt.Sprintf("Line charts generated and saved locally!<br>Time taken: %.2f seconds", elapsed.Seconds())
}

// Generate はフィードを取得して全銘柄のチャートを同期的に書き出し、所要時間を返します。
// 途中で失敗した場合は 500 を返します。部分的な成功は報告しません。
//
// エンドポイント例:
// GET /
func (h *ChartsHandler) Generate(c *gin.Context) {
	res, err := h.uc.Generate(c.Request.Context(), "http")
	if err != nil {
		slog.Error("chart generation failed", "error", err)
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(SuccessMessage(res.Elapsed)))
}

// Runs は直近の実行履歴を新しい順にJSONで返します。
//
// エンドポイント例:
// GET /runs?limit=20
func (h *ChartsHandler) Runs(c *gin.Context) {
	// 文字列を整数に変換（不正な値は0となり、usecaseでデフォルト値に置き換えられる）
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultRunsLimit)))

	runs, err := h.uc.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.RunResponse{
			ID:             r.ID,
			StartedAt:      r.StartedAt.UTC().Format(time.RFC3339),
			ElapsedSeconds: r.Elapsed.Seconds(),
			Symbols:        r.Symbols,
			Charts:         r.Charts,
			Trigger:        r.Trigger,
			Error:          r.Error,
		})
	}
	c.JSON(http.StatusOK, out)
}
