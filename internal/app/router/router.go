// Package router はginのルーティングを組み立てます。
package router

import (
	chartshandler "stockcharts/internal/feature/charts/transport/handler"
	"stockcharts/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter はチャート生成APIとヘルスチェックを登録したエンジンを返します。
func NewRouter(charts *chartshandler.ChartsHandler, chartsDir string) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	health := handler.Health(chartsDir)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// チャート生成（同期）
	r.GET("/", charts.Generate)
	// 実行履歴
	r.GET("/runs", charts.Runs)

	return r
}
