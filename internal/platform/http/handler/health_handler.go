// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Health はサービスヘルスチェック用の /healthz エンドポイントのハンドラーを返します。
// チャート出力先 chartsDir の状態も合わせて返します。
// ディレクトリが未作成の場合は初回の生成時に作られるため正常とみなし、
// 同名のファイルが存在するなど書き込めない状態の場合は 503 を返します。
func Health(chartsDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status, dirState := http.StatusOK, chartsDirState(chartsDir)
		if dirState == "invalid" {
			status = http.StatusServiceUnavailable
		}

		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}

		body := gin.H{"status": "ok", "charts_dir": dirState}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	}
}

// chartsDirState は出力先ディレクトリの状態を "ready" / "missing" / "invalid" で返します。
func chartsDirState(dir string) string {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "missing"
	case err != nil:
		return "invalid"
	case !info.IsDir():
		return "invalid"
	default:
		return "ready"
	}
}
