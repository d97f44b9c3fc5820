// Package dto はchartsフィーチャーのレスポンスDTOを定義します。
package dto

// RunResponse は実行履歴のレスポンスDTOです。
type RunResponse struct {
	ID             uint    `json:"id"`
	StartedAt      string  `json:"started_at"`      // RFC3339（UTC）
	ElapsedSeconds float64 `json:"elapsed_seconds"` // 所要時間（秒）
	Symbols        int     `json:"symbols"`         // 銘柄数
	Charts         int     `json:"charts"`          // 書き出したチャート数
	Trigger        string  `json:"trigger"`         // http / cron / cli
	Error          string  `json:"error,omitempty"` // 失敗時のメッセージ
}

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
