// Package stockfeed はスプレッドシート由来の株価フィード（JSON）のクライアントを提供します。
package stockfeed

import "time"

// DefaultURL は株価フィードの既定の取得先です。
const DefaultURL = "https://script.google.com/macros/s/AKfycbwJcbaAOxhKrJmtdBcZIIHGm42k_7KkagkQbQLgBU3v236BZ_aijV7c6WQ2R5nkke_P8w/exec"

// Config は株価フィードクライアントの設定を保持します。
type Config struct {
	URL     string        // フィードのURL
	Timeout time.Duration // HTTPリクエストタイムアウト
}
