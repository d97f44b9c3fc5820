package usecase

import (
	"fmt"
	"strings"
	"time"
)

// zonedLayouts はタイムゾーン情報を含むフォーマットです。
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// naiveLayouts はタイムゾーン情報を含まないフォーマットです。UTC として解釈します。
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTradeDate はフィードの取引日文字列を UTC の時刻に変換します。
// タイムゾーン付きの文字列は UTC に変換し、タイムゾーンなしの文字列は UTC とみなします。
func ParseTradeDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if tm, err := time.Parse(layout, v); err == nil {
			return tm.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if tm, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return tm, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse trade date %q: unsupported format", s)
}
