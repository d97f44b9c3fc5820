package usecase

import (
	"slices"
	"time"

	"stockcharts/internal/feature/charts/domain/entity"
)

// DefaultWindow は直近何日分のデータをチャートに描画するかを表します。
const DefaultWindow = 90 * 24 * time.Hour

// FilterToWindow は Series を日付の昇順に並べ替え、now - window 以降（境界を含む）の点だけを返します。
// 比較はすべて UTC で行います。入力の Series は変更しません。
func FilterToWindow(s entity.Series, now time.Time, window time.Duration) entity.Series {
	sorted := slices.Clone(s)
	slices.SortStableFunc(sorted, func(a, b entity.Point) int {
		return a.Date.Compare(b.Date)
	})

	cutoff := WindowStart(now, window)
	out := make(entity.Series, 0, len(sorted))
	for _, p := range sorted {
		if !p.Date.UTC().Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

// WindowStart は now を UTC に変換したうえで window だけ遡った時刻を返します。
func WindowStart(now time.Time, window time.Duration) time.Time {
	return now.UTC().Add(-window)
}

// WindowFor は now を終端とする描画期間を返します。FilterToWindow と同じ下限を使います。
func WindowFor(now time.Time, window time.Duration) entity.Window {
	return entity.Window{Start: WindowStart(now, window), End: now.UTC()}
}
