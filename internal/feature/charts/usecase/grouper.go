// Package usecase は株価チャート生成のビジネスロジックを実装します。
package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockcharts/internal/feature/charts/domain"
	"stockcharts/internal/feature/charts/domain/entity"
)

// Group はフィードのレコードを銘柄ごとに振り分け、銘柄→Series のマップを返します。
// ヘッダー行は Feed.Header に分離済みのため、ここでは Records のみを対象とします。
// 各 Series はフィードの出現順のままで、ソートは FilterToWindow で行います。
// 終値や日付が解釈できないレコードが1件でもあれば domain.ErrParse を返します。
func Group(feed entity.Feed) (map[string]entity.Series, error) {
	out := make(map[string]entity.Series)
	for i, r := range feed.Records {
		// 終値をパース（前後の空白は無視し、decimal で厳密に検証してから float64 へ変換）
		d, err := decimal.NewFromString(strings.TrimSpace(r.Close))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): close %q: %w", domain.ErrParse, i+1, r.Symbol, r.Close, err)
		}
		// 取引日をパース（UTC に正規化）
		tm, err := ParseTradeDate(r.TradeDate)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (%s): %w", domain.ErrParse, i+1, r.Symbol, err)
		}
		out[r.Symbol] = append(out[r.Symbol], entity.Point{Date: tm, Close: d.InexactFloat64()})
	}
	return out, nil
}
