package stockfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"stockcharts/internal/feature/charts/domain"
	"stockcharts/internal/feature/charts/domain/entity"
	"stockcharts/internal/feature/charts/usecase"
	"stockcharts/internal/platform/externalapi/stockfeed/dto"
	"stockcharts/internal/shared/ratelimiter"
)

// Client は株価フィードを取得するFeedRepository実装です。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// ClientがFeedRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.FeedRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// limiter が nil の場合は呼び出し頻度を制限しません。
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// Fetch はフィードを1回だけ取得し、ヘッダー行とデータ行に分けて返します。
// 通信失敗や 2xx 以外のステータスは domain.ErrNetwork、
// 想定外のJSON形状は domain.ErrMalformedResponse としてラップされます。リトライはしません。
func (c *Client) Fetch(ctx context.Context) (entity.Feed, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return entity.Feed{}, fmt.Errorf("%w: rate limiter: %w", domain.ErrNetwork, err)
		}
	}

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return entity.Feed{}, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	// リクエストを実行
	res, err := c.client.Do(req)
	if err != nil {
		return entity.Feed{}, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return entity.Feed{}, fmt.Errorf("%w: stockfeed http %d", domain.ErrNetwork, res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.FeedResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return entity.Feed{}, fmt.Errorf("%w: decode body: %w", domain.ErrMalformedResponse, err)
	}
	return toFeed(body)
}

// toFeed はエンベロープの "data" がリストであることを検証し、先頭行をヘッダーとして分離します。
// ヘッダー行は形式を問わず読み飛ばします（オブジェクトであれば Feed.Header に写します）。
// "data" が空のリストの場合はレコード0件のフィードとして扱います。
func toFeed(body dto.FeedResponse) (entity.Feed, error) {
	if len(body.Data) == 0 || string(body.Data) == "null" {
		return entity.Feed{}, fmt.Errorf("%w: missing \"data\" field", domain.ErrMalformedResponse)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body.Data, &rows); err != nil {
		return entity.Feed{}, fmt.Errorf("%w: \"data\" is not a list: %w", domain.ErrMalformedResponse, err)
	}
	if len(rows) == 0 {
		return entity.Feed{Records: []entity.RawRecord{}}, nil
	}

	feed := entity.Feed{
		Header:  headerRecord(rows[0]),
		Records: make([]entity.RawRecord, 0, len(rows)-1),
	}
	for i, raw := range rows[1:] {
		var r dto.Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return entity.Feed{}, fmt.Errorf("%w: data row %d: %w", domain.ErrMalformedResponse, i+1, err)
		}
		feed.Records = append(feed.Records, toRawRecord(r))
	}
	return feed, nil
}

// headerRecord はヘッダー行をベストエフォートで読み取ります。読めない場合は空の RawRecord を返します。
func headerRecord(raw json.RawMessage) entity.RawRecord {
	var r dto.Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.RawRecord{}
	}
	return toRawRecord(r)
}

func toRawRecord(r dto.Record) entity.RawRecord {
	return entity.RawRecord{
		Symbol:    string(r.Symbol),
		TradeDate: string(r.TradeDate),
		Close:     string(r.Close),
	}
}
