package stockfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stockcharts/internal/feature/charts/domain"
	"stockcharts/internal/feature/charts/domain/entity"
)

// newTestClient はテスト用サーバーに向けたClientを作成します。
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{URL: server.URL, Timeout: 5 * time.Second}, server.Client(), nil)
}

// respondJSON は固定のJSONボディを返すハンドラーです。
func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	cfg := Config{URL: "https://feed.test", Timeout: 10 * time.Second}
	c := NewClient(cfg, &http.Client{}, nil)

	if c == nil {
		t.Fatal("expected non-nil client")
	}
	if c.cfg.URL != cfg.URL {
		t.Errorf("expected URL %q, got %q", cfg.URL, c.cfg.URL)
	}
}

func TestClient_Fetch_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		respondJSON(http.StatusOK, `{
			"data": [
				{"symbol": "symbol", "trade-date": "trade-date", "close": "close"},
				{"symbol": "AAPL", "trade-date": "2024-01-01", "close": "150"},
				{"symbol": "AAPL", "trade-date": "2024-02-01T05:00:00.000Z", "close": 160.5},
				{"symbol": "MSFT", "trade-date": "2024-01-01", "close": "300", "open": "299"}
			]
		}`)(w, r)
	})

	feed, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if feed.Header.Symbol != "symbol" {
		t.Errorf("expected header row to be split off, got %+v", feed.Header)
	}
	want := []entity.RawRecord{
		{Symbol: "AAPL", TradeDate: "2024-01-01", Close: "150"},
		{Symbol: "AAPL", TradeDate: "2024-02-01T05:00:00.000Z", Close: "160.5"},
		{Symbol: "MSFT", TradeDate: "2024-01-01", Close: "300"},
	}
	if len(feed.Records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(feed.Records))
	}
	for i := range want {
		if feed.Records[i] != want[i] {
			t.Errorf("record %d: expected %+v, got %+v", i, want[i], feed.Records[i])
		}
	}
}

func TestClient_Fetch_HeaderOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty data", `{"data": []}`},
		{"header object", `{"data": [{"symbol": "symbol"}]}`},
		{"header string", `{"data": ["symbol,trade-date,close"]}`},
		{"header array", `{"data": [["symbol", "trade-date", "close"]]}`},
		{"header with bool value", `{"data": [{"symbol": "symbol", "close": true}]}`},
		{"header null", `{"data": [null]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, respondJSON(http.StatusOK, tt.body))

			feed, err := c.Fetch(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(feed.Records) != 0 {
				t.Errorf("expected 0 records, got %d", len(feed.Records))
			}
		})
	}
}

// TestClient_Fetch_HeaderIsSkipped は先頭行の形式に関係なくデータ行だけが返されることを検証します。
func TestClient_Fetch_HeaderIsSkipped(t *testing.T) {
	t.Parallel()

	row := `{"symbol": "AAPL", "trade-date": "2024-01-01", "close": "150"}`
	tests := []struct {
		name           string
		header         string
		expectedHeader entity.RawRecord
	}{
		{"header object", `{"symbol": "symbol", "trade-date": "trade-date", "close": "close"}`,
			entity.RawRecord{Symbol: "symbol", TradeDate: "trade-date", Close: "close"}},
		{"header string", `"symbol,trade-date,close"`, entity.RawRecord{}},
		{"header array", `["symbol", "trade-date", "close"]`, entity.RawRecord{}},
		{"header with bool value", `{"symbol": "symbol", "close": true}`, entity.RawRecord{}},
		{"header number", `0`, entity.RawRecord{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, respondJSON(http.StatusOK, `{"data": [`+tt.header+`, `+row+`]}`))

			feed, err := c.Fetch(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if feed.Header != tt.expectedHeader {
				t.Errorf("expected header %+v, got %+v", tt.expectedHeader, feed.Header)
			}
			want := entity.RawRecord{Symbol: "AAPL", TradeDate: "2024-01-01", Close: "150"}
			if len(feed.Records) != 1 || feed.Records[0] != want {
				t.Errorf("expected records [%+v], got %+v", want, feed.Records)
			}
		})
	}
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		statusCode int
	}{
		{"moved", http.StatusMovedPermanently},
		{"bad request", http.StatusBadRequest},
		{"not found", http.StatusNotFound},
		{"internal server error", http.StatusInternalServerError},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			})

			_, err := c.Fetch(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, domain.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
			if !strings.Contains(err.Error(), "stockfeed http") {
				t.Errorf("expected HTTP error message, got %v", err)
			}
		})
	}
}

func TestClient_Fetch_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{invalid json`},
		{"missing data", `{"rows": []}`},
		{"null data", `{"data": null}`},
		{"data is object", `{"data": {"symbol": "AAPL"}}`},
		{"data is string", `{"data": "AAPL"}`},
		{"record is not object", `{"data": [1, 2]}`},
		{"record is string", `{"data": [{"symbol": "symbol"}, "AAPL,2024-01-01,150"]}`},
		{"record field is bool", `{"data": [{"symbol": "symbol"}, {"symbol": "AAPL", "close": true}]}`},
		{"field is object", `{"data": [{"symbol": "symbol"}, {"symbol": {"x": 1}}]}`},
		{"top level array", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, respondJSON(http.StatusOK, tt.body))

			_, err := c.Fetch(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(Config{URL: url}, &http.Client{Timeout: time.Second}, nil)

	_, err := c.Fetch(context.Background())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx)
	if err == nil {
		t.Fatal("expected error due to context cancellation, got nil")
	}
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

// stubLimiter は Wait の呼び出しを記録します。
type stubLimiter struct {
	calls int
	err   error
}

func (s *stubLimiter) Wait(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestClient_Fetch_UsesLimiter(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		respondJSON(http.StatusOK, `{"data": [{}]}`)(w, r)
	}))
	defer server.Close()

	lim := &stubLimiter{}
	c := NewClient(Config{URL: server.URL}, server.Client(), lim)
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lim.calls != 1 {
		t.Errorf("expected limiter to be called once, got %d", lim.calls)
	}

	lim.err = context.Canceled
	_, err := c.Fetch(context.Background())
	if !errors.Is(err, domain.ErrNetwork) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected ErrNetwork wrapping context.Canceled, got %v", err)
	}
	if requests != 1 {
		t.Errorf("expected no request after limiter failure, got %d requests", requests)
	}
}
