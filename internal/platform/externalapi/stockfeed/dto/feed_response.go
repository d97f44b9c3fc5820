// Package dto defines data transfer objects for the stock price feed responses.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FeedResponse represents the JSON envelope returned by the feed endpoint.
// Data is kept raw so a missing or non-list field can be told apart from an empty one.
type FeedResponse struct {
	Data json.RawMessage `json:"data"`
}

// Record represents one element of the "data" array.
type Record struct {
	Symbol    Text `json:"symbol"`
	TradeDate Text `json:"trade-date"`
	Close     Text `json:"close"`
}

// Text is a JSON scalar read as its textual form.
// The feed is a spreadsheet export, so a column may arrive as a string or a bare number.
type Text string

// UnmarshalJSON accepts a JSON string, number, or null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", b)
		}
		*t = Text(n.String())
		return nil
	}
}
