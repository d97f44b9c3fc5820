// Package entity defines the domain models for the charts feature.
package entity

// RawRecord is one row of the upstream price feed, exactly as delivered.
// All values are strings; conversion happens in the usecase layer.
type RawRecord struct {
	Symbol    string // Stock ticker symbol (e.g., "AAPL")
	TradeDate string // Trade date as sent by the feed, with or without a zone
	Close     string // Closing price as a decimal string
}

// Feed is the typed envelope of one feed response.
// The first row of the upstream "data" array is the column header and is
// split off into Header so that Records only ever holds price rows.
type Feed struct {
	Header  RawRecord
	Records []RawRecord
}
