// Package domain defines domain-level errors for the charts feature.
package domain

import "errors"

// Pipeline errors. Adapters wrap the underlying cause with one of these so
// upper layers can classify a failure with errors.Is.
var (
	// ErrNetwork indicates the feed request did not complete or returned a non-success status.
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse indicates the feed body is not the expected JSON envelope,
	// e.g. the "data" field is missing or is not a list.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrParse indicates a record field could not be converted (non-numeric close, bad date).
	ErrParse = errors.New("parse error")

	// ErrFilesystem indicates the chart directory or file could not be written.
	ErrFilesystem = errors.New("filesystem error")

	// ErrRender indicates the chart image could not be produced from the series.
	ErrRender = errors.New("render error")
)
