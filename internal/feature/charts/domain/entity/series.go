package entity

import "time"

// Point is a single closing price observation. Date is always in UTC.
type Point struct {
	Date  time.Time
	Close float64
}

// Series is the sequence of points for one symbol.
// It is unordered until it has passed through the window filter,
// after which it is sorted ascending by Date.
type Series []Point

// Dates returns the x values of the series.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

// Closes returns the y values of the series.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Close
	}
	return out
}

// Window is the time span [Start, End] one run charts. Both ends are in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window has a positive width.
func (w Window) Valid() bool {
	return w.End.After(w.Start)
}
