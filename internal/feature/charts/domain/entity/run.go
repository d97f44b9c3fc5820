package entity

import "time"

// Run records the outcome of one fetch-and-render cycle.
type Run struct {
	ID        uint
	StartedAt time.Time     // Wall-clock start of the cycle (UTC)
	Elapsed   time.Duration // Total duration of the cycle
	Symbols   int           // Number of distinct symbols in the feed
	Charts    int           // Number of charts written
	Trigger   string        // What started the run ("http", "cron" or "cli")
	Error     string        // Failure message, empty on success
}

// Succeeded reports whether the run completed without error.
func (r Run) Succeeded() bool {
	return r.Error == ""
}
