package entity

import (
	"fmt"
	"path/filepath"
)

// ChartFileSuffix is appended to the symbol to build the chart file name.
const ChartFileSuffix = "_last_3_months_line_chart.png"

// Artifact is a rendered chart image persisted on disk.
type Artifact struct {
	Symbol string // Symbol the chart was rendered for
	Path   string // Location of the PNG file
	Points int    // Number of plotted points
}

// ChartFileName returns the file name of the chart for symbol.
func ChartFileName(symbol string) string {
	return fmt.Sprintf("%s%s", symbol, ChartFileSuffix)
}

// ChartPath returns the chart location for symbol under dir.
// The result depends only on its arguments, so re-rendering a symbol overwrites the previous chart.
func ChartPath(dir, symbol string) string {
	return filepath.Join(dir, ChartFileName(symbol))
}
