// Package gochart renders price series to PNG line charts with go-chart.
package gochart

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stockcharts/internal/feature/charts/domain"
	"stockcharts/internal/feature/charts/domain/entity"
	"stockcharts/internal/feature/charts/usecase"
)

// Canvas defaults: 12x6 inches at 100 DPI.
const (
	DefaultWidth  = 1200
	DefaultHeight = 600
	DefaultDPI    = 100.0
)

var (
	lineColor = chart.ColorBlue
	gridStyle = chart.Style{
		StrokeColor: drawing.ColorFromHex("d9d9d9"),
		StrokeWidth: 1.0,
	}
	// invisible is used for the placeholder series of an empty chart.
	// A zero Color would fall back to the default palette, so alpha is the only zero channel.
	invisible = drawing.Color{R: 255, G: 255, B: 255, A: 0}
)

// Options configures a Renderer. Zero values take the defaults.
type Options struct {
	Width  int
	Height int
	DPI    float64
	Now    func() time.Time // end of the fallback x span when no valid window is given
}

// Renderer implements usecase.ChartRenderer.
type Renderer struct {
	opts Options
}

var _ usecase.ChartRenderer = (*Renderer)(nil)

// NewRenderer creates a Renderer.
func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Renderer{opts: opts}
}

// Render draws series as a line chart with point markers and writes it to
// {outputDir}/{symbol}_last_3_months_line_chart.png, creating outputDir when missing.
// The file is replaced atomically, so readers never observe a partially written chart.
// An empty series still yields a chart with empty axes spanning window.
func (r *Renderer) Render(ctx context.Context, symbol string, series entity.Series, window entity.Window, outputDir string) (entity.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return entity.Artifact{}, err
	}
	if err := validSymbol(symbol); err != nil {
		return entity.Artifact{}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return entity.Artifact{}, fmt.Errorf("%w: create %s: %w", domain.ErrFilesystem, outputDir, err)
	}

	// The buffer is the per-chart rendering context; nothing is shared between calls.
	var buf bytes.Buffer
	if err := r.buildChart(symbol, series, r.span(window)).Render(chart.PNG, &buf); err != nil {
		return entity.Artifact{}, fmt.Errorf("%w: %s: %w", domain.ErrRender, symbol, err)
	}

	path := entity.ChartPath(outputDir, symbol)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return entity.Artifact{}, fmt.Errorf("%w: write %s: %w", domain.ErrFilesystem, path, err)
	}
	return entity.Artifact{Symbol: symbol, Path: path, Points: len(series)}, nil
}

// span returns window, or the trailing default window ending now when window is unset.
func (r *Renderer) span(window entity.Window) entity.Window {
	if window.Valid() {
		return entity.Window{Start: window.Start.UTC(), End: window.End.UTC()}
	}
	return usecase.WindowFor(r.opts.Now(), usecase.DefaultWindow)
}

func (r *Renderer) buildChart(symbol string, series entity.Series, window entity.Window) chart.Chart {
	xRange, yRange := ranges(series, window)

	return chart.Chart{
		Title:  fmt.Sprintf("%s - Last 3 Months", symbol),
		Width:  r.opts.Width,
		Height: r.opts.Height,
		DPI:    r.opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 40, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeDateValueFormatter,
			TickStyle:      chart.Style{TextRotationDegrees: 45.0},
			GridMajorStyle: gridStyle,
			Range:          xRange,
		},
		YAxis: chart.YAxis{
			Name:           "Closing Price",
			GridMajorStyle: gridStyle,
			Range:          yRange,
		},
		Series: []chart.Series{timeSeries(symbol, series, window)},
	}
}

func timeSeries(symbol string, series entity.Series, window entity.Window) chart.TimeSeries {
	if len(series) == 0 {
		// go-chart refuses to render without a series, so draw an invisible one across the window.
		return chart.TimeSeries{
			Name:    symbol,
			XValues: []time.Time{window.Start, window.End},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: invisible, DotWidth: 0},
		}
	}
	return chart.TimeSeries{
		Name:    symbol,
		XValues: series.Dates(),
		YValues: series.Closes(),
		Style: chart.Style{
			StrokeColor: lineColor,
			StrokeWidth: 2.0,
			DotColor:    lineColor,
			DotWidth:    4.0,
		},
	}
}

// ranges returns explicit axis ranges where go-chart would otherwise derive a zero-width one
// (no points, a single point, or a flat line). nil means the axis is auto-ranged.
func ranges(series entity.Series, window entity.Window) (x, y *chart.ContinuousRange) {
	if len(series) == 0 {
		return &chart.ContinuousRange{
				Min: chart.TimeToFloat64(window.Start),
				Max: chart.TimeToFloat64(window.End),
			}, &chart.ContinuousRange{
				Min: 0,
				Max: 1,
			}
	}

	minX, maxX := series[0].Date, series[0].Date
	minY, maxY := series[0].Close, series[0].Close
	for _, p := range series[1:] {
		if p.Date.Before(minX) {
			minX = p.Date
		}
		if p.Date.After(maxX) {
			maxX = p.Date
		}
		minY = math.Min(minY, p.Close)
		maxY = math.Max(maxY, p.Close)
	}

	if minX.Equal(maxX) {
		x = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(minX.Add(-12 * time.Hour)),
			Max: chart.TimeToFloat64(maxX.Add(12 * time.Hour)),
		}
	}
	if minY == maxY {
		pad := math.Abs(minY) * 0.05
		if pad == 0 {
			pad = 1
		}
		y = &chart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
	}
	return x, y
}

// validSymbol rejects symbols that would escape the output directory.
func validSymbol(symbol string) error {
	if symbol == "" || symbol == "." || symbol == ".." || strings.ContainsAny(symbol, `/\`) {
		return fmt.Errorf("%w: invalid symbol %q for a file name", domain.ErrFilesystem, symbol)
	}
	return nil
}
