// Package chart renders the sales trend and per-product charts as image files.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/klytics/salekit/internal/sales"
)

// Backend selects how charts are produced.
type Backend string

// Supported backends. BackendNone skips rendering entirely.
const (
	BackendPNG  Backend = "png"
	BackendSVG  Backend = "svg"
	BackendNone Backend = "none"
)

// File names without extension.
const (
	TrendFile    = "sales_trend"
	ProductsFile = "sales_per_product"
)

// ErrDisabled is returned by Renderer methods when the backend is "none".
var ErrDisabled = errors.New("chart rendering is disabled")

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendPNG, nil
	case BackendPNG, BackendSVG, BackendNone:
		return b, nil
	default:
		return "", fmt.Errorf("unsupported chart backend %q (supported: png, svg, none)", s)
	}
}

// Options configures a Renderer.
type Options struct {
	Backend Backend
	Dir     string
	Width   int
	Height  int
	// Open hands each rendered file to the platform viewer.
	Open bool
}

// Renderer writes chart files for one report run. It only reads the totals it
// is given.
type Renderer struct {
	opts   Options
	Opener func(path string) error
	Logger logrus.FieldLogger
}

// New creates a renderer with the given options.
func New(opts Options) *Renderer {
	if opts.Backend == "" {
		opts.Backend = BackendPNG
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.Width <= 0 {
		opts.Width = 1200
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	return &Renderer{opts: opts, Opener: OpenFile, Logger: logrus.StandardLogger()}
}

// Enabled reports whether the renderer will produce files.
func (r *Renderer) Enabled() bool {
	return r.opts.Backend != BackendNone
}

// Trend renders the daily totals line chart and returns the file path.
func (r *Renderer) Trend(daily []sales.DailyTotal) (string, error) {
	return r.render(TrendFile, func(w io.Writer, p chart.RendererProvider) error {
		return WriteTrend(w, p, daily, r.opts.Width, r.opts.Height)
	})
}

// Products renders the per-product bar chart and returns the file path.
func (r *Renderer) Products(totals []sales.ProductTotal) (string, error) {
	return r.render(ProductsFile, func(w io.Writer, p chart.RendererProvider) error {
		return WriteProducts(w, p, totals, r.opts.Width, r.opts.Height)
	})
}

func (r *Renderer) render(name string, draw func(io.Writer, chart.RendererProvider) error) (string, error) {
	if !r.Enabled() {
		return "", ErrDisabled
	}

	provider := chart.PNG
	if r.opts.Backend == BackendSVG {
		provider = chart.SVG
	}

	// Draw into memory first so a failed chart leaves no partial file.
	var buf bytes.Buffer
	if err := draw(&buf, provider); err != nil {
		return "", fmt.Errorf("could not render %s: %w", name, err)
	}

	if err := os.MkdirAll(r.opts.Dir, 0755); err != nil {
		return "", fmt.Errorf("could not create chart directory: %w", err)
	}
	path := filepath.Join(r.opts.Dir, name+"."+string(r.opts.Backend))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}

	if r.opts.Open && r.Opener != nil {
		if err := r.Opener(path); err != nil {
			r.Logger.WithError(err).WithField("path", path).Warn("Could not open chart")
		}
	}
	return path, nil
}

var (
	trendColor = drawing.ColorFromHex("008080")
	barColor   = drawing.ColorFromHex("87ceeb")
	edgeColor  = drawing.ColorBlack
)

// WriteTrend draws the daily totals as a line chart with point markers.
// It needs at least two days to span the time axis.
func WriteTrend(w io.Writer, p chart.RendererProvider, daily []sales.DailyTotal, width, height int) error {
	if len(daily) < 2 {
		return fmt.Errorf("need at least two days of sales to draw a trend, have %d", len(daily))
	}

	xs := make([]time.Time, len(daily))
	ys := make([]float64, len(daily))
	for i, d := range daily {
		xs[i] = d.Date
		ys[i] = d.Total.InexactFloat64()
	}

	graph := chart.Chart{
		Title:  "Sales Trend Over Time",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{
			Name:  "Total Sales",
			Range: valueRange(ys),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Total Sales",
				Style: chart.Style{
					StrokeColor: trendColor,
					StrokeWidth: 2,
					DotColor:    trendColor,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return graph.Render(p, w)
}

// WriteProducts draws the per-product totals as a bar chart.
func WriteProducts(w io.Writer, p chart.RendererProvider, totals []sales.ProductTotal, width, height int) error {
	if len(totals) == 0 {
		return errors.New("no products to chart")
	}

	bars := make([]chart.Value, len(totals))
	ys := make([]float64, len(totals))
	for i, pt := range totals {
		ys[i] = pt.Total.InexactFloat64()
		bars[i] = chart.Value{
			Label: pt.Product,
			Value: ys[i],
			Style: chart.Style{FillColor: barColor, StrokeColor: edgeColor, StrokeWidth: 1},
		}
	}

	const spacing = 10
	barWidth := (width - 120) / len(totals)
	barWidth = max(4, min(barWidth-spacing, 80))

	graph := chart.BarChart{
		Title:  "Sales Per Product",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Name:  "Total Sales",
			Range: valueRange(ys),
		},
		Bars: bars,
	}
	return graph.Render(p, w)
}

// valueRange anchors the axis at zero and keeps it non-degenerate when every
// value is the same.
func valueRange(ys []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, y := range ys {
		lo = min(lo, y)
		hi = max(hi, y)
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := (hi - lo) * 0.1
	if lo < 0 {
		lo -= pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + pad}
}
