// Package render draws the dashboard charts as PNG images with go-chart.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/couchcryptid/thor-dashboard/internal/domain"
	"github.com/couchcryptid/thor-dashboard/internal/viz"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// seriesColor matches the map's point fill.
var seriesColor = drawing.Color{R: 0, G: 0, B: 200, A: 255}

// Renderer draws fixed-size PNG charts.
type Renderer struct {
	width  int
	height int
	logger *slog.Logger
}

// NewRenderer creates a Renderer producing width x height images.
func NewRenderer(width, height int, logger *slog.Logger) *Renderer {
	return &Renderer{width: width, height: height, logger: logger}
}

// LinePNG writes stat over time for rows, sorted by date. Inputs go-chart cannot
// draw (fewer than two points, a single distinct date) produce a blank canvas.
func (r *Renderer) LinePNG(w io.Writer, title string, rows []domain.OpsRecord, stat domain.Statistic) error {
	sorted := make([]domain.OpsRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	xs := make([]time.Time, len(sorted))
	ys := make([]float64, len(sorted))
	for i, row := range sorted {
		xs[i] = row.Date
		ys[i] = stat.Value(row)
	}
	if len(xs) < 2 || xs[0].Equal(xs[len(xs)-1]) {
		return r.blank(w, "line")
	}

	ch := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{Name: "DATE", ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{Name: stat.Column},
		Series: []chart.Series{chart.TimeSeries{
			Name:    stat.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: seriesColor, StrokeWidth: 1.5},
		}},
	}
	if rng := flatRange(ys); rng != nil {
		ch.YAxis.Range = rng
	}
	return r.render(w, "line", ch.Render)
}

// BarPNG writes one bar per aircraft type. No bars produce a blank canvas.
func (r *Renderer) BarPNG(w io.Writer, title string, bars []viz.Bar) error {
	if len(bars) == 0 {
		return r.blank(w, "bar")
	}

	values := make([]chart.Value, len(bars))
	ys := make([]float64, len(bars))
	for i, b := range bars {
		values[i] = chart.Value{
			Label: b.Aircraft,
			Value: b.TotalSorties,
			Style: chart.Style{FillColor: seriesColor, StrokeColor: seriesColor},
		}
		ys[i] = b.TotalSorties
	}

	bc := chart.BarChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth: barWidth(r.width, len(bars)),
		YAxis:    chart.YAxis{Range: yRangeFromZero(ys)},
		Bars:     values,
	}
	return r.render(w, "bar", bc.Render)
}

// render draws into a buffer first so a failed render never leaves a partial
// image on w. Render failures are returned, not replaced with a blank canvas.
func (r *Renderer) render(w io.Writer, kind string, fn func(chart.RendererProvider, io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write %s chart: %w", kind, err)
	}
	return nil
}

// blank writes an empty white canvas of the configured size.
func (r *Renderer) blank(w io.Writer, kind string) error {
	r.logger.Debug("nothing to plot, writing blank canvas", "chart", kind)
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("write blank chart: %w", err)
	}
	return nil
}

// flatRange pads a flat series so go-chart does not reject a zero-height range.
// It returns nil when the series already spans a range.
func flatRange(ys []float64) *chart.ContinuousRange {
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = min(lo, y)
		hi = max(hi, y)
	}
	if lo == hi {
		return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return nil
}

func yRangeFromZero(ys []float64) *chart.ContinuousRange {
	hi := 0.0
	for _, y := range ys {
		hi = max(hi, y)
	}
	if hi == 0 {
		hi = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: hi}
}

func barWidth(width, n int) int {
	w := width / (2 * n)
	return max(4, min(w, 60))
}
