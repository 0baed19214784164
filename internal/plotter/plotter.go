// Package plotter renders series data with go-chart and exposes the axis
// transforms used for placing labels over the rendered image.
package plotter

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Format selects the image encoding produced by a Renderer.
type Format int

// Supported image formats.
const (
	SVG Format = iota
	PNG
)

// maxTicks bounds the number of x-axis ticks drawn.
const maxTicks = 12

// ErrNoPoints is returned when no series has any data.
var ErrNoPoints = errors.New("no points to plot")

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Renderer draws charts with go-chart.
type Renderer struct {
	Format Format
}

var _ contract.PlotRenderer = &Renderer{}

// NewRenderer returns a renderer for the given format.
func NewRenderer(format Format) *Renderer {
	return &Renderer{Format: format}
}

// Render draws data into an image, mounts it in surface and returns a plot
// whose axes use the ranges and canvas go-chart actually drew with.
func (r *Renderer) Render(surface contract.Surface, data schema.SeriesData, cfg schema.ChartConfig) (contract.Plot, error) {
	xr, yr, ok := dataRanges(data)
	if !ok {
		return nil, ErrNoPoints
	}

	var rec *recordingSeries
	series := make([]chart.Series, 0, len(data))
	for i, s := range data {
		if len(s.Data) == 0 {
			continue
		}
		cs := continuousSeries(i, s)
		if rec == nil {
			rec = &recordingSeries{ContinuousSeries: cs, markings: markings(cfg)}
			series = append(series, rec)
			continue
		}
		series = append(series, cs)
	}

	graph := chart.Chart{
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Range: xr,
			Ticks: xTicks(xr, cfg.XAxis.TickFormatter),
		},
		YAxis: chart.YAxis{
			Range: yr,
		},
		// Every series plots against the primary axis; an unhidden secondary
		// axis is drawn with an empty range.
		YAxisSecondary: chart.YAxis{
			Style: chart.Style{Hidden: true},
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(r.Format.provider(), &buf); err != nil {
		return nil, fmt.Errorf("go-chart render: %w", err)
	}
	if !rec.rendered {
		return nil, errors.New("chart rendered without a plot area")
	}

	surface.Mount(buf.Bytes(), r.Format.ContentType())
	return &plot{
		x: xAxis{rng: rec.xrange, box: rec.canvas, height: cfg.Height},
		y: yAxis{rng: rec.yrange, box: rec.canvas},
	}, nil
}

// recordingSeries draws the first series and keeps the geometry go-chart
// handed to it. Grid markings are drawn underneath it.
type recordingSeries struct {
	chart.ContinuousSeries
	markings []schema.Marking

	rendered bool
	canvas   chart.Box
	xrange   chart.Range
	yrange   chart.Range
}

// Render implements chart.Series.
func (s *recordingSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	s.rendered = true
	s.canvas, s.xrange, s.yrange = canvasBox, xrange, yrange

	for _, m := range s.markings {
		x := canvasBox.Left + xrange.Translate(m.XAxis.From)
		r.SetStrokeColor(parseColor(m.Color, chart.ColorBlue))
		r.SetStrokeWidth(m.LineWidth)
		r.MoveTo(x, canvasBox.Top)
		r.LineTo(x, canvasBox.Bottom)
		r.Stroke()
		r.ResetStyle()
	}

	s.ContinuousSeries.Render(r, canvasBox, xrange, yrange, defaults)
}

// markings returns the vertical-line markings of cfg.
func markings(cfg schema.ChartConfig) []schema.Marking {
	if cfg.Grid == nil {
		return nil
	}
	var lines []schema.Marking
	for _, m := range cfg.Grid.Markings {
		if m.XAxis.From == m.XAxis.To {
			lines = append(lines, m)
		}
	}
	return lines
}

func continuousSeries(i int, s schema.Series) chart.ContinuousSeries {
	xs := make([]float64, len(s.Data))
	ys := make([]float64, len(s.Data))
	for j, p := range s.Data {
		xs[j], ys[j] = p.X, p.Y
	}

	color := parseColor(s.Color, chart.GetDefaultColor(i))
	style := chart.Style{StrokeColor: color, StrokeWidth: 2}
	if s.Points || i == schema.AnomalySeriesIndex {
		style = chart.Style{
			StrokeColor: drawing.ColorTransparent,
			DotWidth:    4,
			DotColor:    color,
		}
	}
	return chart.ContinuousSeries{Name: s.Label, Style: style, XValues: xs, YValues: ys}
}

// dataRanges returns the x and y extents of every point, padded so neither is empty.
func dataRanges(data schema.SeriesData) (*chart.ContinuousRange, *chart.ContinuousRange, bool) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range data {
		for _, p := range s.Data {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return nil, nil, false
	}
	minX, maxX = math.Floor(minX), math.Ceil(maxX)
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}
	if minY == maxY {
		minY, maxY = minY-1, maxY+1
	}
	return &chart.ContinuousRange{Min: minX, Max: maxX}, &chart.ContinuousRange{Min: minY, Max: maxY}, true
}

// xTicks places ticks on whole x values, labelled by format. The first and
// last ticks sit on the range bounds since go-chart fits the axis to its ticks.
func xTicks(xr *chart.ContinuousRange, format schema.TickFormatter) []chart.Tick {
	label := func(v float64) string {
		if format != nil {
			return format(v)
		}
		return chart.FloatValueFormatter(v)
	}

	start, end := xr.Min, xr.Max
	step := math.Max(1, math.Ceil((end-start+1)/maxTicks))

	var ticks []chart.Tick
	for v := start; v < end; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: label(v)})
	}
	return append(ticks, chart.Tick{Value: end, Label: label(end)})
}

// parseColor reads a "#rrggbb" color, falling back when s is empty.
func parseColor(s string, fallback drawing.Color) drawing.Color {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return fallback
	}
	return drawing.ColorFromHex(s)
}

// plot is the handle returned by Render.
type plot struct {
	x xAxis
	y yAxis
}

func (p *plot) XAxis() contract.Axis { return p.x }
func (p *plot) YAxis() contract.Axis { return p.y }

// xAxis converts to pixels from the left edge of the plot area.
type xAxis struct {
	rng    chart.Range
	box    chart.Box
	height int
}

func (a xAxis) P2C(v float64) float64 { return float64(a.rng.Translate(v)) }

// LabelWidth is the band below the plot area holding the x tick labels.
func (a xAxis) LabelWidth() float64 { return float64(a.height - a.box.Bottom) }

// yAxis converts to pixels from the top edge of the image.
type yAxis struct {
	rng chart.Range
	box chart.Box
}

func (a yAxis) P2C(v float64) float64 { return float64(a.box.Bottom - a.rng.Translate(v)) }

// LabelWidth is the offset of the plot area from the left edge of the image.
func (a yAxis) LabelWidth() float64 { return float64(a.box.Left) }
