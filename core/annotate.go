package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
)

var (
	// ErrNoSeries is returned when a dataset has nothing to plot.
	ErrNoSeries = errors.New("dataset has no series")

	// ErrAnomalyMismatch is returned when there are fewer anomalies than anomaly points.
	ErrAnomalyMismatch = errors.New("anomaly points and anomalies are out of step")
)

// Deps holds the collaborators and presentation settings for Initialize.
type Deps struct {
	Renderer   contract.PlotRenderer
	Measurer   contract.LabelMeasurer
	ClampUpper bool
	Width      int
	Height     int
	Title      string
}

// Initialize renders the dataset into the surface and floats one label per
// anomaly point over it. It returns the chart configuration that was used.
func Initialize(ds *schema.Dataset, surface contract.Surface, deps Deps) (schema.ChartConfig, error) {
	cfg := schema.ChartConfig{
		Title:  deps.Title,
		Width:  deps.Width,
		Height: deps.Height,
		XAxis: schema.XAxisOptions{
			TickFormatter: XAxisTickFormatter(ds.Lookup, deps.ClampUpper),
		},
	}
	if len(ds.Data) == 0 {
		return cfg, ErrNoSeries
	}

	AddVerticalLine(&cfg, ds.Lookup, ds.Revision)

	plot, err := deps.Renderer.Render(surface, ds.Data, cfg)
	if err != nil {
		return cfg, fmt.Errorf("render chart: %w", err)
	}

	points := ds.Data.AnomalyPoints()
	if err := AddAnomalyLabels(surface, plot, points, ds.Anomalies, ds.Lookup, deps.Measurer); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// AddVerticalLine marks the lookup index closest to revision with a zero-width
// vertical line. A nil or zero revision, or an empty lookup, leaves cfg untouched.
func AddVerticalLine(cfg *schema.ChartConfig, lookup schema.RevisionLookup, revision *float64) (int, bool) {
	if len(lookup) == 0 || revision == nil || *revision == 0 {
		return -1, false
	}
	idx := IndexOfClosest(lookup, *revision)
	at := float64(idx)
	cfg.Grid = &schema.GridOptions{
		Markings: []schema.Marking{{
			XAxis:     schema.AxisSpan{From: at, To: at},
			Color:     schema.MarkerColor,
			LineWidth: schema.MarkerLineWidth,
		}},
	}
	return idx, true
}

// IndexOfClosest returns the index of the value nearest to target.
// Ties go to the smallest index; an empty slice yields -1.
func IndexOfClosest(values []float64, target float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range values {
		if d := math.Abs(v - target); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// XAxisTickFormatter maps plot-space x values to revisions. Values are rounded
// half away from zero and clamped below at zero. Past the end of the lookup the
// formatter returns "" unless clampUpper is set, in which case the last
// revision is shown.
func XAxisTickFormatter(lookup schema.RevisionLookup, clampUpper bool) schema.TickFormatter {
	return func(raw float64) string {
		if math.IsNaN(raw) || len(lookup) == 0 {
			return ""
		}
		idx := max(math.Round(raw), 0)
		if idx >= float64(len(lookup)) {
			if !clampUpper {
				return ""
			}
			idx = float64(len(lookup) - 1)
		}
		return schema.FormatRevision(lookup[int(idx)])
	}
}

// AnomalyDescription builds the label text for an anomaly. An x_value outside
// the lookup gives an empty revision.
func AnomalyDescription(lookup schema.RevisionLookup, anomaly schema.Anomaly) schema.LabelContent {
	var revision string
	if rev, ok := lookup.At(anomaly.XValue); ok {
		revision = schema.FormatRevision(rev)
	}
	return schema.LabelContent{
		Revision: revision,
		Percent:  schema.FormatPercent(anomaly.RelativeChange),
	}
}

// MakeLabel creates a label centered on (left, top).
func MakeLabel(content schema.LabelContent, left, top float64, measurer contract.LabelMeasurer) schema.Label {
	var w, h float64
	if measurer != nil {
		w, h = measurer.Measure(content)
	}
	return schema.Label{
		Content: content,
		Class:   schema.LabelClass,
		Left:    left - w/2,
		Top:     top - h/2,
		Width:   w,
		Height:  h,
	}
}

// AddAnomalyLabels appends one label per anomaly point, in order. The i-th
// point is described by the i-th anomaly. Labels alternate below and above
// their point so neighbours overlap less.
func AddAnomalyLabels(
	surface contract.Surface,
	plot contract.Plot,
	points []schema.Point,
	anomalies []schema.Anomaly,
	lookup schema.RevisionLookup,
	measurer contract.LabelMeasurer,
) error {
	if len(anomalies) < len(points) {
		return fmt.Errorf("%w: %d points, %d anomalies", ErrAnomalyMismatch, len(points), len(anomalies))
	}

	xaxis, yaxis := plot.XAxis(), plot.YAxis()
	for i, p := range points {
		left := xaxis.P2C(p.X) + yaxis.LabelWidth() + schema.LabelGap
		top := yaxis.P2C(p.Y)
		if i%2 == 0 {
			top += schema.EvenLabelOffset
		} else {
			top += schema.OddLabelOffset
		}

		label := MakeLabel(AnomalyDescription(lookup, anomalies[i]), left, top, measurer)
		label.Index = i
		label.Anomaly = anomalies[i]
		surface.Append(label)
	}
	return nil
}
