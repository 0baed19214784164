package schema

import (
	"html"
	"math"
)

// LabelContent is the structured text of an anomaly label.
type LabelContent struct {
	Revision string `json:"revision"`
	Percent  string `json:"percent"`
}

// Markup returns the label as an HTML fragment with both fields escaped.
func (c LabelContent) Markup() string {
	return html.EscapeString(c.Revision) + "<br>" + html.EscapeString(c.Percent) + "%"
}

// Text returns the label as a single plain-text line.
func (c LabelContent) Text() string {
	return c.Revision + " " + c.Percent + "%"
}

// Label is one anomaly label positioned in pixels from the chart image's top-left corner.
// Left and Top are already centered on the label's measured size.
type Label struct {
	Index   int          `json:"index"`
	Content LabelContent `json:"content"`
	Class   string       `json:"class"`
	Left    float64      `json:"left"`
	Top     float64      `json:"top"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Anomaly Anomaly      `json:"anomaly"`
}

// Container is the rendering surface: the rendered chart plus the labels
// floated over it.
type Container struct {
	ID          string  `json:"id"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	ContentType string  `json:"content_type"`
	Chart       []byte  `json:"-"`
	Labels      []Label `json:"labels"`
}

// NewContainer creates an empty surface with the given id and pixel size.
func NewContainer(id string, width, height int) *Container {
	return &Container{ID: id, Width: width, Height: height}
}

// Mount replaces the chart image held by the container.
func (c *Container) Mount(chart []byte, contentType string) {
	c.Chart = chart
	c.ContentType = contentType
}

// Append adds a label on top of the chart, after all existing labels.
func (c *Container) Append(label Label) {
	c.Labels = append(c.Labels, label)
}

// AnnotationResult is everything produced by one render.
type AnnotationResult struct {
	Title       string      `json:"title,omitempty"`
	Revision    *float64    `json:"revision,omitempty"`
	MarkerIndex *int        `json:"marker_index,omitempty"`
	Config      ChartConfig `json:"config"`
	Container   *Container  `json:"container"`
}

// LabelRow is a flattened label with presentation data, used by tabular outputs.
type LabelRow struct {
	Rank           int     `json:"rank"`
	Severity       string  `json:"severity"`
	XValue         int     `json:"x_value"`
	Revision       string  `json:"revision"`
	RelativeChange float64 `json:"relative_change"`
	Percent        string  `json:"percent"`
	Left           float64 `json:"left"`
	Top            float64 `json:"top"`
}

// GetChangeLabel returns a plain text label for the size of a relative change.
func GetChangeLabel(relativeChange float64) string {
	pct := math.Abs(relativeChange * 100)
	switch {
	case pct >= 10:
		return "Major"
	case pct >= 5:
		return "Moderate"
	default:
		return "Minor"
	}
}

// EnrichLabels flattens labels into rows in their original order.
func EnrichLabels(labels []Label) []LabelRow {
	output := make([]LabelRow, len(labels))
	for i, l := range labels {
		output[i] = LabelRow{
			Rank:           i + 1,
			Severity:       GetChangeLabel(l.Anomaly.RelativeChange),
			XValue:         l.Anomaly.XValue,
			Revision:       l.Content.Revision,
			RelativeChange: l.Anomaly.RelativeChange,
			Percent:        l.Content.Percent,
			Left:           l.Left,
			Top:            l.Top,
		}
	}
	return output
}
