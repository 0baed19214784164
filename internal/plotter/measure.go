package plotter

import (
	"strings"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/mattn/go-runewidth"
)

// Label box metrics. These match the .anomaly-label rule of the HTML page.
const (
	DefaultCharWidth  = schema.LabelCharWidth
	DefaultLineHeight = schema.LabelLineHeight
	DefaultPadding    = schema.LabelPadding
	DefaultBorder     = schema.LabelBorder
)

// MonospaceMeasurer sizes labels as if set in a monospace font.
type MonospaceMeasurer struct {
	CharWidth  float64
	LineHeight float64
	Padding    float64
	Border     float64
}

var _ contract.LabelMeasurer = MonospaceMeasurer{}

// NewMonospaceMeasurer returns a measurer using the default label metrics.
func NewMonospaceMeasurer() MonospaceMeasurer {
	return MonospaceMeasurer{
		CharWidth:  DefaultCharWidth,
		LineHeight: DefaultLineHeight,
		Padding:    DefaultPadding,
		Border:     DefaultBorder,
	}
}

// Measure returns the label box size. Each line is one row and wide
// characters count as two columns.
func (m MonospaceMeasurer) Measure(content schema.LabelContent) (float64, float64) {
	lines := []string{content.Revision, content.Percent + "%"}
	cols := 0
	for _, line := range lines {
		cols = max(cols, runewidth.StringWidth(strings.TrimSpace(line)))
	}
	inset := 2 * (m.Padding + m.Border)
	width := float64(cols)*m.CharWidth + inset
	height := float64(len(lines))*m.LineHeight + inset
	return width, height
}
