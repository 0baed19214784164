// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/anomalyplot/schema"
)

// Axis converts plot-space values on one axis into pixels.
type Axis interface {
	// P2C maps a plot-space value to a pixel offset within the plot area.
	P2C(v float64) float64

	// LabelWidth is the horizontal space taken by the axis tick labels.
	LabelWidth() float64
}

// Plot is the handle returned by a renderer once the chart is drawn.
// Its axes reflect the ranges the renderer actually used.
type Plot interface {
	XAxis() Axis
	YAxis() Axis
}

// Surface is the container a chart is rendered into and labels are floated over.
type Surface interface {
	// Mount replaces the rendered chart held by the surface.
	Mount(chart []byte, contentType string)

	// Append adds a positioned label after all existing labels.
	Append(label schema.Label)
}

// PlotRenderer draws series data into a surface.
// This allows the annotator to be tested without a real plotting backend.
type PlotRenderer interface {
	Render(surface Surface, data schema.SeriesData, cfg schema.ChartConfig) (Plot, error)
}

// LabelMeasurer reports the rendered size of a label in pixels.
type LabelMeasurer interface {
	Measure(content schema.LabelContent) (width, height float64)
}

// HistoryManager defines the interface for managing the render history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking render runs and their labels.
type HistoryStore interface {
	// BeginRender creates a new render run and returns its unique ID
	BeginRender(startTime time.Time, datasetPath string, configParams map[string]any) (int64, error)

	// RecordLabels stores every label placed during the run
	RecordLabels(runID int64, labels []schema.Label) error

	// EndRender updates the render run with completion data
	EndRender(runID int64, endTime time.Time, totalLabels int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded render run
	GetAllRuns() ([]schema.RenderRunRecord, error)

	// GetAllLabels returns every recorded label
	GetAllLabels() ([]schema.RenderLabelRecord, error)

	// Close closes the underlying connection
	Close() error
}
