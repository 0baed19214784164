package schema

import "time"

// RenderRunRecord represents a row from the anomalyplot_render_runs table.
type RenderRunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalLabels   int32
	DatasetPath   string
	ConfigParams  *string
}

// RenderLabelRecord represents a row from the anomalyplot_render_labels table.
type RenderLabelRecord struct {
	RunID          int64
	LabelIndex     int32
	XValue         int32
	Revision       string
	RelativeChange float64
	LeftPx         float64
	TopPx          float64
}
