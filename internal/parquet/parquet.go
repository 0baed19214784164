// Package parquet provides data structures and functions for exporting anomalyplot
// labels and render history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/anomalyplot/schema"
	"github.com/parquet-go/parquet-go"
)

// RenderRun represents a single chart render with metadata.
// This struct maps to the anomalyplot_render_runs database table.
type RenderRun struct {
	// RunID is the unique identifier for this render run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the render began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the render completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the render in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalLabels is the number of anomaly labels placed
	TotalLabels int32 `parquet:"total_labels,snappy"`

	// DatasetPath is the dataset file that was rendered
	DatasetPath string `parquet:"dataset_path,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RenderLabel represents one label recorded during a render run.
// This struct maps to the anomalyplot_render_labels database table.
type RenderLabel struct {
	RunID          int64   `parquet:"run_id,snappy"`
	LabelIndex     int32   `parquet:"label_index,snappy"`
	XValue         int32   `parquet:"x_value,snappy"`
	Revision       string  `parquet:"revision,snappy"`
	RelativeChange float64 `parquet:"relative_change,snappy"`
	LeftPx         float64 `parquet:"left_px,snappy"`
	TopPx          float64 `parquet:"top_px,snappy"`
}

// AnomalyLabel is a label row from a single render, written by the parquet output mode.
type AnomalyLabel struct {
	Rank           int32   `parquet:"rank,snappy"`
	Severity       string  `parquet:"severity,snappy,dict"`
	XValue         int32   `parquet:"x_value,snappy"`
	Revision       string  `parquet:"revision,snappy"`
	RelativeChange float64 `parquet:"relative_change,snappy"`
	Left           float64 `parquet:"left,snappy"`
	Top            float64 `parquet:"top,snappy"`
}

// WriteRows writes rows to w as a Parquet file. The schema is derived from
// the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows into it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteRows(file, rows)
}

// WriteRenderRunsParquet writes a slice of RenderRun structs to a Parquet file.
func WriteRenderRunsParquet(data []RenderRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRenderLabelsParquet writes a slice of RenderLabel structs to a Parquet file.
func WriteRenderLabelsParquet(data []RenderLabel, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRenderRunRecords converts store records to Parquet rows.
func ConvertRenderRunRecords(records []schema.RenderRunRecord) []RenderRun {
	result := make([]RenderRun, len(records))
	for i, r := range records {
		result[i] = RenderRun{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalLabels:   r.TotalLabels,
			DatasetPath:   r.DatasetPath,
			ConfigParams:  r.ConfigParams,
		}
	}
	return result
}

// ConvertRenderLabelRecords converts store records to Parquet rows.
func ConvertRenderLabelRecords(records []schema.RenderLabelRecord) []RenderLabel {
	result := make([]RenderLabel, len(records))
	for i, r := range records {
		result[i] = RenderLabel(r)
	}
	return result
}

// ConvertLabelRows converts enriched label rows to Parquet rows.
func ConvertLabelRows(rows []schema.LabelRow) []AnomalyLabel {
	result := make([]AnomalyLabel, len(rows))
	for i, r := range rows {
		result[i] = AnomalyLabel{
			Rank:           int32(r.Rank),
			Severity:       r.Severity,
			XValue:         int32(r.XValue),
			Revision:       r.Revision,
			RelativeChange: r.RelativeChange,
			Left:           r.Left,
			Top:            r.Top,
		}
	}
	return result
}
