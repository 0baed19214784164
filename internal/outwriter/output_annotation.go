package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
)

// successMessages are shown on stderr after writing to a file.
var successMessages = map[schema.OutputMode]string{
	schema.HTMLOut:    "Wrote HTML chart page",
	schema.SVGOut:     "Wrote SVG chart",
	schema.PNGOut:     "Wrote PNG chart",
	schema.JSONOut:    "Wrote JSON annotation",
	schema.CSVOut:     "Wrote CSV labels",
	schema.TextOut:    "Wrote label table",
	schema.ParquetOut: "Wrote Parquet labels",
}

// PrintAnnotation outputs the annotation to the configured file or stdout.
func PrintAnnotation(result *schema.AnnotationResult, cfg *contract.Config, duration time.Duration) error {
	err := writeOutput(cfg.OutputFile, cfg.Output, func(w io.Writer) error {
		return WriteAnnotation(w, result, cfg, duration)
	})
	if err != nil {
		return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
	}
	return nil
}

// WriteAnnotation writes the annotation to w, dispatching based on the output format configured.
func WriteAnnotation(w io.Writer, result *schema.AnnotationResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.SVGOut, schema.PNGOut:
		return writeChartImage(w, result)
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		return writeCSVLabels(w, result)
	case schema.TextOut:
		return writeLabelTable(w, result, cfg, duration)
	case schema.ParquetOut:
		return writeParquetLabels(w, result)
	default:
		// Default to the HTML chart page
		return writeHTMLPage(w, result)
	}
}
