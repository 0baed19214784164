package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/parquet"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// writeChartImage writes the bare chart image held by the container.
func writeChartImage(w io.Writer, result *schema.AnnotationResult) error {
	if result.Container == nil || len(result.Container.Chart) == 0 {
		return errors.New("no chart was rendered")
	}
	_, err := w.Write(result.Container.Chart)
	return err
}

// labelRows flattens the container labels, tolerating a missing container.
func labelRows(result *schema.AnnotationResult) []schema.LabelRow {
	if result.Container == nil {
		return nil
	}
	return schema.EnrichLabels(result.Container.Labels)
}

// writeCSVLabels writes one CSV row per label.
func writeCSVLabels(w io.Writer, result *schema.AnnotationResult) error {
	header := []string{
		"rank",
		"severity",
		"x_value",
		"revision",
		"relative_change",
		"percent",
		"left",
		"top",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range labelRows(result) {
			row := []string{
				strconv.Itoa(r.Rank),
				r.Severity,
				strconv.Itoa(r.XValue),
				r.Revision,
				strconv.FormatFloat(r.RelativeChange, 'f', -1, 64),
				r.Percent,
				formatPixels(r.Left),
				formatPixels(r.Top),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeParquetLabels writes the labels as a Parquet file.
func writeParquetLabels(w io.Writer, result *schema.AnnotationResult) error {
	return parquet.WriteRows(w, parquet.ConvertLabelRows(labelRows(result)))
}

// writeLabelTable prints the labels in a table followed by a one-line summary.
func writeLabelTable(w io.Writer, result *schema.AnnotationResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// --- 1. Define Headers ---
	table.Header([]string{"Rank", "Revision", "Change", "Label", "Left", "Top"})

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// --- 3. Prepare Data Rows ---
	var data [][]string
	for _, r := range labelRows(result) {
		label := r.Severity
		if cfg.UseColors {
			label = contract.GetColorLabel(r.RelativeChange)
		}
		revision := r.Revision
		if revision == "" {
			revision = "?"
		}
		data = append(data, []string{
			strconv.Itoa(r.Rank),
			revision,
			r.Percent + "%",
			label,
			formatPixels(r.Left),
			formatPixels(r.Top),
		})
	}

	// --- 4. Render the table ---
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	marker := "no marker"
	if result.MarkerIndex != nil && result.Revision != nil {
		marker = fmt.Sprintf("marker at index %d for revision %s", *result.MarkerIndex, schema.FormatRevision(*result.Revision))
	}
	_, err := fmt.Fprintf(w, "Rendered %d labels (%s) from %s in %v. History backend: %s\n",
		len(data), marker, contract.TruncatePath(cfg.DatasetPath, GetMaxTablePathWidth()), duration, cfg.HistoryBackend)
	return err
}
