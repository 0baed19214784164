package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
	"golang.org/x/term"
)

// stdoutIsTerminal is swapped in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// writeOutput renders into memory and then copies to outputFile or stdout,
// so a failed render never leaves a truncated file behind.
// PNG bytes are refused on an interactive terminal.
func writeOutput(outputFile string, mode schema.OutputMode, render func(io.Writer) error) error {
	if outputFile == "" && (mode == schema.PNGOut || mode == schema.ParquetOut) && stdoutIsTerminal() {
		return fmt.Errorf("refusing to write %s to a terminal; use --output-file", mode)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	n, err := buf.WriteTo(file)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s (%s) to %s\n", successMessages[mode], formatBytes(n), outputFile)
	}
	return nil
}

// writeJSON encodes data with two-space indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes header followed by the rows emitted by writeRows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(cw); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// formatPixels renders a pixel offset with one decimal.
func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatBytes renders a byte count as B, KB or MB.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
