//go:build integration

// Package integration contains end-to-end tests that drive the anomalyplot binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
// Or use: make test-integration
package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type benchFile struct {
	Lookup    []float64 `json:"lookup"`
	Anomalies []struct {
		XValue         float64 `json:"x_value"`
		RelativeChange float64 `json:"relative_change"`
	} `json:"anomalies"`
}

var noHistory = []string{"ANOMALYPLOT_HISTORY_BACKEND=none"}

// TestLabelsVerification renders the sample dataset as CSV and checks every label
// against the revision lookup and relative change in the dataset itself.
func TestLabelsVerification(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", benchDataset))
	require.NoError(t, err)
	var bench benchFile
	require.NoError(t, json.Unmarshal(raw, &bench))

	out := filepath.Join(t.TempDir(), "labels.csv")
	_, err = runCommand(t, noHistory, "render", benchDataset, "--output", "csv", "--output-file", out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(bench.Anomalies)+1, "header plus one row per anomaly")

	header := records[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q missing from %v", name, header)
		return -1
	}
	revCol, pctCol := col("revision"), col("percent")

	for i, a := range bench.Anomalies {
		row := records[i+1]
		wantRev := strconv.FormatFloat(bench.Lookup[int(a.XValue)], 'f', -1, 64)
		assert.Equal(t, wantRev, row[revCol])
		assert.Equal(t, strconv.FormatFloat(a.RelativeChange*100, 'f', 2, 64), row[pctCol])
	}
}

// TestRenderFormats renders every image format and checks the file signature.
func TestRenderFormats(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"svg":  "<svg",
		"png":  "\x89PNG",
		"html": "<!DOCTYPE html>",
	}
	for format, prefix := range cases {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(dir, "bench."+format)
			_, err := runCommand(t, noHistory, "render", benchDataset, "--output", format, "--output-file", out)
			require.NoError(t, err)

			raw, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Contains(t, string(raw[:min(len(raw), 512)]), prefix)
		})
	}
}

// TestRevisionOverride checks that --revision changes the marker.
func TestRevisionOverride(t *testing.T) {
	out, err := runCommand(t, noHistory, "render", benchDataset, "--output", "json", "--revision", "1039")
	require.NoError(t, err)

	start := strings.Index(out, "{")
	require.GreaterOrEqual(t, start, 0, "json on stdout")
	var result struct {
		MarkerIndex *int `json:"marker_index"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(out[start:])).Decode(&result))
	require.NotNil(t, result.MarkerIndex)
	assert.Equal(t, 4, *result.MarkerIndex)
}

// TestInvalidInputs checks that bad flags fail before rendering.
func TestInvalidInputs(t *testing.T) {
	_, err := runCommand(t, noHistory, "render", benchDataset, "--revision", "abc")
	assert.Error(t, err)

	_, err = runCommand(t, noHistory, "render", "examples/missing.json")
	assert.Error(t, err)

	_, err = runCommand(t, noHistory, "render", benchDataset, "--output", "parquet")
	assert.Error(t, err, "parquet needs --output-file")
}
