package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/anomalyplot/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []RenderRun {
	now := time.Now()
	end := now.Add(150 * time.Millisecond)
	duration := int32(150)
	params := `{"output":"html","width":1024}`
	return []RenderRun{
		{RunID: 1, StartTime: now, EndTime: &end, RunDurationMs: &duration, TotalLabels: 2, DatasetPath: "/data/bench.json", ConfigParams: &params},
		{RunID: 2, StartTime: now, DatasetPath: "/data/bench.yaml"},
	}
}

func TestRenderRunStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(RenderRun))
	require.NotNil(t, schema)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_labels",
		"dataset_path",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRenderLabelStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(RenderLabel))
	for _, colName := range []string{"run_id", "label_index", "x_value", "revision", "relative_change", "left_px", "top_px"} {
		_, ok := schema.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteRenderRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "render_runs.parquet")
	data := sampleRuns()

	require.NoError(t, WriteRenderRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[RenderRun](file)
	defer func() { _ = reader.Close() }()

	readData := make([]RenderRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)

	for i := range data {
		assert.Equal(t, data[i].RunID, readData[i].RunID)
		assert.Equal(t, data[i].TotalLabels, readData[i].TotalLabels)
		assert.Equal(t, data[i].DatasetPath, readData[i].DatasetPath)
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime)
		} else {
			require.NotNil(t, readData[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond)
		}
		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams)
		} else {
			require.NotNil(t, readData[i].ConfigParams)
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams)
		}
	}
}

func TestWriteRenderLabelsParquetEmpty(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "render_labels.parquet")
	require.NoError(t, WriteRenderLabelsParquet([]RenderLabel{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "footer is written even without rows")
}

func TestWriteRenderRunsParquetBadPath(t *testing.T) {
	err := WriteRenderRunsParquet(sampleRuns(), filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestWriteRowsToBuffer(t *testing.T) {
	rows := ConvertLabelRows([]schema.LabelRow{
		{Rank: 1, Severity: "Major", XValue: 2, Revision: "1020", RelativeChange: 0.16, Left: 10, Top: 20},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))

	reader := parquet.NewGenericReader[AnomalyLabel](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()

	readData := make([]AnomalyLabel, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, rows[0], readData[0])
}

func TestConvertRecords(t *testing.T) {
	now := time.Now()
	runs := ConvertRenderRunRecords([]schema.RenderRunRecord{{RunID: 7, StartTime: now, TotalLabels: 3, DatasetPath: "a.json"}})
	require.Len(t, runs, 1)
	assert.Equal(t, int64(7), runs[0].RunID)
	assert.Equal(t, int32(3), runs[0].TotalLabels)
	assert.Equal(t, "a.json", runs[0].DatasetPath)

	labels := ConvertRenderLabelRecords([]schema.RenderLabelRecord{{RunID: 7, LabelIndex: 1, XValue: 4, Revision: "1040", RelativeChange: -0.2, LeftPx: 1.5, TopPx: 2.5}})
	require.Len(t, labels, 1)
	assert.Equal(t, RenderLabel{RunID: 7, LabelIndex: 1, XValue: 4, Revision: "1040", RelativeChange: -0.2, LeftPx: 1.5, TopPx: 2.5}, labels[0])
}
