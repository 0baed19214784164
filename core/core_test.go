package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/iocache"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const benchDataset = "../internal/dataset/testdata/bench.json"

func benchConfig(t *testing.T, output schema.OutputMode) *contract.Config {
	t.Helper()
	path, err := filepath.Abs(benchDataset)
	require.NoError(t, err)
	return &contract.Config{
		DatasetPath:    path,
		Output:         output,
		Width:          640,
		Height:         320,
		HistoryBackend: schema.NoneBackend,
	}
}

func loadBench(t *testing.T, cfg *contract.Config) *schema.Dataset {
	t.Helper()
	ds, err := LoadDataset(cfg)
	require.NoError(t, err)
	return ds
}

// TestBuildAnnotation checks the full pipeline against the real plotter.
func TestBuildAnnotation(t *testing.T) {
	cfg := benchConfig(t, schema.SVGOut)
	ds := loadBench(t, cfg)

	result, err := BuildAnnotation(cfg, ds)
	require.NoError(t, err)

	assert.Equal(t, "page_load", result.Title, "falls back to the dataset title")
	require.NotNil(t, result.Revision)
	assert.Equal(t, 1021.0, *result.Revision)
	require.NotNil(t, result.MarkerIndex)
	assert.Equal(t, 2, *result.MarkerIndex, "1021 is closest to 1020")

	c := result.Container
	assert.Equal(t, ContainerID, c.ID)
	assert.Equal(t, "image/svg+xml", c.ContentType)
	assert.Contains(t, string(c.Chart), "<svg")

	require.Len(t, c.Labels, 2)
	assert.Equal(t, "1020", c.Labels[0].Content.Revision)
	assert.Equal(t, "16.21", c.Labels[0].Content.Percent)
	assert.Equal(t, "1040", c.Labels[1].Content.Revision)
	assert.Equal(t, "-18.33", c.Labels[1].Content.Percent)
	assert.Greater(t, c.Labels[1].Left, c.Labels[0].Left, "labels follow their points left to right")
	for _, l := range c.Labels {
		assert.Equal(t, schema.LabelClass, l.Class)
		assert.Positive(t, l.Width)
		assert.Positive(t, l.Height)
	}

	format := result.Config.XAxis.TickFormatter
	require.NotNil(t, format)
	assert.Equal(t, "1000", format(0))
	assert.Equal(t, "", format(5), "past the lookup without clamping")
}

func TestBuildAnnotation_Overrides(t *testing.T) {
	cfg := benchConfig(t, schema.PNGOut)
	cfg.Title = "custom"
	cfg.Revision = revPtr(1039)
	cfg.ClampUpper = true
	ds := loadBench(t, cfg)

	result, err := BuildAnnotation(cfg, ds)
	require.NoError(t, err)

	assert.Equal(t, "custom", result.Title)
	require.NotNil(t, result.MarkerIndex)
	assert.Equal(t, 4, *result.MarkerIndex)
	assert.Equal(t, "image/png", result.Container.ContentType)
	assert.Equal(t, []byte("\x89PNG"), result.Container.Chart[:4])
	assert.Equal(t, "1040", result.Config.XAxis.TickFormatter(9))

	// The loaded dataset is left as it was
	require.NotNil(t, ds.Revision)
	assert.Equal(t, 1021.0, *ds.Revision)
}

func TestBuildAnnotation_NoRevision(t *testing.T) {
	cfg := benchConfig(t, schema.SVGOut)
	ds := loadBench(t, cfg)
	ds.Revision = nil

	result, err := BuildAnnotation(cfg, ds)
	require.NoError(t, err)
	assert.Nil(t, result.Revision)
	assert.Nil(t, result.MarkerIndex)
	assert.Nil(t, result.Config.Grid)
}

func TestBuildAnnotation_Mismatch(t *testing.T) {
	cfg := benchConfig(t, schema.SVGOut)
	ds := loadBench(t, cfg)
	ds.Anomalies = ds.Anomalies[:1]

	_, err := BuildAnnotation(cfg, ds)
	assert.ErrorIs(t, err, ErrAnomalyMismatch)
}

func TestLoadDataset(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.json")
	content := `{
		"data": [[[0, 1], [1, 2]], [[1, 2]]],
		"lookup": [10, 20],
		"anomalies": []
	}`
	require.NoError(t, os.WriteFile(broken, []byte(content), 0o644))

	t.Run("lenient returns dataset", func(t *testing.T) {
		ds, err := LoadDataset(&contract.Config{DatasetPath: broken})
		require.NoError(t, err)
		assert.Len(t, ds.Data, 2)
	})

	t.Run("strict rejects dataset", func(t *testing.T) {
		_, err := LoadDataset(&contract.Config{DatasetPath: broken, Strict: true})
		assert.ErrorContains(t, err, "invalid dataset")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDataset(&contract.Config{DatasetPath: filepath.Join(t.TempDir(), "nope.json")})
		assert.Error(t, err)
	})
}

// TestExecuteRender tests the main render entry point with history tracking.
func TestExecuteRender(t *testing.T) {
	cfg := benchConfig(t, schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "annotation.json")

	store := &iocache.MockHistoryStore{}
	store.On("BeginRender", mock.Anything, cfg.DatasetPath, cfg.Params()).Return(int64(7), nil)
	store.On("RecordLabels", int64(7), mock.MatchedBy(func(l []schema.Label) bool { return len(l) == 2 })).Return(nil)
	store.On("EndRender", int64(7), mock.Anything, 2).Return(nil)

	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	require.NoError(t, ExecuteRender(context.Background(), cfg, mgr))
	mgr.AssertExpectations(t)
	store.AssertExpectations(t)

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var got schema.AnnotationResult
	require.NoError(t, json.Unmarshal(raw, &got))
	require.NotNil(t, got.Container)
	assert.Len(t, got.Container.Labels, 2)
	require.NotNil(t, got.MarkerIndex)
	assert.Equal(t, 2, *got.MarkerIndex)
}

func TestAnnotateDataset_FailureClosesRun(t *testing.T) {
	cfg := benchConfig(t, schema.SVGOut)
	ds := loadBench(t, cfg)
	ds.Anomalies = ds.Anomalies[:1]

	store := &iocache.MockHistoryStore{}
	store.On("BeginRender", mock.Anything, cfg.DatasetPath, cfg.Params()).Return(int64(9), nil)
	store.On("EndRender", int64(9), mock.Anything, 0).Return(nil)

	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	_, err := AnnotateDataset(context.Background(), cfg, ds, mgr)
	assert.ErrorIs(t, err, ErrAnomalyMismatch)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "RecordLabels", mock.Anything, mock.Anything)
}

func TestExecuteRender_NoHistory(t *testing.T) {
	cfg := benchConfig(t, schema.CSVOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "labels.csv")

	mgr := &iocache.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(nil)

	require.NoError(t, ExecuteRender(context.Background(), cfg, mgr))
	mgr.AssertExpectations(t)

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "1020")
}

func TestExecuteRender_Canceled(t *testing.T) {
	cfg := benchConfig(t, schema.JSONOut)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mgr := &iocache.MockHistoryManager{}
	err := ExecuteRender(ctx, cfg, mgr)
	assert.ErrorIs(t, err, context.Canceled)
	mgr.AssertNotCalled(t, "GetHistoryStore")
}
