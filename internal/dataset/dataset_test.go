package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/anomalyplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    schema.DatasetFormat
		wantErr bool
	}{
		{"bench.json", schema.JSONFormat, false},
		{"bench.JSON", schema.JSONFormat, false},
		{"bench.yaml", schema.YAMLFormat, false},
		{"bench.yml", schema.YAMLFormat, false},
		{"bench.csv", "", true},
		{"bench", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatForPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFormatsAgree(t *testing.T) {
	fromJSON, err := Load(filepath.Join("testdata", "bench.json"))
	require.NoError(t, err)
	fromYAML, err := Load(filepath.Join("testdata", "bench.yaml"))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)

	assert.Equal(t, "page_load", fromJSON.Title)
	require.Len(t, fromJSON.Data, 2)
	assert.Len(t, fromJSON.Data[0].Data, 5)
	assert.True(t, fromJSON.Data[1].Points)
	assert.Equal(t, schema.RevisionLookup{1000, 1010, 1020, 1030, 1040}, fromJSON.Lookup)
	assert.Equal(t, schema.Anomaly{XValue: 4, RelativeChange: -0.1833}, fromJSON.Anomalies[1])
	require.NotNil(t, fromJSON.Revision)
	assert.Equal(t, 1021.0, *fromJSON.Revision)

	assert.NoError(t, Validate(fromJSON))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.ErrorContains(t, err, "failed to open dataset")

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": [[[1]]]}`), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to decode bad.json")
}

func TestDecodeUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"lookp": [1]}`), schema.JSONFormat)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("lookp: [1]\n"), schema.YAMLFormat)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("{}"), schema.DatasetFormat("toml"))
	assert.Error(t, err)
}

func TestDecodeEmptyYAML(t *testing.T) {
	ds, err := Decode(strings.NewReader(""), schema.YAMLFormat)
	require.NoError(t, err)
	assert.Empty(t, ds.Data)
}

func TestValidate(t *testing.T) {
	valid := func() *schema.Dataset {
		return &schema.Dataset{
			Data: schema.SeriesData{
				{Data: []schema.Point{{X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 3}}},
				{Data: []schema.Point{{X: 1, Y: 2}}},
			},
			Lookup:    schema.RevisionLookup{10, 20, 30},
			Anomalies: []schema.Anomaly{{XValue: 1, RelativeChange: 0.1}},
		}
	}

	tests := []struct {
		name    string
		modify  func(*schema.Dataset)
		wantErr string
	}{
		{"valid", func(*schema.Dataset) {}, ""},
		{"no data", func(ds *schema.Dataset) { ds.Data = nil; ds.Anomalies = nil }, "no series data"},
		{"empty lookup", func(ds *schema.Dataset) { ds.Lookup = nil }, "empty revision lookup"},
		{"short lookup", func(ds *schema.Dataset) { ds.Lookup = ds.Lookup[:2] }, "lookup has 2 revisions"},
		{"missing anomaly", func(ds *schema.Dataset) { ds.Anomalies = nil }, "1 anomaly points but 0 anomalies"},
		{"anomaly outside lookup", func(ds *schema.Dataset) {
			ds.Anomalies[0].XValue = 9
		}, "x_value 9 outside lookup"},
		{"anomaly out of step", func(ds *schema.Dataset) {
			ds.Anomalies[0].XValue = 2
		}, "does not match point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := valid()
			tt.modify(ds)
			err := Validate(ds)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
