// Package dataset reads dataset files and checks them for consistency.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/anomalyplot/schema"
	"gopkg.in/yaml.v3"
)

// FormatForPath picks the dataset format from a file extension.
func FormatForPath(path string) (schema.DatasetFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return schema.JSONFormat, nil
	case ".yaml", ".yml":
		return schema.YAMLFormat, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (expected .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads the dataset at path.
func Load(path string) (*schema.Dataset, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return ds, nil
}

// Decode reads a dataset in the given format from r.
func Decode(r io.Reader, format schema.DatasetFormat) (*schema.Dataset, error) {
	var ds schema.Dataset
	switch format {
	case schema.JSONFormat:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ds); err != nil {
			return nil, err
		}
	case schema.YAMLFormat:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown dataset format %q", format)
	}
	return &ds, nil
}

// Validate reports every way ds breaks the dataset invariants:
// all x values and anomaly indexes fall inside the lookup, and anomalies
// line up one-to-one with the anomaly-points series.
func Validate(ds *schema.Dataset) error {
	var errs []error

	if len(ds.Data) == 0 {
		errs = append(errs, errors.New("no series data"))
	}
	if len(ds.Lookup) == 0 {
		errs = append(errs, errors.New("empty revision lookup"))
	}

	if maxX, ok := ds.Data.MaxX(); ok && len(ds.Lookup) > 0 && int(maxX) >= len(ds.Lookup) {
		errs = append(errs, fmt.Errorf("series references x=%v but lookup has %d revisions", maxX, len(ds.Lookup)))
	}

	points := ds.Data.AnomalyPoints()
	if len(points) != len(ds.Anomalies) {
		errs = append(errs, fmt.Errorf("%d anomaly points but %d anomalies", len(points), len(ds.Anomalies)))
	}
	for i, a := range ds.Anomalies {
		if _, ok := ds.Lookup.At(a.XValue); !ok {
			errs = append(errs, fmt.Errorf("anomaly %d: x_value %d outside lookup", i, a.XValue))
		}
		if i < len(points) && int(points[i].X) != a.XValue {
			errs = append(errs, fmt.Errorf("anomaly %d: x_value %d does not match point x=%v", i, a.XValue, points[i].X))
		}
	}

	return errors.Join(errs...)
}
