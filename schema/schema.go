// Package schema has models, constants and helpers shared by all parts of anomalyplot.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnomalySeriesIndex is the position of the anomaly-points series within SeriesData.
const AnomalySeriesIndex = 1

// Point is a plot-space (x, y) pair. X is an index into the RevisionLookup,
// not a revision number itself.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON writes the point as a two-element array.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON reads a two-element [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("point must be an [x, y] array: %w", err)
	}
	return p.fromPair(pair)
}

// UnmarshalYAML reads a two-element [x, y] sequence.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var pair []float64
	if err := value.Decode(&pair); err != nil {
		return fmt.Errorf("point must be an [x, y] sequence: %w", err)
	}
	return p.fromPair(pair)
}

func (p *Point) fromPair(pair []float64) error {
	if len(pair) != 2 {
		return fmt.Errorf("point must have exactly 2 values, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// Series is a single plotted series. In dataset files it may be written
// either as a bare array of [x, y] pairs or as an object with options.
type Series struct {
	Label  string  `json:"label,omitempty" yaml:"label,omitempty"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`   // hex color, e.g. "#ff0000"
	Points bool    `json:"points,omitempty" yaml:"points,omitempty"` // draw markers only, no connecting line
	Data   []Point `json:"data" yaml:"data"`
}

// seriesOptions avoids recursion when decoding the object form.
type seriesOptions Series

// UnmarshalJSON accepts both the bare-array and the object form.
func (s *Series) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pts []Point
		if err := json.Unmarshal(trimmed, &pts); err != nil {
			return err
		}
		*s = Series{Data: pts}
		return nil
	}
	var opts seriesOptions
	if err := json.Unmarshal(trimmed, &opts); err != nil {
		return err
	}
	*s = Series(opts)
	return nil
}

// UnmarshalYAML accepts both the bare-sequence and the mapping form.
func (s *Series) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var pts []Point
		if err := value.Decode(&pts); err != nil {
			return err
		}
		*s = Series{Data: pts}
		return nil
	}
	var opts seriesOptions
	if err := value.Decode(&opts); err != nil {
		return err
	}
	*s = Series(opts)
	return nil
}

// SeriesData is the ordered list of plotted series.
type SeriesData []Series

// AnomalyPoints returns the anomaly-points series, or nil when the data has none.
func (d SeriesData) AnomalyPoints() []Point {
	if len(d) <= AnomalySeriesIndex {
		return nil
	}
	return d[AnomalySeriesIndex].Data
}

// MaxX returns the largest x value across all series, and false if there are no points.
func (d SeriesData) MaxX() (float64, bool) {
	found := false
	var maxX float64
	for _, s := range d {
		for _, p := range s.Data {
			if !found || p.X > maxX {
				maxX = p.X
				found = true
			}
		}
	}
	return maxX, found
}

// RevisionLookup maps x-indexes to revision numbers.
type RevisionLookup []float64

// At returns the revision at index i, and false when i is out of range.
func (l RevisionLookup) At(i int) (float64, bool) {
	if i < 0 || i >= len(l) {
		return 0, false
	}
	return l[i], true
}

// Anomaly is a flagged data point with its relative change.
type Anomaly struct {
	XValue         int     `json:"x_value" yaml:"x_value"`                 // index into RevisionLookup
	RelativeChange float64 `json:"relative_change" yaml:"relative_change"` // fractional, 0.05 = 5%
}

// Dataset bundles everything a chart render reads. It is loaded once per
// render and never mutated.
type Dataset struct {
	Title     string         `json:"title,omitempty" yaml:"title,omitempty"`
	Data      SeriesData     `json:"data" yaml:"data"`
	Lookup    RevisionLookup `json:"lookup" yaml:"lookup"`
	Anomalies []Anomaly      `json:"anomalies" yaml:"anomalies"`
	Revision  *float64       `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// TargetRevision returns the revision to mark, treating nil and zero as absent.
func (d *Dataset) TargetRevision() (float64, bool) {
	if d.Revision == nil || *d.Revision == 0 {
		return 0, false
	}
	return *d.Revision, true
}
