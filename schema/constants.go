package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for render history.
	DatabaseBackend string

	// DatasetFormat represents the encoding of a dataset file.
	DatasetFormat string
)

// All output modes supported.
const (
	HTMLOut    OutputMode = "html" // default
	SVGOut     OutputMode = "svg"
	PNGOut     OutputMode = "png"
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All dataset formats supported.
const (
	JSONFormat DatasetFormat = "json"
	YAMLFormat DatasetFormat = "yaml"
)

// Presentation constants for the revision marker and anomaly labels.
const (
	MarkerColor     = "#0000ff"
	MarkerLineWidth = 2.0

	LabelClass = "anomaly-label"

	// Label box metrics shared by the page CSS and the label measurer.
	// The box uses border-box sizing, so its size includes padding and border.
	LabelFontSize   = 12.0
	LabelCharWidth  = 0.6 * LabelFontSize // advance of common monospace faces
	LabelLineHeight = 14.0
	LabelPadding    = 2.0
	LabelBorder     = 1.0

	// LabelGap keeps labels clear of the y-axis tick labels.
	LabelGap = 6.0

	// Alternating vertical offsets reduce overlap between adjacent labels.
	EvenLabelOffset = 20.0
	OddLabelOffset  = -50.0
)

// Default chart dimensions in pixels.
const (
	DefaultChartWidth  = 1024
	DefaultChartHeight = 400
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	HTMLOut:    {},
	SVGOut:     {},
	PNGOut:     {},
	JSONOut:    {},
	CSVOut:     {},
	TextOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// IsImage reports whether the mode writes the bare chart image.
func (m OutputMode) IsImage() bool {
	return m == SVGOut || m == PNGOut
}
