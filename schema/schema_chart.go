package schema

// TickFormatter maps a plot-space x coordinate to an axis display value.
// An empty string displays nothing.
type TickFormatter func(raw float64) string

// AxisSpan is a from/to range in plot-space units.
type AxisSpan struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// Marking is a highlighted region of the plot grid. A marking whose From
// equals To is drawn as a vertical line.
type Marking struct {
	XAxis     AxisSpan `json:"xaxis"`
	Color     string   `json:"color"`
	LineWidth float64  `json:"lineWidth"`
}

// GridOptions holds grid decorations.
type GridOptions struct {
	Markings []Marking `json:"markings"`
}

// XAxisOptions configures the x axis.
type XAxisOptions struct {
	TickFormatter TickFormatter `json:"-"`
}

// ChartConfig is handed to the plot renderer along with the series data.
type ChartConfig struct {
	Title  string       `json:"title,omitempty"`
	Width  int          `json:"width"`
	Height int          `json:"height"`
	XAxis  XAxisOptions `json:"xaxis"`
	Grid   *GridOptions `json:"grid,omitempty"`
}
