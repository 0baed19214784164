package outwriter

import (
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"strconv"

	"github.com/huangsam/anomalyplot/schema"
)

// pageTemplate lays the labels over the chart image. Label positions are
// relative to the chart's top-left corner.
var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"px":     func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "px" },
	// Markup escapes both fields before joining them.
	"markup": func(c schema.LabelContent) template.HTML { return template.HTML(c.Markup()) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}}{{else}}anomalyplot{{end}}</title>
<style>
body { font-family: sans-serif; }
.chart { position: relative; }
.chart img { display: block; }
.anomaly-label {
  position: absolute;
  box-sizing: border-box;
  padding: {{px .Metrics.Padding}};
  font: {{px .Metrics.FontSize}}/{{px .Metrics.LineHeight}} monospace;
  text-align: center;
  white-space: nowrap;
  overflow: hidden;
  background: rgba(255, 255, 255, 0.85);
  border: {{px .Metrics.Border}} solid #999;
}
</style>
</head>
<body>
{{- if .Title}}
<h1>{{.Title}}</h1>
{{- end}}
<div id="{{.ID}}" class="chart" style="width: {{px .Width}}; height: {{px .Height}};">
<img src="{{.ChartURL}}" width="{{.Width}}" height="{{.Height}}" alt="{{.Title}}">
{{- range .Labels}}
<div class="{{.Class}}" style="left: {{px .Left}}; top: {{px .Top}};{{if .Width}} width: {{px .Width}}; height: {{px .Height}};{{end}}">{{markup .Content}}</div>
{{- end}}
</div>
</body>
</html>
`))

// pageData is the view model for pageTemplate.
type pageData struct {
	Title    string
	ID       string
	Width    float64
	Height   float64
	ChartURL template.URL
	Labels   []schema.Label
	Metrics  labelMetrics
}

// labelMetrics sizes the label boxes the same way the label measurer does.
type labelMetrics struct {
	FontSize   float64
	LineHeight float64
	Padding    float64
	Border     float64
}

var defaultLabelMetrics = labelMetrics{
	FontSize:   schema.LabelFontSize,
	LineHeight: schema.LabelLineHeight,
	Padding:    schema.LabelPadding,
	Border:     schema.LabelBorder,
}

// writeHTMLPage writes a standalone page with the chart embedded as a data URI.
func writeHTMLPage(w io.Writer, result *schema.AnnotationResult) error {
	c := result.Container
	if c == nil || len(c.Chart) == 0 {
		return errors.New("no chart was rendered")
	}
	data := pageData{
		Title:    result.Title,
		ID:       c.ID,
		Width:    float64(c.Width),
		Height:   float64(c.Height),
		ChartURL: chartDataURL(c),
		Labels:   c.Labels,
		Metrics:  defaultLabelMetrics,
	}
	return pageTemplate.Execute(w, data)
}

// chartDataURL encodes the chart image as a base64 data URI.
func chartDataURL(c *schema.Container) template.URL {
	return template.URL("data:" + c.ContentType + ";base64," + base64.StdEncoding.EncodeToString(c.Chart))
}
