package chart

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	barWidth    = 30
	barSpacing  = 12
	minWidth    = 640
	sideMargins = 120
)

// RenderPNG draws f as a PNG bar chart. It is the server-side twin of the Plotly figure
// and uses the same colors, values and y range.
func RenderPNG(w io.Writer, f Figure) error {
	if len(f.Data) == 0 || f.K() == 0 {
		return fmt.Errorf("figure has no bars to render")
	}
	trace := f.Data[0]
	if len(trace.Y) != len(trace.X) || len(trace.Marker.Color) != len(trace.X) {
		return fmt.Errorf("figure trace is inconsistent: %d x, %d y, %d colors",
			len(trace.X), len(trace.Y), len(trace.Marker.Color))
	}

	bars := make([]gochart.Value, len(trace.X))
	for i := range trace.X {
		c := hexColor(trace.Marker.Color[i])
		bars[i] = gochart.Value{
			Value: float64(trace.Y[i]),
			Label: strconv.Itoa(trace.X[i]),
			Style: gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}

	yRange := &gochart.ContinuousRange{Min: 0, Max: 1}
	if r := f.Layout.YAxis.Range; len(r) == 2 && r[1] > r[0] {
		yRange = &gochart.ContinuousRange{Min: r[0], Max: r[1]}
	}
	bg := hexColor(f.Layout.PaperBgColor)
	height := f.Layout.Height
	if height <= 0 {
		height = 400
	}
	width := len(bars)*(barWidth+barSpacing) + sideMargins
	if width < minWidth {
		width = minWidth
	}

	graph := gochart.BarChart{
		Title:      plainTitle(f.Layout.Title.Text),
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{FillColor: bg, Padding: gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20}},
		Canvas:     gochart.Style{FillColor: bg},
		XAxis:      gochart.Style{StrokeWidth: 1},
		YAxis: gochart.YAxis{
			Style: gochart.Style{StrokeWidth: 1},
			Range: yRange,
		},
		Bars: bars,
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// plainTitle drops the HTML line breaks Plotly titles use.
func plainTitle(s string) string {
	s = strings.ReplaceAll(s, "<br>", " ")
	return strings.Join(strings.Fields(s), " ")
}

// hexColor parses #rgb or #rrggbb; anything else renders white.
func hexColor(s string) drawing.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 3 && len(s) != 6 {
		return drawing.ColorWhite
	}
	return drawing.ColorFromHex(s)
}
