// Package chart builds the cluster bar chart as a Plotly figure and renders it to PNG.
package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hyperjump/clusterboard/internal/config"
	"github.com/hyperjump/clusterboard/internal/models"
)

// Figure is a Plotly figure holding a single bar trace.
// Values are treated as immutable: derive new figures with WithMarkerColors.
type Figure struct {
	Data   []BarTrace `json:"data"`
	Layout Layout     `json:"layout"`
}

// BarTrace is a Plotly bar trace.
type BarTrace struct {
	Type         string   `json:"type"`
	X            []int    `json:"x"`
	Y            []int    `json:"y"`
	Text         []string `json:"text"`
	TextPosition string   `json:"textposition"`
	Marker       Marker   `json:"marker"`
}

// Marker carries per-bar colors.
type Marker struct {
	Color ColorVector `json:"color"`
}

// Layout is the subset of Plotly layout options the dashboard uses.
type Layout struct {
	Title        Text   `json:"title"`
	Height       int    `json:"height"`
	PaperBgColor string `json:"paper_bgcolor"`
	PlotBgColor  string `json:"plot_bgcolor"`
	HoverMode    string `json:"hovermode"`
	Font         Font   `json:"font"`
	XAxis        Axis   `json:"xaxis"`
	YAxis        Axis   `json:"yaxis"`
}

// Text is a Plotly title object.
type Text struct {
	Text string `json:"text"`
}

// Font is a Plotly font object.
type Font struct {
	Family string `json:"family"`
}

// Axis is a Plotly axis object.
type Axis struct {
	Title          Text      `json:"title"`
	TickMode       string    `json:"tickmode,omitempty"`
	ShowGrid       bool      `json:"showgrid"`
	ShowTickLabels bool      `json:"showticklabels"`
	Range          []float64 `json:"range,omitempty"`
}

// Style is the chart appearance.
type Style struct {
	DefaultColor   string
	HighlightColor string
	Title          string
	XTitle         string
	YTitle         string
	Height         int
	YMin           float64
	YMax           float64
	Background     string
	FontFamily     string
}

// StyleFromConfig converts the chart config section to a Style.
func StyleFromConfig(cfg *config.ChartConfig) Style {
	return Style{
		DefaultColor:   cfg.DefaultColor,
		HighlightColor: cfg.HighlightColor,
		Title:          cfg.Title,
		XTitle:         cfg.XTitle,
		YTitle:         cfg.YTitle,
		Height:         cfg.Height,
		YMin:           cfg.YMin,
		YMax:           cfg.YMax,
		Background:     cfg.Background,
		FontFamily:     cfg.FontFamily,
	}
}

// DefaultSelection is the cluster highlighted before any click.
const DefaultSelection = 1

// NewFigure builds the initial chart for table: one bar per cluster, labelled with its count,
// with DefaultSelection highlighted.
func NewFigure(table *models.ClusterCountTable, style Style) (Figure, error) {
	k := table.K()
	if k == 0 {
		return Figure{}, fmt.Errorf("cannot chart an empty cluster table")
	}
	colors, err := NewColorVector(k, DefaultSelection, style.DefaultColor, style.HighlightColor)
	if err != nil {
		return Figure{}, err
	}
	trace := BarTrace{
		Type:         "bar",
		X:            make([]int, k),
		Y:            make([]int, k),
		Text:         make([]string, k),
		TextPosition: "outside",
		Marker:       Marker{Color: colors},
	}
	maxCount := 0
	for i, cc := range table.Counts() {
		trace.X[i] = cc.Cluster
		trace.Y[i] = cc.Count
		trace.Text[i] = strconv.Itoa(cc.Count)
		if cc.Count > maxCount {
			maxCount = cc.Count
		}
	}
	return Figure{
		Data: []BarTrace{trace},
		Layout: Layout{
			Title:        Text{Text: style.Title},
			Height:       style.Height,
			PaperBgColor: style.Background,
			PlotBgColor:  style.Background,
			HoverMode:    "x",
			Font:         Font{Family: style.FontFamily},
			XAxis:        Axis{Title: Text{Text: style.XTitle}, TickMode: "linear", ShowTickLabels: true},
			YAxis: Axis{
				Title: Text{Text: style.YTitle},
				Range: []float64{style.YMin, yMax(style, maxCount)},
			},
		},
	}, nil
}

// yMax leaves headroom above the tallest bar for its outside label.
func yMax(style Style, maxCount int) float64 {
	if style.YMax != 0 {
		return style.YMax
	}
	top := math.Ceil(float64(maxCount) * 1.15)
	if top <= style.YMin {
		top = style.YMin + 1
	}
	return top
}

// K returns the number of bars.
func (f Figure) K() int {
	if len(f.Data) == 0 {
		return 0
	}
	return len(f.Data[0].X)
}

// MarkerColors returns the bar colors of the figure.
func (f Figure) MarkerColors() ColorVector {
	if len(f.Data) == 0 {
		return nil
	}
	return f.Data[0].Marker.Color
}

// WithMarkerColors returns a copy of f whose bar colors are colors. Positions, values,
// labels and layout are shared with f, not recomputed.
func (f Figure) WithMarkerColors(colors ColorVector) (Figure, error) {
	if len(f.Data) == 0 {
		return Figure{}, fmt.Errorf("figure has no bar trace")
	}
	if len(colors) != f.K() {
		return Figure{}, fmt.Errorf("color vector has %d entries, figure has %d bars", len(colors), f.K())
	}
	data := make([]BarTrace, len(f.Data))
	copy(data, f.Data)
	data[0].Marker = Marker{Color: append(ColorVector(nil), colors...)}
	f.Data = data
	return f, nil
}
