package viewsync

import "github.com/couchcryptid/artcc-atlas/internal/domain"

// Renderer is the drawing surface the coordinator drives. Implementations own
// the actual primitives; every call replaces what the previous call drew.
type Renderer interface {
	RenderRegions(fills []RegionFill)
	RenderBars(bars []BarGeometry)
	RenderAxis(axis AxisFrame)
	RenderTitle(title string)
	// RenderOutlines restyles already drawn elements.
	RenderOutlines(changed []domain.StyledElement)

	ShowLabel(label domain.Label, at domain.Point)
	MoveLabel(at domain.Point)
	HideLabel()

	// LabelSize measures the label as it would be shown.
	LabelSize(label domain.Label) domain.Size
	// Viewport is the size of the area the label must stay inside.
	Viewport() domain.Size
}

// RegionFill is the choropleth state of one region.
type RegionFill struct {
	Key     string
	Value   float64
	Class   domain.Class
	Color   string
	Outline domain.Outline
}

// BarGeometry is the placement of one bar in chart coordinates (y down).
type BarGeometry struct {
	Key         string
	DisplayName string
	Rank        int
	Value       float64
	Class       domain.Class
	Color       string
	Outline     domain.Outline
	X, Y        float64
	Width       float64
	Height      float64
}

// Tick is one labelled value on the axis and its chart y coordinate.
type Tick struct {
	Value float64
	Y     float64
}

// AxisFrame is the value axis of the bar chart.
type AxisFrame struct {
	Range  domain.AxisRange
	Ticks  []Tick
	X      float64 // chart x of the axis line
	Top    float64
	Bottom float64
}

// ChartFrame is the bar chart layout: outer size and inner margins.
type ChartFrame struct {
	Width  float64
	Height float64
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
	BarGap float64
}

// PlotWidth is the horizontal room left for bars.
func (f ChartFrame) PlotWidth() float64 { return f.Width - f.Left - f.Right }

// PlotHeight is the vertical extent bar heights are scaled to.
func (f ChartFrame) PlotHeight() float64 { return f.Height - f.Top - f.Bottom }

// DefaultChartFrame is a 600x460 pixel chart with room for axis labels.
func DefaultChartFrame() ChartFrame {
	return ChartFrame{Width: 600, Height: 460, Left: 40, Right: 2, Top: 5, Bottom: 5, BarGap: 1}
}

// LayoutBars positions bars left to right in the given order. Heights come
// from the axis range; missing values get zero height.
func LayoutBars(frame ChartFrame, axis domain.AxisRange, bars []BarGeometry) {
	n := float64(len(bars))
	if n == 0 {
		return
	}
	slot := frame.PlotWidth() / n
	width := slot - frame.BarGap
	if width < 0 {
		width = 0
	}
	extent := frame.PlotHeight()
	for i := range bars {
		h := axis.Scale(bars[i].Value, extent)
		bars[i].Rank = i
		bars[i].X = float64(i)*slot + frame.Left
		bars[i].Width = width
		bars[i].Height = h
		bars[i].Y = frame.Top + extent - h
	}
}

// LayoutAxis places the ticks of r along the chart's left margin.
func LayoutAxis(frame ChartFrame, r domain.AxisRange, tickCount int) AxisFrame {
	extent := frame.PlotHeight()
	af := AxisFrame{Range: r, X: frame.Left, Top: frame.Top, Bottom: frame.Top + extent}
	for _, v := range r.Ticks(tickCount) {
		af.Ticks = append(af.Ticks, Tick{Value: v, Y: frame.Top + extent - r.Scale(v, extent)})
	}
	return af
}
