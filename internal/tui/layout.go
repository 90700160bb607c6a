package tui

import (
	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/viewsync"
)

// Rect is a screen rectangle in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Layout splits the screen into the selector row, the map and chart panes,
// and the legend and status rows.
type Layout struct {
	Width, Height int

	Header Rect
	Map    Rect
	Chart  Rect
	Legend Rect
	Status Rect
}

const (
	axisWidth = 8 // tick labels plus the axis line
	minChart  = 24
)

// NewLayout computes the panes for a w×h screen.
func NewLayout(w, h int) Layout {
	l := Layout{Width: w, Height: h}
	l.Header = Rect{X: 0, Y: 0, W: w, H: 1}
	body := max(h-3, 0)
	l.Legend = Rect{X: 0, Y: 1 + body, W: w, H: 1}
	l.Status = Rect{X: 0, Y: 2 + body, W: w, H: 1}

	chartW := max(w*2/5, min(minChart, w))
	mapW := max(w-chartW-1, 0)
	l.Map = Rect{X: 0, Y: 1, W: mapW, H: body}
	l.Chart = Rect{X: mapW + 1, Y: 1, W: max(w-mapW-1, 0), H: body}
	return l
}

// ChartFrame lays the bar chart out in the chart pane's own cell
// coordinates: a title row, a blank row, then the plot over a baseline row.
func (l Layout) ChartFrame(bars int) viewsync.ChartFrame {
	f := viewsync.ChartFrame{
		Width:  float64(l.Chart.W),
		Height: float64(l.Chart.H),
		Left:   axisWidth,
		Right:  1,
		Top:    2,
		Bottom: 1,
	}
	if bars > 0 && f.PlotWidth()/float64(bars) >= 2 {
		f.BarGap = 1
	}
	return f
}

// CellPlacement positions the floating label in screen cells.
func CellPlacement() domain.LabelPlacement {
	return domain.LabelPlacement{OffsetX: 2, Rise: 7, Drop: 2, EdgeMargin: 1}
}
