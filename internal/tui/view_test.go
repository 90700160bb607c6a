package tui

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/viewsync"
)

func TestView_LabelSize(t *testing.T) {
	v := NewView(80, 24)

	size := v.LabelSize(domain.Label{Key: "ZNY", DisplayName: "New York", Attribute: "% of Flights Delayed", Value: 21.5})

	assert.Equal(t, domain.Size{W: 24, H: 6}, size)
	assert.Equal(t, domain.Size{W: 80, H: 24}, v.Viewport())
}

func TestView_LabelFallsBackToKey(t *testing.T) {
	lines := labelLines(domain.Label{Key: "ZXX", Attribute: "A", Value: math.NaN()})
	assert.Equal(t, []string{"No data", "A", "ZXX", "click for details"}, lines)

	lines = labelLines(domain.Label{Key: "ZNY", DisplayName: "New York", Attribute: "A", Value: 0})
	assert.Equal(t, []string{"0", "A", "New York (ZNY)", "click for details"}, lines)
}

func TestView_RenderOutlines(t *testing.T) {
	v := NewView(80, 24)
	v.RenderRegions([]viewsync.RegionFill{{Key: "ZAU", Color: "#f0f9e8", Outline: domain.DefaultRegionOutline}})
	v.RenderBars([]viewsync.BarGeometry{{Key: "ZAU", Outline: domain.DefaultBarOutline}})

	v.RenderOutlines([]domain.StyledElement{
		{Kind: domain.ElementRegion, Key: "ZAU", Outline: domain.DefaultHoverOutline},
		{Kind: domain.ElementBar, Key: "ZAU", Outline: domain.DefaultHoverOutline},
	})

	assert.Equal(t, domain.DefaultHoverOutline, v.Outline(domain.ElementRegion, "ZAU"))
	assert.Equal(t, domain.DefaultHoverOutline, v.Outline(domain.ElementBar, "ZAU"))
	f, ok := v.Fill("ZAU")
	assert.True(t, ok)
	assert.Equal(t, "#f0f9e8", f.Color)
}

func TestView_LabelLifecycle(t *testing.T) {
	v := NewView(80, 24)
	l := domain.Label{Key: "ZAU"}

	v.ShowLabel(l, domain.Point{X: 3, Y: 4})
	v.MoveLabel(domain.Point{X: 5, Y: 6})
	got, at, shown := v.Label()
	assert.True(t, shown)
	assert.Equal(t, l, got)
	assert.Equal(t, domain.Point{X: 5, Y: 6}, at)

	v.HideLabel()
	_, _, shown = v.Label()
	assert.False(t, shown)
}

func TestLayout(t *testing.T) {
	l := NewLayout(100, 30)

	assert.Equal(t, Rect{X: 0, Y: 1, W: 59, H: 27}, l.Map)
	assert.Equal(t, Rect{X: 60, Y: 1, W: 40, H: 27}, l.Chart)
	assert.Equal(t, 28, l.Legend.Y)
	assert.Equal(t, 29, l.Status.Y)

	f := l.ChartFrame(2)
	assert.Equal(t, 31.0, f.PlotWidth())
	assert.Equal(t, 24.0, f.PlotHeight())
	assert.Equal(t, 1.0, f.BarGap)
	assert.Equal(t, 0.0, l.ChartFrame(20).BarGap, "no room for gaps")
}

func TestBarColumns(t *testing.T) {
	start, end := barColumns(viewsync.BarGeometry{X: 8, Width: 14.5})
	assert.Equal(t, 8, start)
	assert.Equal(t, 23, end)

	start, end = barColumns(viewsync.BarGeometry{X: 8.2, Width: 0.1})
	assert.Equal(t, 8, start)
	assert.Equal(t, 9, end, "at least one column")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "-", formatValue(math.NaN()))
	assert.Equal(t, "17.53", formatValue(17.5325))
	assert.Equal(t, "1250", formatValue(1249.6))
}
