package tui

import (
	"unicode/utf8"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/viewsync"
)

// View is the terminal Renderer. It keeps the latest state the coordinator
// pushed; App draws it to the screen on every frame.
type View struct {
	fills    map[string]viewsync.RegionFill
	outlines map[domain.ElementKind]map[string]domain.Outline
	bars     []viewsync.BarGeometry
	axis     viewsync.AxisFrame
	title    string

	label      domain.Label
	labelAt    domain.Point
	labelShown bool

	viewport domain.Size
}

var _ viewsync.Renderer = (*View)(nil)

// NewView creates an empty view for a w×h screen.
func NewView(w, h int) *View {
	return &View{
		fills: map[string]viewsync.RegionFill{},
		outlines: map[domain.ElementKind]map[string]domain.Outline{
			domain.ElementRegion: {},
			domain.ElementBar:    {},
		},
		viewport: domain.Size{W: float64(w), H: float64(h)},
	}
}

// SetViewport records the screen size labels must stay inside.
func (v *View) SetViewport(w, h int) {
	v.viewport = domain.Size{W: float64(w), H: float64(h)}
}

func (v *View) RenderRegions(fills []viewsync.RegionFill) {
	v.fills = make(map[string]viewsync.RegionFill, len(fills))
	for _, f := range fills {
		v.fills[f.Key] = f
		v.outlines[domain.ElementRegion][f.Key] = f.Outline
	}
}

func (v *View) RenderBars(bars []viewsync.BarGeometry) {
	v.bars = bars
	for _, b := range bars {
		v.outlines[domain.ElementBar][b.Key] = b.Outline
	}
}

func (v *View) RenderAxis(axis viewsync.AxisFrame) { v.axis = axis }

func (v *View) RenderTitle(title string) { v.title = title }

func (v *View) RenderOutlines(changed []domain.StyledElement) {
	for _, el := range changed {
		if m, ok := v.outlines[el.Kind]; ok {
			m[el.Key] = el.Outline
		}
	}
}

func (v *View) ShowLabel(label domain.Label, at domain.Point) {
	v.label, v.labelAt, v.labelShown = label, at, true
}

func (v *View) MoveLabel(at domain.Point) { v.labelAt = at }

func (v *View) HideLabel() { v.labelShown = false }

// LabelSize is the boxed label: its text lines inside a one-cell border and
// one column of padding on each side.
func (v *View) LabelSize(label domain.Label) domain.Size {
	lines := labelLines(label)
	w := 0
	for _, line := range lines {
		w = max(w, utf8.RuneCountInString(line))
	}
	return domain.Size{W: float64(w + 4), H: float64(len(lines) + 2)}
}

func (v *View) Viewport() domain.Size { return v.viewport }

// Fill returns the region's current fill.
func (v *View) Fill(key string) (viewsync.RegionFill, bool) {
	f, ok := v.fills[key]
	return f, ok
}

// Outline returns the current outline of an element.
func (v *View) Outline(kind domain.ElementKind, key string) domain.Outline {
	return v.outlines[kind][key]
}

// Bars returns the bars in rank order.
func (v *View) Bars() []viewsync.BarGeometry { return v.bars }

// Title returns the chart title.
func (v *View) Title() string { return v.title }

// Label returns the shown label and its top-left corner.
func (v *View) Label() (domain.Label, domain.Point, bool) {
	return v.label, v.labelAt, v.labelShown
}

const clickHint = "click for details"

func labelLines(l domain.Label) []string {
	name := l.Key
	if l.DisplayName != "" {
		name = l.DisplayName + " (" + l.Key + ")"
	}
	return []string{l.ValueText(), l.Attribute, name, clickHint}
}

// labelLegend explains the floating label's lines.
var labelLegend = []string{"value", "attribute", "center (id)", clickHint}
