package tui

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/viewsync"
)

var (
	styleDefault   = tcell.StyleDefault
	styleHeader    = tcell.StyleDefault.Bold(true).Reverse(true)
	styleSelector  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleMenu      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleMenuFocus = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkBlue).Bold(true)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleGraticule = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleOverlay   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleLandmark  = tcell.StyleDefault.Foreground(tcell.ColorDarkRed).Bold(true)
	styleAxis      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle     = tcell.StyleDefault.Bold(true)
	styleLabel     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// eighths are the partial block glyphs used for the top cell of a bar.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

const selectorPrefix = " Attribute: "

func (a *App) draw() {
	a.screen.Clear()
	a.drawHeader()
	a.drawMap()
	a.drawSeparator()
	a.drawChart()
	a.drawLegend()
	a.drawStatus()
	a.drawLabelLegend()
	a.drawLabel()
	a.drawDropdown()
}

func (a *App) drawHeader() {
	r := a.layout.Header
	drawText(a.screen, r.X, r.Y, r.W, styleHeader, selectorPrefix)
	box := fmt.Sprintf("[ %s ▾ ]", a.ctrl.Expressed())
	a.selector = Rect{X: r.X + len(selectorPrefix), Y: r.Y, W: utf8.RuneCountInString(box), H: 1}
	drawText(a.screen, a.selector.X, r.Y, min(a.selector.W, max(r.W-a.selector.X, 0)), styleSelector, box)
	title := "ARTCC Atlas "
	if x := r.W - len(title); x > a.selector.X+a.selector.W {
		drawText(a.screen, x, r.Y, len(title), styleHeader, title)
	}
}

func (a *App) drawMap() {
	m := a.layout.Map
	if a.raster == nil {
		return
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			ch, style := a.mapCell(x, y)
			a.screen.SetContent(m.X+x, m.Y+y, ch, nil, style)
		}
	}
	for key := range a.view.fills {
		a.drawAnchor(key)
	}
	for _, lc := range a.raster.Landmarks() {
		if m.Contains(m.X+lc.X, m.Y+lc.Y) {
			_, _, bg, _ := a.cellStyle(m.X+lc.X, m.Y+lc.Y)
			a.screen.SetContent(m.X+lc.X, m.Y+lc.Y, 'o', nil, styleLandmark.Background(bg))
		}
	}
}

func (a *App) mapCell(x, y int) (rune, tcell.Style) {
	key, owned := a.raster.Owner(x, y)
	if !owned {
		switch {
		case a.raster.Overlay(x, y):
			return '.', styleOverlay
		case a.raster.Graticule(x, y):
			return '·', styleGraticule
		}
		return ' ', styleDefault
	}
	style := styleDefault
	if f, ok := a.view.Fill(key); ok {
		style = style.Background(tcell.GetColor(f.Color))
	}
	if !a.raster.Border(x, y) {
		return ' ', style
	}
	outline := a.view.Outline(domain.ElementRegion, key)
	switch {
	case !outline.Visible():
		return ' ', style
	case outline.Width >= 2:
		return ' ', style.Background(tcell.GetColor(outline.Stroke))
	default:
		return '·', style.Foreground(tcell.GetColor(outline.Stroke))
	}
}

// drawAnchor writes the region key at its anchor when the text fits inside
// the region.
func (a *App) drawAnchor(key string) {
	c, ok := a.raster.Anchor(key)
	if !ok {
		return
	}
	n := utf8.RuneCountInString(key)
	start := c.X - n/2
	for i := 0; i < n; i++ {
		if owner, ok := a.raster.Owner(start+i, c.Y); !ok || owner != key {
			return
		}
	}
	m := a.layout.Map
	for i, r := range []rune(key) {
		_, _, bg, _ := a.cellStyle(m.X+start+i, m.Y+c.Y)
		a.screen.SetContent(m.X+start+i, m.Y+c.Y, r, nil, styleDefault.Foreground(tcell.ColorBlack).Background(bg))
	}
}

func (a *App) cellStyle(x, y int) (rune, tcell.Color, tcell.Color, tcell.AttrMask) {
	ch, _, style, _ := a.screen.GetContent(x, y)
	fg, bg, attr := style.Decompose()
	return ch, fg, bg, attr
}

func (a *App) drawSeparator() {
	x := a.layout.Map.X + a.layout.Map.W
	for y := a.layout.Map.Y; y < a.layout.Map.Y+a.layout.Map.H; y++ {
		a.screen.SetContent(x, y, '│', nil, styleAxis)
	}
}

func (a *App) drawChart() {
	c := a.layout.Chart
	if c.W <= 0 || c.H <= 0 {
		return
	}
	title := a.view.Title()
	tx := c.X + max((c.W-utf8.RuneCountInString(title))/2, 0)
	drawText(a.screen, tx, c.Y, c.X+c.W-tx, styleTitle, title)

	f := a.frame
	bottom := int(f.Top + f.PlotHeight())
	axisX := c.X + int(f.Left) - 1
	for y := int(f.Top); y < bottom; y++ {
		a.screen.SetContent(axisX, c.Y+y, '│', nil, styleAxis)
	}
	for x := axisX; x < c.X+c.W; x++ {
		a.screen.SetContent(x, c.Y+bottom, '─', nil, styleAxis)
	}
	a.screen.SetContent(axisX, c.Y+bottom, '└', nil, styleAxis)
	for _, t := range a.view.axis.Ticks {
		row := min(int(math.Floor(t.Y)), bottom-1)
		text := formatValue(t.Value)
		n := utf8.RuneCountInString(text)
		drawText(a.screen, max(axisX-1-n, c.X), c.Y+row, min(n, axisX-c.X), styleAxis, text)
		a.screen.SetContent(axisX, c.Y+row, '┤', nil, styleAxis)
	}

	for _, b := range a.view.Bars() {
		a.drawBar(b, bottom)
	}
}

func (a *App) drawBar(b viewsync.BarGeometry, bottom int) {
	c := a.layout.Chart
	style := styleDefault.Foreground(tcell.GetColor(b.Color))
	if o := a.view.Outline(domain.ElementBar, b.Key); o.Visible() {
		style = styleDefault.Foreground(tcell.GetColor(o.Stroke))
	}
	start, end := barColumns(b)
	full := int(math.Ceil(b.Y - 1e-9))
	for x := start; x < end; x++ {
		if x >= c.W {
			break
		}
		for y := full; y < bottom; y++ {
			a.screen.SetContent(c.X+x, c.Y+y, '█', nil, style)
		}
		if frac := float64(full) - b.Y; frac > 0 && full-1 >= 0 {
			if i := int(math.Round(frac * 8)); i > 0 {
				a.screen.SetContent(c.X+x, c.Y+full-1, eighths[i], nil, style)
			}
		}
	}
}

// barColumns returns the chart-local columns [start, end) a bar occupies.
func barColumns(b viewsync.BarGeometry) (int, int) {
	start := int(math.Round(b.X))
	end := int(math.Round(b.X + b.Width))
	if end <= start {
		end = start + 1
	}
	return start, end
}

func (a *App) drawLegend() {
	r := a.layout.Legend
	x := r.X + 1
	put := func(color, text string) {
		if x+2 >= r.X+r.W {
			return
		}
		style := styleDefault.Foreground(tcell.GetColor(color))
		a.screen.SetContent(x, r.Y, '█', nil, style)
		a.screen.SetContent(x+1, r.Y, '█', nil, style)
		x += 3
		n := min(utf8.RuneCountInString(text), max(r.X+r.W-x, 0))
		drawText(a.screen, x, r.Y, n, styleHelp, text)
		x += n + 2
	}
	for _, e := range a.ctrl.Legend() {
		put(e.Color, "≥"+formatValue(e.Lower))
	}
	put(a.opts.NoDataColor, "no data")
}

func (a *App) drawStatus() {
	r := a.layout.Status
	switch {
	case a.status != "":
		drawText(a.screen, r.X, r.Y, r.W, styleStatus, " "+a.status)
	case a.landmark != nil:
		drawText(a.screen, r.X, r.Y, r.W, styleLandmark, " "+a.landmark.Name+" ("+a.landmark.ExternalID+")")
	default:
		drawText(a.screen, r.X, r.Y, r.W, styleHelp, " [Enter]=Attributes  [↑/↓]=Cycle  [1-9]=Pick  [Click]=Details  [q]=Quit")
	}
}

func (a *App) drawLabel() {
	label, at, shown := a.view.Label()
	if !shown {
		return
	}
	size := a.view.LabelSize(label)
	w, h := int(size.W), int(size.H)
	x := clamp(int(math.Round(at.X)), 0, a.layout.Width-w)
	y := clamp(int(math.Round(at.Y)), 0, a.layout.Height-h)
	drawBox(a.screen, x, y, w, h, styleLabel)
	for i, line := range labelLines(label) {
		style := styleLabel
		if i == 0 {
			style = style.Bold(true)
		}
		drawText(a.screen, x+2, y+1+i, w-4, style, line)
	}
}

// drawLabelLegend pins a key to the label's layout in the map's lower left
// corner while something is hovered.
func (a *App) drawLabelLegend() {
	if _, _, shown := a.view.Label(); !shown {
		return
	}
	w := 0
	for _, line := range labelLegend {
		w = max(w, utf8.RuneCountInString(line))
	}
	w += 4
	h := len(labelLegend) + 2
	m := a.layout.Map
	if m.W < w || m.H < h {
		return
	}
	x, y := m.X, m.Y+m.H-h
	drawBox(a.screen, x, y, w, h, styleHelp)
	for i, line := range labelLegend {
		drawText(a.screen, x+2, y+1+i, w-4, styleHelp, line)
	}
}

func (a *App) drawDropdown() {
	if !a.dropdown.open {
		return
	}
	items := a.ctrl.Attributes()
	w := 0
	for _, it := range items {
		w = max(w, utf8.RuneCountInString(it))
	}
	w += 4
	for i, it := range items {
		style := styleMenu
		if i == a.dropdown.focus {
			style = styleMenuFocus
		}
		drawText(a.screen, a.selector.X, a.selector.Y+1+i, w, style, "  "+it)
	}
}

// dropdownItem returns the attribute index under the cell of an open menu.
func (a *App) dropdownItem(x, y int) (int, bool) {
	items := a.ctrl.Attributes()
	i := y - a.selector.Y - 1
	if i < 0 || i >= len(items) || x < a.selector.X {
		return 0, false
	}
	w := 0
	for _, it := range items {
		w = max(w, utf8.RuneCountInString(it))
	}
	if x >= a.selector.X+w+4 {
		return 0, false
	}
	return i, true
}

// drawText draws a string at the given position, padding to maxWidth.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for col < maxWidth {
		screen.SetContent(x+col, y, ' ', nil, style)
		col++
	}
}

func drawBox(screen tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			ch := ' '
			switch {
			case row == 0 && col == 0:
				ch = '┌'
			case row == 0 && col == w-1:
				ch = '┐'
			case row == h-1 && col == 0:
				ch = '└'
			case row == h-1 && col == w-1:
				ch = '┘'
			case row == 0 || row == h-1:
				ch = '─'
			case col == 0 || col == w-1:
				ch = '│'
			}
			screen.SetContent(x+col, y+row, ch, nil, style)
		}
	}
}

// formatValue keeps axis and legend numbers short.
func formatValue(v float64) string {
	switch {
	case domain.IsMissing(v):
		return "-"
	case math.Abs(v) >= 100:
		return strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	default:
		return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
