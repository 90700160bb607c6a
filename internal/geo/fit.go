package geo

import (
	"math"

	planar "github.com/paulmach/go.geo"
)

// CellAspect is the height of a terminal cell in units of its width.
const CellAspect = 2.0

// Transform maps projected coordinates to grid cells (x right, y down).
type Transform struct {
	scale   float64
	aspect  float64
	left    float64
	top     float64
	offsetX float64
	offsetY float64
}

// Fit returns the transform that centers bound in a cols×rows grid, keeping
// the projected aspect ratio given cells aspect times taller than wide. A
// margin of cells is left on every side.
func Fit(bound *planar.Bound, cols, rows int, aspect float64, margin int) Transform {
	if aspect <= 0 {
		aspect = CellAspect
	}
	w := float64(cols - 2*margin)
	h := float64(rows-2*margin) * aspect
	t := Transform{aspect: aspect, left: bound.Left(), top: bound.Top()}
	if w <= 0 || h <= 0 || bound.Width() <= 0 || bound.Height() <= 0 {
		return t
	}
	t.scale = math.Min(w/bound.Width(), h/bound.Height())
	t.offsetX = float64(margin) + (w-bound.Width()*t.scale)/2
	t.offsetY = float64(margin) + (h-bound.Height()*t.scale)/2/aspect
	return t
}

// Apply maps a projected point to fractional grid coordinates.
func (t Transform) Apply(p *planar.Point) (x, y float64) {
	x = (p.X()-t.left)*t.scale + t.offsetX
	y = (t.top-p.Y())*t.scale/t.aspect + t.offsetY
	return x, y
}

// Valid reports whether the transform has a usable scale.
func (t Transform) Valid() bool { return t.scale > 0 }
