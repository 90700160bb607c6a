package domain

import "strconv"

// Point is a position in view coordinates (x right, y down).
type Point struct {
	X, Y float64
}

// Size is a width and height in view coordinates.
type Size struct {
	W, H float64
}

// Label is the floating label shown for a hovered key.
type Label struct {
	Key         string
	DisplayName string
	Attribute   string
	Value       float64
}

// ValueText formats the value, or "No data" when missing.
func (l Label) ValueText() string {
	if IsMissing(l.Value) {
		return "No data"
	}
	return strconv.FormatFloat(l.Value, 'f', -1, 64)
}

// LabelPlacement positions the label relative to the pointer.
type LabelPlacement struct {
	OffsetX    float64 // horizontal gap between pointer and label
	Rise       float64 // label top sits this far above the pointer
	Drop       float64 // label top sits this far below the pointer when flipped
	EdgeMargin float64 // extra room kept from the right edge
}

// DefaultLabelPlacement returns the pixel-based placement of the map page.
func DefaultLabelPlacement() LabelPlacement {
	return LabelPlacement{OffsetX: 10, Rise: 75, Drop: 25, EdgeMargin: 20}
}

// Place returns the label's top-left corner. The label flips to the left of
// the pointer near the right edge and below it near the top edge.
func (p LabelPlacement) Place(pointer Point, label, viewport Size) Point {
	x := pointer.X + p.OffsetX
	if pointer.X > viewport.W-label.W-p.EdgeMargin {
		x = pointer.X - label.W - p.OffsetX
	}
	y := pointer.Y - p.Rise
	if pointer.Y < p.Rise {
		y = pointer.Y + p.Drop
	}
	return Point{X: x, Y: y}
}
