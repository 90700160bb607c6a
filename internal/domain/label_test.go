package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelPlacement_Place(t *testing.T) {
	p := DefaultLabelPlacement()
	viewport := Size{W: 1000, H: 800}
	label := Size{W: 200, H: 100}

	tests := []struct {
		name     string
		pointer  Point
		expected Point
	}{
		{"right and above", Point{X: 100, Y: 300}, Point{X: 110, Y: 225}},
		{"flips left near right edge", Point{X: 900, Y: 300}, Point{X: 690, Y: 225}},
		{"flips below near top edge", Point{X: 100, Y: 50}, Point{X: 110, Y: 75}},
		{"both flips", Point{X: 950, Y: 10}, Point{X: 740, Y: 35}},
		{"edge threshold is exclusive", Point{X: 780, Y: 75}, Point{X: 790, Y: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.Place(tt.pointer, label, viewport))
		})
	}
}

func TestLabel_ValueText(t *testing.T) {
	assert.Equal(t, "49.35", Label{Value: 49.35}.ValueText())
	assert.Equal(t, "0", Label{Value: 0}.ValueText())
	assert.Equal(t, "No data", Label{Value: math.NaN()}.ValueText())
}
