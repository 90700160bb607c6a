package geo

import (
	"math"
	"testing"

	planar "github.com/paulmach/go.geo"
	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbers_Project(t *testing.T) {
	a := ConterminousUS()

	center := a.Project(-98.5, 38.5)
	assert.InDelta(t, 0, center.X(), 1e-12, "central meridian maps to x=0")

	east := a.Project(-90, 40)
	west := a.Project(-107, 40)
	assert.InDelta(t, -east.X(), west.X(), 1e-12, "symmetric about the central meridian")
	assert.Greater(t, east.X(), 0.0)

	north := a.Project(-98.5, 48)
	south := a.Project(-98.5, 26)
	assert.Greater(t, north.Y(), south.Y(), "y points north")
}

func TestFit(t *testing.T) {
	b := planar.NewBound(0, 10, 0, 5)

	tr := Fit(b, 20, 5, 2, 0)
	require.True(t, tr.Valid())

	x, y := tr.Apply(planar.NewPoint(0, 5))
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	x, y = tr.Apply(planar.NewPoint(10, 0))
	assert.InDelta(t, 20, x, 1e-9)
	assert.InDelta(t, 5, y, 1e-9)
}

func TestFit_CentersTheSlackAxis(t *testing.T) {
	b := planar.NewBound(0, 10, 0, 10)

	tr := Fit(b, 40, 10, 2, 0)

	// 10x10 units into 40 cols x 20 px: scale 2, 20 cols of slack split evenly.
	x, _ := tr.Apply(planar.NewPoint(0, 10))
	assert.InDelta(t, 10, x, 1e-9)
	x, y := tr.Apply(planar.NewPoint(10, 0))
	assert.InDelta(t, 30, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestFit_Degenerate(t *testing.T) {
	assert.False(t, Fit(planar.NewBound(0, 0, 0, 0), 10, 10, 2, 0).Valid())
	assert.False(t, Fit(planar.NewBound(0, 1, 0, 1), 2, 2, 2, 1).Valid())
}

func square(x0, y0, x1, y1 float64) Ring {
	return Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

func TestShape_Contains(t *testing.T) {
	s := NewShape(square(0, 0, 10, 10), square(4, 4, 6, 6), square(20, 0, 22, 2))

	assert.True(t, s.Contains(1, 1))
	assert.False(t, s.Contains(5, 5), "inside the hole")
	assert.True(t, s.Contains(21, 1), "second part")
	assert.False(t, s.Contains(15, 1), "between parts")
	assert.False(t, s.Contains(-1, 5))
}

func TestShape_EmptyAndDegenerateRings(t *testing.T) {
	assert.False(t, Shape{}.Contains(0, 0))

	s := NewShape(Ring{{0, 0}, {1, 1}})
	assert.Empty(t, s.Rings)
	assert.False(t, s.Contains(0.5, 0.5))
}

func TestProjector_Shape(t *testing.T) {
	a := ConterminousUS()
	g := geojson.NewPolygonGeometry([][][]float64{{{-90, 40}, {-86, 40}, {-86, 44}, {-90, 44}, {-90, 40}}})
	bound := ProjectedBound(a, []*geojson.Geometry{g})
	require.NotNil(t, bound)

	p := Projector{Albers: a, Transform: Fit(bound, 40, 20, CellAspect, 0)}
	s := p.Shape(g)

	require.Len(t, s.Rings, 1)
	center := p.Point(-88, 42)
	assert.True(t, s.Contains(center.X, center.Y))
	outside := p.Point(-80, 42)
	assert.False(t, s.Contains(outside.X, outside.Y))
	assert.Empty(t, p.Shape(geojson.NewPointGeometry([]float64{-88, 42})).Rings)
	assert.Empty(t, p.Shape(nil).Rings)
}

func TestProjectedBound_NoCoordinates(t *testing.T) {
	assert.Nil(t, ProjectedBound(ConterminousUS(), nil))
}

func TestGraticule(t *testing.T) {
	lines := Graticule(5, -124.7, -67, 25.1, 49.4)

	// Meridians -125..-65 (13) and parallels 25..50 (6).
	require.Len(t, lines, 19)
	assert.Equal(t, []float64{-125, 25}, lines[0][0])
	assert.Len(t, lines[0], 26, "one sample per degree of latitude")
	assert.Equal(t, []float64{-125, 25}, lines[13][0], "parallels run south to north")
	assert.Equal(t, []float64{-125, 50}, lines[18][0])
	assert.Nil(t, Graticule(0, 0, 1, 0, 1))
}

func TestWrapPi(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, wrapPi(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, wrapPi(-3*math.Pi/2), 1e-12)
}
