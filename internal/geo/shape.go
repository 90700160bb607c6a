package geo

import (
	planar "github.com/paulmach/go.geo"
	geojson "github.com/paulmach/go.geojson"
)

// Ring is a closed sequence of grid coordinates.
type Ring []GridPoint

// GridPoint is a fractional grid coordinate.
type GridPoint struct {
	X, Y float64
}

// Shape is a polygonal geometry projected onto the grid. Rings are tested
// with the even-odd rule, so holes and multi-part geometries work unchanged.
type Shape struct {
	Rings []Ring
	Bound *planar.Bound
}

// Projector combines a projection and a grid transform.
type Projector struct {
	Albers    *Albers
	Transform Transform
}

// Point maps lon/lat to grid coordinates.
func (p Projector) Point(lon, lat float64) GridPoint {
	x, y := p.Transform.Apply(p.Albers.Project(lon, lat))
	return GridPoint{X: x, Y: y}
}

// Line maps a lon/lat polyline to grid coordinates.
func (p Projector) Line(coords [][]float64) Ring {
	out := make(Ring, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		out = append(out, p.Point(c[0], c[1]))
	}
	return out
}

// Shape projects a Polygon or MultiPolygon geometry. Other geometry types
// yield an empty shape.
func (p Projector) Shape(g *geojson.Geometry) Shape {
	if g == nil {
		return Shape{}
	}
	var polygons [][][][]float64
	switch {
	case g.IsPolygon():
		polygons = [][][][]float64{g.Polygon}
	case g.IsMultiPolygon():
		polygons = g.MultiPolygon
	}
	var rings []Ring
	for _, poly := range polygons {
		for _, ring := range poly {
			rings = append(rings, p.Line(ring))
		}
	}
	return NewShape(rings...)
}

// NewShape builds a shape from grid rings, dropping rings with fewer than
// three points.
func NewShape(rings ...Ring) Shape {
	var s Shape
	for _, r := range rings {
		if len(r) < 3 {
			continue
		}
		s.Rings = append(s.Rings, r)
		for _, pt := range r {
			if s.Bound == nil {
				s.Bound = planar.NewBound(pt.X, pt.X, pt.Y, pt.Y)
				continue
			}
			s.Bound.Extend(planar.NewPoint(pt.X, pt.Y))
		}
	}
	return s
}

// Contains reports whether the grid point lies inside the shape.
func (s Shape) Contains(x, y float64) bool {
	if s.Bound == nil || !s.Bound.Contains(planar.NewPoint(x, y)) {
		return false
	}
	inside := false
	for _, r := range s.Rings {
		if ringContains(r, x, y) {
			inside = !inside
		}
	}
	return inside
}

// ringContains is the crossing-number test for a single ring.
func ringContains(r Ring, x, y float64) bool {
	inside := false
	for i, j := 0, len(r)-1; i < len(r); j, i = i, i+1 {
		a, b := r[i], r[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ProjectedBound returns the projected bound of geometries, or nil when none
// have coordinates.
func ProjectedBound(a *Albers, geometries []*geojson.Geometry) *planar.Bound {
	var b *planar.Bound
	for _, g := range geometries {
		eachCoord(g, func(lon, lat float64) {
			b = extend(b, a.Project(lon, lat))
		})
	}
	return b
}

// LonLatBound returns the unprojected bound of geometries, or nil when none
// have coordinates.
func LonLatBound(geometries []*geojson.Geometry) *planar.Bound {
	var b *planar.Bound
	for _, g := range geometries {
		eachCoord(g, func(lon, lat float64) {
			b = extend(b, planar.NewPoint(lon, lat))
		})
	}
	return b
}

func extend(b *planar.Bound, pt *planar.Point) *planar.Bound {
	if b == nil {
		return planar.NewBound(pt.X(), pt.X(), pt.Y(), pt.Y())
	}
	return b.Extend(pt)
}

// eachCoord visits the coordinates of point, line and polygon geometries.
func eachCoord(g *geojson.Geometry, fn func(lon, lat float64)) {
	if g == nil {
		return
	}
	visit := func(c []float64) {
		if len(c) >= 2 {
			fn(c[0], c[1])
		}
	}
	visitLines := func(lines [][][]float64) {
		for _, line := range lines {
			for _, c := range line {
				visit(c)
			}
		}
	}
	switch {
	case g.IsPoint():
		visit(g.Point)
	case g.IsMultiPoint():
		for _, c := range g.MultiPoint {
			visit(c)
		}
	case g.IsLineString():
		visitLines([][][]float64{g.LineString})
	case g.IsMultiLineString():
		visitLines(g.MultiLineString)
	case g.IsPolygon():
		visitLines(g.Polygon)
	case g.IsMultiPolygon():
		for _, poly := range g.MultiPolygon {
			visitLines(poly)
		}
	}
}

// Lines returns the polylines of a line or polygon geometry in lon/lat;
// polygon rings are returned as closed lines. Points yield nothing.
func Lines(g *geojson.Geometry) [][][]float64 {
	if g == nil {
		return nil
	}
	switch {
	case g.IsLineString():
		return [][][]float64{g.LineString}
	case g.IsMultiLineString():
		return g.MultiLineString
	case g.IsPolygon():
		return g.Polygon
	case g.IsMultiPolygon():
		var out [][][]float64
		for _, poly := range g.MultiPolygon {
			out = append(out, poly...)
		}
		return out
	}
	return nil
}
