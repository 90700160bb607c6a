package tui

import (
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	geojson "github.com/paulmach/go.geojson"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	"github.com/couchcryptid/artcc-atlas/internal/geo"
)

// GraticuleStep is the spacing of meridians and parallels in degrees.
const GraticuleStep = 5.0

// Cell is an integer grid position.
type Cell struct {
	X, Y int
}

// LandmarkCell is a landmark placed on the grid.
type LandmarkCell struct {
	Cell
	Landmark domain.Landmark
}

// Raster is the map rasterised for one pane size. Cells are owned by at most
// one region; later regions win where shapes overlap.
type Raster struct {
	Cols, Rows int

	keys      []string
	owner     []int // index into keys, -1 when no region covers the cell
	border    []bool
	overlay   []bool
	graticule []bool
	anchors   map[string]Cell
	landmarks []LandmarkCell
	projector geo.Projector
}

func newRaster(cols, rows int) *Raster {
	n := cols * rows
	r := &Raster{
		Cols:      cols,
		Rows:      rows,
		owner:     make([]int, n),
		border:    make([]bool, n),
		overlay:   make([]bool, n),
		graticule: make([]bool, n),
		anchors:   map[string]Cell{},
	}
	for i := range r.owner {
		r.owner[i] = -1
	}
	return r
}

func (r *Raster) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= r.Cols || y >= r.Rows {
		return 0, false
	}
	return y*r.Cols + x, true
}

// Owner returns the region key covering the cell.
func (r *Raster) Owner(x, y int) (string, bool) {
	i, ok := r.index(x, y)
	if !ok || r.owner[i] < 0 {
		return "", false
	}
	return r.keys[r.owner[i]], true
}

// Border reports whether the cell lies on the edge of its region.
func (r *Raster) Border(x, y int) bool {
	i, ok := r.index(x, y)
	return ok && r.border[i]
}

// Overlay reports whether a background layer line passes through the cell.
func (r *Raster) Overlay(x, y int) bool {
	i, ok := r.index(x, y)
	return ok && r.overlay[i]
}

// Graticule reports whether a meridian or parallel passes through the cell.
func (r *Raster) Graticule(x, y int) bool {
	i, ok := r.index(x, y)
	return ok && r.graticule[i]
}

// Anchor returns the cell nearest the middle of a region's cells.
func (r *Raster) Anchor(key string) (Cell, bool) {
	c, ok := r.anchors[key]
	return c, ok
}

// Landmarks returns the landmarks that fall inside the grid.
func (r *Raster) Landmarks() []LandmarkCell { return r.landmarks }

// LandmarkAt returns the landmark drawn in the cell, if any.
func (r *Raster) LandmarkAt(x, y int) (domain.Landmark, bool) {
	for _, lc := range r.landmarks {
		if lc.X == x && lc.Y == y {
			return lc.Landmark, true
		}
	}
	return domain.Landmark{}, false
}

// Locate maps lon/lat to the cell containing it.
func (r *Raster) Locate(lon, lat float64) (Cell, bool) {
	if !r.projector.Transform.Valid() {
		return Cell{}, false
	}
	p := r.projector.Point(lon, lat)
	c := Cell{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
	_, ok := r.index(c.X, c.Y)
	return c, ok
}

// RasterSource produces rasters for a pane size.
type RasterSource interface {
	Rasterize(cols, rows int) *Raster
}

// Rasterizer projects a dataset's geometry onto terminal cells.
type Rasterizer struct {
	albers    *geo.Albers
	regions   []*domain.Region
	overlays  []domain.Layer
	landmarks []domain.Landmark
	graticule [][][]float64
	geometry  []*geojson.Geometry
}

// NewRasterizer prepares the dataset for rasterising with the conterminous
// US Albers projection.
func NewRasterizer(ds *domain.Dataset) *Rasterizer {
	z := &Rasterizer{
		albers:    geo.ConterminousUS(),
		regions:   ds.Regions.Regions(),
		overlays:  ds.Overlays,
		landmarks: ds.Landmarks,
	}
	for _, r := range z.regions {
		z.geometry = append(z.geometry, r.Geometry)
	}
	if b := geo.LonLatBound(z.geometry); b != nil {
		z.graticule = geo.Graticule(GraticuleStep, b.Left(), b.Right(), b.Bottom(), b.Top())
	}
	return z
}

// Rasterize fits the regions into a cols×rows grid and samples every cell.
func (z *Rasterizer) Rasterize(cols, rows int) *Raster {
	r := newRaster(max(cols, 0), max(rows, 0))
	bound := geo.ProjectedBound(z.albers, z.geometry)
	if bound == nil || cols <= 0 || rows <= 0 {
		return r
	}
	r.projector = geo.Projector{Albers: z.albers, Transform: geo.Fit(bound, cols, rows, geo.CellAspect, 1)}
	if !r.projector.Transform.Valid() {
		return r
	}

	shapes := make([]geo.Shape, len(z.regions))
	for i, region := range z.regions {
		shapes[i] = r.projector.Shape(region.Geometry)
		r.keys = append(r.keys, region.Key)
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			cx, cy := float64(x)+0.5, float64(y)+0.5
			for i := len(shapes) - 1; i >= 0; i-- {
				if shapes[i].Contains(cx, cy) {
					r.owner[y*cols+x] = i
					break
				}
			}
		}
	}
	r.markBorders()
	r.placeAnchors()

	for _, line := range z.graticule {
		r.trace(r.projector.Line(line), r.graticule)
	}
	for _, layer := range z.overlays {
		if layer.Features == nil {
			continue
		}
		for _, f := range layer.Features.Features {
			for _, line := range geo.Lines(f.Geometry) {
				r.trace(r.projector.Line(line), r.overlay)
			}
		}
	}
	for _, lm := range z.landmarks {
		if c, ok := r.Locate(lm.Lon, lm.Lat); ok {
			r.landmarks = append(r.landmarks, LandmarkCell{Cell: c, Landmark: lm})
		}
	}
	return r
}

func (r *Raster) markBorders() {
	for y := 0; y < r.Rows; y++ {
		for x := 0; x < r.Cols; x++ {
			i := y*r.Cols + x
			own := r.owner[i]
			if own < 0 {
				continue
			}
			for _, d := range [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				j, ok := r.index(x+d.X, y+d.Y)
				if !ok || r.owner[j] != own {
					r.border[i] = true
					break
				}
			}
		}
	}
}

// placeAnchors picks, per region, the owned cell closest to the mean of its
// owned cells, so labels of concave regions stay inside them.
func (r *Raster) placeAnchors() {
	type acc struct{ sx, sy, n float64 }
	sums := make([]acc, len(r.keys))
	for i, own := range r.owner {
		if own < 0 {
			continue
		}
		sums[own].sx += float64(i % r.Cols)
		sums[own].sy += float64(i / r.Cols)
		sums[own].n++
	}
	best := make([]float64, len(r.keys))
	for i := range best {
		best[i] = math.Inf(1)
	}
	for i, own := range r.owner {
		if own < 0 || sums[own].n == 0 {
			continue
		}
		mx, my := sums[own].sx/sums[own].n, sums[own].sy/sums[own].n
		x, y := float64(i%r.Cols), float64(i/r.Cols)
		// rows are twice as tall as columns are wide
		d := (x-mx)*(x-mx) + geo.CellAspect*geo.CellAspect*(y-my)*(y-my)
		if d < best[own] {
			best[own] = d
			r.anchors[r.keys[own]] = Cell{X: i % r.Cols, Y: i / r.Cols}
		}
	}
}

// trace marks every cell a polyline passes through, sampling at half-cell
// steps.
func (r *Raster) trace(line geo.Ring, mask []bool) {
	mark := func(x, y float64) {
		if i, ok := r.index(int(math.Floor(x)), int(math.Floor(y))); ok {
			mask[i] = true
		}
	}
	for i := 1; i < len(line); i++ {
		a, b := line[i-1], line[i]
		steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y)) * 2))
		for s := 0; s <= steps; s++ {
			t := 0.0
			if steps > 0 {
				t = float64(s) / float64(steps)
			}
			mark(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
		}
	}
	if len(line) == 1 {
		mark(line[0].X, line[0].Y)
	}
}

type rasterSize struct {
	cols, rows int
}

// CachedRasterizer wraps a RasterSource with an LRU cache keyed by pane size,
// so flipping between terminal sizes does not resample the map.
type CachedRasterizer struct {
	inner RasterSource
	cache *lru.Cache[rasterSize, *Raster]
}

// NewCachedRasterizer creates a cache decorator around a raster source.
func NewCachedRasterizer(inner RasterSource, maxEntries int) (*CachedRasterizer, error) {
	cache, err := lru.New[rasterSize, *Raster](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("raster cache: %w", err)
	}
	return &CachedRasterizer{inner: inner, cache: cache}, nil
}

func (c *CachedRasterizer) Rasterize(cols, rows int) *Raster {
	key := rasterSize{cols: cols, rows: rows}
	if r, ok := c.cache.Get(key); ok {
		return r
	}
	r := c.inner.Rasterize(cols, rows)
	c.cache.Add(key, r)
	return r
}
