package tui

import (
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
)

func box(west, south, east, north float64) *geojson.Geometry {
	return geojson.NewPolygonGeometry([][][]float64{{
		{west, south}, {east, south}, {east, north}, {west, north}, {west, south},
	}})
}

func rasterDataset() *domain.Dataset {
	table := domain.NewAttributeTable([]string{"A"}, nil)
	regions := []*domain.Region{
		{Key: "ZAU", Geometry: box(-92, 38, -86, 44)},
		{Key: "ZNY", Geometry: box(-80, 38, -72, 44)},
	}
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(geojson.NewLineStringFeature([][]float64{{-83, 39}, {-83, 43}}))
	overlays := []domain.Layer{{Name: "conus", Features: fc}}
	landmarks := []domain.Landmark{{Name: "Chicago O'Hare", ExternalID: "KORD", Lon: -88, Lat: 42}}
	return domain.NewDataset(table, regions, overlays, landmarks)
}

func TestRasterizer_Ownership(t *testing.T) {
	r := NewRasterizer(rasterDataset()).Rasterize(60, 20)

	c, ok := r.Locate(-89, 41)
	require.True(t, ok)
	key, ok := r.Owner(c.X, c.Y)
	require.True(t, ok)
	assert.Equal(t, "ZAU", key)
	assert.False(t, r.Border(c.X, c.Y), "center cells are interior")

	c, _ = r.Locate(-76, 41)
	key, _ = r.Owner(c.X, c.Y)
	assert.Equal(t, "ZNY", key)

	c, _ = r.Locate(-83, 41)
	_, ok = r.Owner(c.X, c.Y)
	assert.False(t, ok, "gap between the regions")
	assert.True(t, r.Overlay(c.X, c.Y) || r.Overlay(c.X-1, c.Y) || r.Overlay(c.X+1, c.Y),
		"overlay line runs through the gap")

	_, ok = r.Owner(-1, 0)
	assert.False(t, ok)
	_, ok = r.Owner(60, 0)
	assert.False(t, ok)
}

func TestRasterizer_BordersAndAnchors(t *testing.T) {
	r := NewRasterizer(rasterDataset()).Rasterize(60, 20)

	for _, key := range []string{"ZAU", "ZNY"} {
		a, ok := r.Anchor(key)
		require.True(t, ok, key)
		owner, _ := r.Owner(a.X, a.Y)
		assert.Equal(t, key, owner)
	}

	// Walking west from the ZAU center leaves the region through a border cell.
	c, _ := r.Locate(-89, 41)
	x := c.X
	for {
		if _, ok := r.Owner(x-1, c.Y); !ok {
			break
		}
		x--
	}
	assert.True(t, r.Border(x, c.Y))
}

func TestRasterizer_Landmarks(t *testing.T) {
	r := NewRasterizer(rasterDataset()).Rasterize(60, 20)

	require.Len(t, r.Landmarks(), 1)
	lc := r.Landmarks()[0]
	lm, ok := r.LandmarkAt(lc.X, lc.Y)
	require.True(t, ok)
	assert.Equal(t, "KORD", lm.ExternalID)
	_, ok = r.LandmarkAt(lc.X+5, lc.Y)
	assert.False(t, ok)
}

func TestRasterizer_Graticule(t *testing.T) {
	r := NewRasterizer(rasterDataset()).Rasterize(60, 20)

	// -90 is a 5 degree meridian.
	c, ok := r.Locate(-90, 41)
	require.True(t, ok)
	assert.True(t, r.Graticule(c.X, c.Y))
}

func TestRasterizer_NoGeometry(t *testing.T) {
	table := domain.NewAttributeTable([]string{"A"}, nil)
	ds := domain.NewDataset(table, []*domain.Region{{Key: "ZAU"}}, nil, nil)

	r := NewRasterizer(ds).Rasterize(40, 10)

	assert.Equal(t, 40, r.Cols)
	_, ok := r.Locate(-89, 41)
	assert.False(t, ok)
	_, ok = r.Owner(5, 5)
	assert.False(t, ok)
}

func TestRasterizer_ZeroSize(t *testing.T) {
	r := NewRasterizer(rasterDataset()).Rasterize(0, 0)
	_, ok := r.Owner(0, 0)
	assert.False(t, ok)
}

type countingSource struct {
	calls int
}

func (s *countingSource) Rasterize(cols, rows int) *Raster {
	s.calls++
	return newRaster(cols, rows)
}

func TestCachedRasterizer(t *testing.T) {
	src := &countingSource{}
	c, err := NewCachedRasterizer(src, 2)
	require.NoError(t, err)

	first := c.Rasterize(10, 5)
	assert.Same(t, first, c.Rasterize(10, 5))
	assert.Equal(t, 1, src.calls)

	c.Rasterize(20, 5)
	c.Rasterize(30, 5) // evicts 10x5
	c.Rasterize(10, 5)
	assert.Equal(t, 4, src.calls)
}

func TestCachedRasterizer_InvalidSize(t *testing.T) {
	_, err := NewCachedRasterizer(&countingSource{}, 0)
	assert.Error(t, err)
}
