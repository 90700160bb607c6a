package domain

import (
	"math"

	geojson "github.com/paulmach/go.geojson"
)

// Region is one ARTCC boundary. Attributes is filled in by Join and stays
// nil for regions without a matching attribute row.
type Region struct {
	Key         string
	DisplayName string
	ExternalID  string
	Geometry    *geojson.Geometry
	Attributes  map[string]float64
}

// Value returns the joined value for attr, or NaN when absent.
func (r *Region) Value(attr string) float64 {
	v, ok := r.Attributes[attr]
	if !ok {
		return math.NaN()
	}
	return v
}

// RegionIndex is the ordered set of regions with lookup by key.
type RegionIndex struct {
	regions []*Region
	byKey   map[string]*Region
}

// NewRegionIndex indexes regions by key. When keys repeat, Lookup returns the
// first region; all of them still take part in the join.
func NewRegionIndex(regions []*Region) *RegionIndex {
	ix := &RegionIndex{
		regions: regions,
		byKey:   make(map[string]*Region, len(regions)),
	}
	for _, r := range regions {
		if _, ok := ix.byKey[r.Key]; !ok {
			ix.byKey[r.Key] = r
		}
	}
	return ix
}

// Regions returns the regions in source order.
func (ix *RegionIndex) Regions() []*Region { return ix.regions }

// Len returns the number of regions.
func (ix *RegionIndex) Len() int { return len(ix.regions) }

// Lookup returns the region with the given key.
func (ix *RegionIndex) Lookup(key string) (*Region, bool) {
	r, ok := ix.byKey[key]
	return r, ok
}

// Landmark is a point feature drawn over the map, e.g. an airport.
type Landmark struct {
	Name       string
	ExternalID string
	Lon        float64
	Lat        float64
}

// Layer is a named background feature collection drawn beneath the regions.
type Layer struct {
	Name     string
	Features *geojson.FeatureCollection
}
