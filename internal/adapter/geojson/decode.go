// Package geojson decodes the region, overlay and point feature collections.
package geojson

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	geojson "github.com/paulmach/go.geojson"
)

// RegionLayout names the feature properties read from region features.
type RegionLayout struct {
	KeyField        string
	NameField       string
	ExternalIDField string
}

// PointLayout names the feature properties read from point features.
type PointLayout struct {
	NameField       string
	ExternalIDField string
}

// DecodeRegions reads polygon features keyed by layout.KeyField. Every
// feature must carry a key and a Polygon or MultiPolygon geometry.
func DecodeRegions(data []byte, layout RegionLayout) ([]*domain.Region, error) {
	fc, err := decodeCollection(data)
	if err != nil {
		return nil, err
	}

	regions := make([]*domain.Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil || !(f.Geometry.IsPolygon() || f.Geometry.IsMultiPolygon()) {
			return nil, fmt.Errorf("%w: region feature %d is not a polygon", domain.ErrMalformedSource, i)
		}
		key := property(f, layout.KeyField)
		if key == "" {
			return nil, fmt.Errorf("%w: region feature %d has no %s", domain.ErrMalformedSource, i, layout.KeyField)
		}
		regions = append(regions, &domain.Region{
			Key:         key,
			DisplayName: property(f, layout.NameField),
			ExternalID:  property(f, layout.ExternalIDField),
			Geometry:    f.Geometry,
		})
	}
	return regions, nil
}

// DecodeLayer reads a background feature collection as-is.
func DecodeLayer(name string, data []byte) (domain.Layer, error) {
	fc, err := decodeCollection(data)
	if err != nil {
		return domain.Layer{}, err
	}
	return domain.Layer{Name: name, Features: fc}, nil
}

// DecodeLandmarks reads point features. Non-point features are skipped.
func DecodeLandmarks(data []byte, layout PointLayout) ([]domain.Landmark, error) {
	fc, err := decodeCollection(data)
	if err != nil {
		return nil, err
	}

	var out []domain.Landmark
	for _, f := range fc.Features {
		if f.Geometry == nil || !f.Geometry.IsPoint() || len(f.Geometry.Point) < 2 {
			continue
		}
		out = append(out, domain.Landmark{
			Name:       property(f, layout.NameField),
			ExternalID: property(f, layout.ExternalIDField),
			Lon:        f.Geometry.Point[0],
			Lat:        f.Geometry.Point[1],
		})
	}
	return out, nil
}

func decodeCollection(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSource, err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%w: type %q is not a FeatureCollection", domain.ErrMalformedSource, fc.Type)
	}
	return fc, nil
}

// property returns a feature property as text. Numeric identifiers are
// formatted without a trailing ".0".
func property(f *geojson.Feature, name string) string {
	if name == "" {
		return ""
	}
	switch v := f.Properties[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
