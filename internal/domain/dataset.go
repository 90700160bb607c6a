package domain

import "time"

// Dataset is everything the views need, produced once by the loader.
// Regions already carry the joined attribute values.
type Dataset struct {
	Table     *AttributeTable
	Regions   *RegionIndex
	Overlays  []Layer
	Landmarks []Landmark
	Report    JoinReport
	LoadedAt  time.Time
}

// NewDataset joins the table onto the regions and stamps the load time.
func NewDataset(table *AttributeTable, regions []*Region, overlays []Layer, landmarks []Landmark) *Dataset {
	Join(regions, table.Rows(), table.Attributes())
	return &Dataset{
		Table:     table,
		Regions:   NewRegionIndex(regions),
		Overlays:  overlays,
		Landmarks: landmarks,
		Report:    Audit(regions, table),
		LoadedAt:  clock.Now(),
	}
}
