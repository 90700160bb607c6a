// Package domain models the ARTCC attribute table, the region boundaries it is
// joined onto, and the view-independent rules that drive the choropleth and
// the coordinated bar chart.
//
// # Data Sources
//
// Attribute rows come from a CSV export of FAA and Bureau of Transportation
// Statistics figures, one row per Air Route Traffic Control Center (ARTCC).
// Region boundaries come from a GeoJSON feature collection of ARTCC polygons.
// Both are keyed by the three-letter center identifier:
//
//	IDENT  →  e.g. "ZAU" (Chicago Center), "ZNY" (New York Center)
//
// Each row also carries a display name ("NAME", the top airport's city) and an
// external lookup code ("ICAO_ID", e.g. "KORD") used to open airport details.
//
// # Value Conventions
//
// Attribute cells are parsed as float64. Empty or non-numeric cells become NaN,
// which is the single "no data" representation everywhere downstream: it
// classifies as [NoData], renders with the palette's fallback colour, sorts
// after every defined value and gives a zero-height bar. A literal 0 is data.
//
// # Classification
//
// [QuantileScale] bins the defined values of the expressed attribute into n
// equal-count classes (7 by default). Thresholds are the k/n quantiles of the
// ascending values with linear interpolation between closest ranks:
//
//	h = (len-1)·p,  q(p) = x[⌊h⌋] + (x[⌊h⌋+1] − x[⌊h⌋])·(h − ⌊h⌋)
//
// A value's class is the count of thresholds less than or equal to it.
//
// # Axis Heuristic
//
// The bar chart does not fit min/max exactly; it zooms to the interesting
// range (see [ComputeAxisRange]):
//
//	upper = round(max + max·0.05)
//	lower = 0                  if min − max·0.1 < 0
//	lower = min − max·0.05     otherwise
package domain
