package domain

import (
	"math"
	"sort"
)

// Class is a visual class index in [0, classes). NoData marks a missing value.
type Class int

// NoData is the class of values that are missing or unparseable.
const NoData Class = -1

// DefaultClassCount is the number of quantile classes in the choropleth.
const DefaultClassCount = 7

// QuantileScale maps values to equal-count classes over a fixed distribution.
type QuantileScale struct {
	classes    int
	thresholds []float64
	defined    int
}

// BuildScale collects the expressed attribute from every row and builds a
// fresh quantile scale over the defined values.
func BuildScale(rows []AttributeRow, expressed string, classes int) *QuantileScale {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		values = append(values, r.Value(expressed))
	}
	return NewQuantileScale(values, classes)
}

// NewQuantileScale builds a scale with classes bins from values. NaN values
// are ignored. A classes value below 1 is treated as 1.
func NewQuantileScale(values []float64, classes int) *QuantileScale {
	if classes < 1 {
		classes = 1
	}
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsMissing(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)

	s := &QuantileScale{classes: classes, defined: len(sorted)}
	if len(sorted) == 0 {
		return s
	}
	s.thresholds = make([]float64, classes-1)
	for i := 1; i < classes; i++ {
		s.thresholds[i-1] = quantileSorted(sorted, float64(i)/float64(classes))
	}
	return s
}

// Classify returns the class for v, or NoData for NaN or an empty scale.
func (s *QuantileScale) Classify(v float64) Class {
	if IsMissing(v) || s.defined == 0 {
		return NoData
	}
	// bisect right: number of thresholds <= v
	return Class(sort.Search(len(s.thresholds), func(i int) bool { return s.thresholds[i] > v }))
}

// Classes returns the number of classes.
func (s *QuantileScale) Classes() int { return s.classes }

// Thresholds returns the class breakpoints; class i starts at Thresholds()[i-1].
func (s *QuantileScale) Thresholds() []float64 { return s.thresholds }

// Defined returns how many non-missing values the scale was built from.
func (s *QuantileScale) Defined() int { return s.defined }

func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	i := int(math.Floor(h))
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (sorted[i+1]-sorted[i])*(h-float64(i))
}

// Palette assigns a colour to each class plus a fallback for NoData.
type Palette struct {
	Colors []string
	NoData string
}

// DefaultNoDataColor is the neutral gray drawn for missing values.
const DefaultNoDataColor = "#cccccc"

// gnbu holds the ColorBrewer GnBu ramps by class count.
var gnbu = map[int][]string{
	3: {"#e0f3db", "#a8ddb5", "#43a2ca"},
	4: {"#f0f9e8", "#bae4bc", "#7bccc4", "#2b8cbe"},
	5: {"#f0f9e8", "#bae4bc", "#7bccc4", "#43a2ca", "#0868ac"},
	6: {"#f0f9e8", "#ccebc5", "#a8ddb5", "#7bccc4", "#43a2ca", "#0868ac"},
	7: {"#f0f9e8", "#ccebc5", "#a8ddb5", "#7bccc4", "#4eb3d3", "#2b8cbe", "#08589e"},
	8: {"#f7fcf0", "#e0f3db", "#ccebc5", "#a8ddb5", "#7bccc4", "#4eb3d3", "#2b8cbe", "#08589e"},
	9: {"#f7fcf0", "#e0f3db", "#ccebc5", "#a8ddb5", "#7bccc4", "#4eb3d3", "#2b8cbe", "#0868ac", "#084081"},
}

// GnBu returns the GnBu ramp for classes between 3 and 9.
func GnBu(classes int) ([]string, bool) {
	colors, ok := gnbu[classes]
	if !ok {
		return nil, false
	}
	return append([]string(nil), colors...), true
}

// DefaultPalette is the seven-class GnBu ramp with a neutral gray fallback.
func DefaultPalette() Palette {
	colors, _ := GnBu(DefaultClassCount)
	return Palette{Colors: colors, NoData: DefaultNoDataColor}
}

// Color returns the colour for c. Out-of-range classes get the fallback.
func (p Palette) Color(c Class) string {
	if c < 0 || int(c) >= len(p.Colors) {
		return p.NoData
	}
	return p.Colors[c]
}
