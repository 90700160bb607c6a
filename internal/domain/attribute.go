package domain

import (
	"math"
	"strconv"
	"strings"
)

// DefaultAttributes is the ordered list of selectable attributes in the
// ARTCC dataset. The first entry is the initially expressed attribute.
var DefaultAttributes = []string{
	"Million Passengers Departed",
	"Million Pounds of Cargo",
	"Miles (avg) to Landing per Passenger",
	"% of Flights Delayed",
	"% of Flights Cancelled",
}

// AttributeRow is one record of the tabular dataset. It is immutable after load.
type AttributeRow struct {
	Key        string
	Name       string
	ExternalID string

	// Values holds the parsed attribute values; NaN marks an unparseable cell.
	Values map[string]float64

	// Raw keeps the source text of each attribute cell for integrity reports.
	Raw map[string]string
}

// Value returns the row's value for attr, or NaN when the row has none.
func (r AttributeRow) Value(attr string) float64 {
	v, ok := r.Values[attr]
	if !ok {
		return math.NaN()
	}
	return v
}

// AttributeTable is the ordered collection of attribute rows.
type AttributeTable struct {
	attributes []string
	rows       []AttributeRow
}

// NewAttributeTable wraps rows, preserving their input order.
func NewAttributeTable(attributes []string, rows []AttributeRow) *AttributeTable {
	return &AttributeTable{
		attributes: append([]string(nil), attributes...),
		rows:       rows,
	}
}

// Attributes returns the configured attribute names in order.
func (t *AttributeTable) Attributes() []string { return t.attributes }

// Rows returns the rows in input order. Callers must not modify them.
func (t *AttributeTable) Rows() []AttributeRow { return t.rows }

// Len returns the number of rows.
func (t *AttributeTable) Len() int { return len(t.rows) }

// Row returns the row at index i.
func (t *AttributeTable) Row(i int) AttributeRow { return t.rows[i] }

// Lookup returns the last row whose key matches, consistent with the
// last-writer-wins rule applied by Join.
func (t *AttributeTable) Lookup(key string) (AttributeRow, bool) {
	for i := len(t.rows) - 1; i >= 0; i-- {
		if t.rows[i].Key == key {
			return t.rows[i], true
		}
	}
	return AttributeRow{}, false
}

// Values collects attr from every row in input order, NaN where missing.
func (t *AttributeTable) Values(attr string) []float64 {
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Value(attr)
	}
	return out
}

// ParseValue parses an attribute cell. Empty and non-numeric text yield NaN.
func ParseValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// IsMissing reports whether v is the "no data" value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
