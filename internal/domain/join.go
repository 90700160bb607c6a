package domain

import "sort"

// Join copies each configured attribute from the rows onto every region with
// the same key. Rows are applied in input order, so a later row for the same
// key overwrites an earlier one. Regions without a matching row are left
// untouched. The regions are mutated in place and returned for chaining.
func Join(regions []*Region, rows []AttributeRow, attributes []string) []*Region {
	for _, row := range rows {
		// Linear scan is fine at this scale (a few dozen centers).
		for _, region := range regions {
			if region.Key != row.Key {
				continue
			}
			if region.Attributes == nil {
				region.Attributes = make(map[string]float64, len(attributes))
			}
			for _, attr := range attributes {
				region.Attributes[attr] = row.Value(attr)
			}
			if region.DisplayName == "" {
				region.DisplayName = row.Name
			}
			if region.ExternalID == "" {
				region.ExternalID = row.ExternalID
			}
		}
	}
	return regions
}

// ParseFailure records an attribute cell that held text but no number.
type ParseFailure struct {
	Key       string
	Attribute string
	Raw       string
}

// JoinReport summarizes how an attribute table lines up with the regions.
type JoinReport struct {
	Matched       []string       // region keys with at least one row
	Unmatched     []string       // region keys with no row; these render as no data
	Orphans       []string       // row keys with no region
	Duplicates    map[string]int // row keys appearing more than once, with counts
	ParseFailures []ParseFailure
}

// Audit inspects the join without modifying anything.
func Audit(regions []*Region, table *AttributeTable) JoinReport {
	rep := JoinReport{Duplicates: map[string]int{}}

	rowCount := make(map[string]int, table.Len())
	for _, row := range table.Rows() {
		rowCount[row.Key]++
		for _, attr := range table.Attributes() {
			raw := row.Raw[attr]
			if raw != "" && IsMissing(ParseValue(raw)) {
				rep.ParseFailures = append(rep.ParseFailures, ParseFailure{Key: row.Key, Attribute: attr, Raw: raw})
			}
		}
	}
	for key, n := range rowCount {
		if n > 1 {
			rep.Duplicates[key] = n
		}
	}

	regionKeys := make(map[string]bool, len(regions))
	for _, r := range regions {
		if regionKeys[r.Key] {
			continue
		}
		regionKeys[r.Key] = true
		if rowCount[r.Key] > 0 {
			rep.Matched = append(rep.Matched, r.Key)
		} else {
			rep.Unmatched = append(rep.Unmatched, r.Key)
		}
	}
	for key := range rowCount {
		if !regionKeys[key] {
			rep.Orphans = append(rep.Orphans, key)
		}
	}
	sort.Strings(rep.Orphans)
	return rep
}
