// Package csvtable decodes the tabular attribute dataset.
package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
)

// Layout names the columns the decoder reads.
type Layout struct {
	KeyField        string
	NameField       string
	ExternalIDField string
	Attributes      []string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses a CSV with a header row into an attribute table. The key
// column and every configured attribute column must be present; the name and
// external identifier columns are optional. Rows with an empty key are
// skipped. Unparseable attribute cells become NaN and keep their raw text.
func Decode(data []byte, layout Layout) (*domain.AttributeTable, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty attribute table", domain.ErrMalformedSource)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}
	keyCol, ok := columns[layout.KeyField]
	if !ok {
		return nil, fmt.Errorf("%w: key column %q missing", domain.ErrMalformedSource, layout.KeyField)
	}
	attrCols := make([]int, len(layout.Attributes))
	for i, attr := range layout.Attributes {
		col, ok := columns[attr]
		if !ok {
			return nil, fmt.Errorf("%w: attribute column %q missing", domain.ErrMalformedSource, attr)
		}
		attrCols[i] = col
	}
	nameCol, hasName := columns[layout.NameField]
	idCol, hasID := columns[layout.ExternalIDField]

	var rows []domain.AttributeRow
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		key := cell(record, keyCol)
		if key == "" {
			continue
		}
		row := domain.AttributeRow{
			Key:    key,
			Values: make(map[string]float64, len(attrCols)),
			Raw:    make(map[string]string, len(attrCols)),
		}
		if hasName {
			row.Name = cell(record, nameCol)
		}
		if hasID {
			row.ExternalID = cell(record, idCol)
		}
		for i, attr := range layout.Attributes {
			raw := cell(record, attrCols[i])
			row.Raw[attr] = raw
			row.Values[attr] = domain.ParseValue(raw)
		}
		rows = append(rows, row)
	}

	return domain.NewAttributeTable(layout.Attributes, rows), nil
}

func cell(record []string, col int) string {
	if col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}
