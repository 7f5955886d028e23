//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strconv"
)

// MissingMarker is written to the sheet in place of an absent value.
// Sheets parses it as the #N/A error value, never as an empty string.
const MissingMarker = "#N/A"

// Cell is one numeric slot of an OutputRow.
type Cell struct {
	Value float64
	Valid bool
}

// Number returns a present cell.
func Number(v float64) Cell {
	return Cell{Value: v, Valid: true}
}

// Missing returns the missing cell.
func Missing() Cell {
	return Cell{}
}

// CellOf returns Number(*v), or Missing when v is nil.
func CellOf(v *float64) Cell {
	if v == nil {
		return Missing()
	}
	return Number(*v)
}

// String formats the cell as it appears in the sheet.
func (c Cell) String() string {
	if !c.Valid {
		return MissingMarker
	}
	return strconv.FormatFloat(c.Value, 'f', -1, 64)
}

// MarshalJSON encodes missing cells as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// OutputRow is one flattened audit row: timestamp, url, then one cell per
// metric, category and audit key in schema order.
type OutputRow struct {
	Timestamp string
	URL       string
	Cells     []Cell
}

// Len returns the number of columns the row occupies.
func (r OutputRow) Len() int {
	return 2 + len(r.Cells)
}

// Values returns the row as sheet values. Missing cells become MissingMarker.
func (r OutputRow) Values() []any {
	values := make([]any, 0, r.Len())
	values = append(values, r.Timestamp, r.URL)
	for _, c := range r.Cells {
		if c.Valid {
			values = append(values, c.Value)
		} else {
			values = append(values, MissingMarker)
		}
	}
	return values
}

// MarshalJSON encodes the row as a flat array with null for missing cells.
func (r OutputRow) MarshalJSON() ([]byte, error) {
	values := make([]any, 0, r.Len())
	values = append(values, r.Timestamp, r.URL)
	for _, c := range r.Cells {
		values = append(values, c)
	}
	return json.Marshal(values)
}
