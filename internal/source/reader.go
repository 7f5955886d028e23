package source

import (
	"fmt"
	"strings"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// Column positions in the input sheet.
const (
	ColumnID  = 0
	ColumnURL = 1
)

// Entry is the reading of one data row: a record, a skip, or an error.
type Entry struct {
	Row     int
	Record  *types.SourceRecord
	Skipped bool
	Err     error
}

// ReadSources reads every row after the header. A row with an empty id is
// skipped; a row with an id but no url yields a *ValidationError.
func ReadSources(grid [][]string) []Entry {
	if len(grid) <= 1 {
		return nil
	}

	entries := make([]Entry, 0, len(grid)-1)
	for i, cells := range grid[1:] {
		row := i + 2
		entries = append(entries, readRow(row, cells))
	}
	return entries
}

// Records returns only the valid records of entries, in order.
func Records(entries []Entry) []types.SourceRecord {
	var records []types.SourceRecord
	for _, e := range entries {
		if e.Record != nil {
			records = append(records, *e.Record)
		}
	}
	return records
}

func readRow(row int, cells []string) Entry {
	id := cell(cells, ColumnID)
	if id == "" {
		// an empty id marks the end of the list or an unused row
		return Entry{Row: row, Skipped: true}
	}

	record := &types.SourceRecord{
		Row: row,
		ID:  id,
		URL: cell(cells, ColumnURL),
	}
	if err := record.Validate(); err != nil {
		return Entry{Row: row, Err: &ValidationError{
			Row:     row,
			ID:      id,
			Message: fmt.Sprintf("url missing for id=%s", id),
			Cause:   err,
		}}
	}
	return Entry{Row: row, Record: record}
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
