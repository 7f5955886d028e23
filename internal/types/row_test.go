package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		wantStr  string
		wantJSON string
	}{
		{"number", Number(0.75), "0.75", "0.75"},
		{"zero is a value", Number(0), "0", "0"},
		{"integer", Number(2100), "2100", "2100"},
		{"missing", Missing(), MissingMarker, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStr, tt.cell.String())

			data, err := json.Marshal(tt.cell)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantJSON, string(data))
		})
	}
}

func TestCellOf(t *testing.T) {
	assert.Equal(t, Missing(), CellOf(nil))
	assert.Equal(t, Number(0), CellOf(Float(0)), "zero pointer is present")
	assert.Equal(t, Number(1), CellOf(Float(1)))
}

func TestOutputRow_Values(t *testing.T) {
	row := OutputRow{
		Timestamp: "2024-03-01T09:30:00Z",
		URL:       "https://example.com",
		Cells:     []Cell{Number(5), Missing(), Number(0)},
	}

	assert.Equal(t, 5, row.Len())
	assert.Equal(t, []any{"2024-03-01T09:30:00Z", "https://example.com", 5.0, MissingMarker, 0.0}, row.Values())
}

func TestOutputRow_MarshalJSON(t *testing.T) {
	row := OutputRow{
		Timestamp: "2024-03-01T09:30:00Z",
		URL:       "https://example.com",
		Cells:     []Cell{Number(0.5), Missing()},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `["2024-03-01T09:30:00Z", "https://example.com", 0.5, null]`, string(data))
}
