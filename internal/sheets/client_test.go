package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

const testSpreadsheetID = "sheet-123"

// fakeSheets serves the subset of the Sheets API the client uses.
type fakeSheets struct {
	mu       sync.Mutex
	titles   []string
	grid     [][]string
	appended map[string][][]interface{}
	failGet  bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/spreadsheets/"+testSpreadsheetID):
		if f.failGet {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(f.spreadsheet(r.URL.Query().Get("includeGridData") == "true"))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		rng := strings.TrimSuffix(r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:], ":append")
		if f.appended == nil {
			f.appended = make(map[string][][]interface{})
		}
		f.appended[rng] = append(f.appended[rng], vr.Values...)
		_ = json.NewEncoder(w).Encode(&sheets.AppendValuesResponse{SpreadsheetId: testSpreadsheetID})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeSheets) spreadsheet(withGrid bool) *sheets.Spreadsheet {
	resp := &sheets.Spreadsheet{SpreadsheetId: testSpreadsheetID}
	for _, title := range f.titles {
		s := &sheets.Sheet{Properties: &sheets.SheetProperties{Title: title}}
		if withGrid && title == DefaultSourceSheet {
			data := &sheets.GridData{}
			for _, row := range f.grid {
				rd := &sheets.RowData{}
				for _, v := range row {
					rd.Values = append(rd.Values, &sheets.CellData{FormattedValue: v})
				}
				data.RowData = append(data.RowData, rd)
			}
			s.Data = []*sheets.GridData{data}
		}
		resp.Sheets = append(resp.Sheets, s)
	}
	return resp
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), testSpreadsheetID, []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithoutAuthentication(),
	}, nil)
	require.NoError(t, err)
	return c
}

func TestSheetNameForID(t *testing.T) {
	assert.Equal(t, "url1", SheetNameForID("1"))
	assert.Equal(t, "url42", SheetNameForID("42"))
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'urls'", quoteSheet("urls"))
	assert.Equal(t, "'it''s'", quoteSheet("it's"))
}

func TestFetchGrid(t *testing.T) {
	fake := &fakeSheets{
		titles: []string{DefaultSourceSheet, "url1"},
		grid: [][]string{
			{"id", "url"},
			{"1", "https://example.com"},
			{"", "https://ignored.example.com"},
		},
	}
	c := newTestClient(t, fake)

	grid, err := c.FetchGrid(context.Background(), DefaultSourceSheet)
	require.NoError(t, err)
	assert.Equal(t, fake.grid, grid)
}

func TestFetchGrid_SourceMissing(t *testing.T) {
	c := newTestClient(t, &fakeSheets{titles: []string{"url1"}})

	_, err := c.FetchGrid(context.Background(), DefaultSourceSheet)
	var notFound *SourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, DefaultSourceSheet, notFound.Sheet)
}

func TestFetchGrid_APIError(t *testing.T) {
	c := newTestClient(t, &fakeSheets{failGet: true})

	_, err := c.FetchGrid(context.Background(), DefaultSourceSheet)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "get source grid", apiErr.Op)
}

func TestWriteRow_Appends(t *testing.T) {
	fake := &fakeSheets{titles: []string{DefaultSourceSheet, "url1"}}
	c := newTestClient(t, fake)

	row := types.OutputRow{
		Timestamp: "2024-03-01T09:30:00+09:00",
		URL:       "https://example.com",
		Cells:     []types.Cell{types.Number(0.9), types.Missing()},
	}
	require.NoError(t, c.WriteRow(context.Background(), "url1", row))

	rows := fake.appended["'url1'"]
	require.Len(t, rows, 1)
	assert.Equal(t, []interface{}{"2024-03-01T09:30:00+09:00", "https://example.com", 0.9, types.MissingMarker}, rows[0])
}

func TestWriteRow_DestinationNotFound(t *testing.T) {
	fake := &fakeSheets{titles: []string{DefaultSourceSheet}}
	c := newTestClient(t, fake)

	err := c.WriteRow(context.Background(), "url9", types.OutputRow{})
	var notFound *DestinationNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "url9", notFound.Sheet)
	assert.Empty(t, fake.appended)
}

func TestWriteRow_ListError(t *testing.T) {
	c := newTestClient(t, &fakeSheets{failGet: true})

	err := c.WriteRow(context.Background(), "url1", types.OutputRow{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "list sheets", apiErr.Op)
}
