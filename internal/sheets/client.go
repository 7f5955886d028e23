package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// DefaultSourceSheet is the sheet holding the id/url list.
const DefaultSourceSheet = "urls"

const (
	valueInputOption = "USER_ENTERED"
	insertDataOption = "INSERT_ROWS"
)

// SheetNameForID returns the destination sheet name for a record id.
func SheetNameForID(id string) string {
	return "url" + id
}

// Client wraps the Sheets API for one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewClient creates a Client for spreadsheetID.
func NewClient(ctx context.Context, spreadsheetID string, apiOpts []option.ClientOption, logger *zap.Logger) (*Client, error) {
	svc, err := sheets.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// FetchGrid returns the formatted cell values of sheetName, one slice per row.
// Trailing empty cells may be absent.
func (c *Client) FetchGrid(ctx context.Context, sheetName string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Ranges(quoteSheet(sheetName)).
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &APIError{Op: "get source grid", Cause: err}
	}

	sheet := findSheet(resp.Sheets, sheetName)
	if sheet == nil {
		return nil, &SourceNotFoundError{Sheet: sheetName}
	}
	if len(sheet.Data) == 0 || sheet.Data[0] == nil {
		return nil, nil
	}

	rows := sheet.Data[0].RowData
	grid := make([][]string, len(rows))
	for i, row := range rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Values))
		for j, cell := range row.Values {
			if cell != nil {
				cells[j] = cell.FormattedValue
			}
		}
		grid[i] = cells
	}

	c.logger.Debug("fetched source grid", zap.String("sheet", sheetName), zap.Int("rows", len(grid)))
	return grid, nil
}

// WriteRow appends row to sheetName. It fails with *DestinationNotFoundError
// when the sheet does not exist.
func (c *Client) WriteRow(ctx context.Context, sheetName string, row types.OutputRow) error {
	titles, err := c.sheetTitles(ctx)
	if err != nil {
		return err
	}
	if !titles[sheetName] {
		return &DestinationNotFoundError{Sheet: sheetName}
	}

	vr := &sheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         [][]interface{}{row.Values()},
	}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, quoteSheet(sheetName), vr).
		ValueInputOption(valueInputOption).
		InsertDataOption(insertDataOption).
		Context(ctx).
		Do()
	if err != nil {
		return &APIError{Op: "append row to " + sheetName, Cause: err}
	}

	c.logger.Debug("appended row", zap.String("sheet", sheetName), zap.Int("columns", row.Len()))
	return nil
}

func (c *Client) sheetTitles(ctx context.Context) (map[string]bool, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		IncludeGridData(false).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &APIError{Op: "list sheets", Cause: err}
	}

	titles := make(map[string]bool, len(resp.Sheets))
	for _, s := range resp.Sheets {
		if s != nil && s.Properties != nil {
			titles[s.Properties.Title] = true
		}
	}
	return titles, nil
}

func findSheet(all []*sheets.Sheet, title string) *sheets.Sheet {
	for _, s := range all {
		if s != nil && s.Properties != nil && s.Properties.Title == title {
			return s
		}
	}
	return nil
}

// quoteSheet renders a sheet name as an A1 range covering the whole sheet.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
