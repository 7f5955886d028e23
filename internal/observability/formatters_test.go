package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

func sampleReport() *types.RunReport {
	started := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return &types.RunReport{
		RunID:         uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		SchemaVersion: 1,
		StartedAt:     started,
		FinishedAt:    started.Add(42 * time.Second),
		Outcomes: []types.Outcome{
			{Row: 2, ID: "1", URL: "https://example.com", Sheet: "url1", Status: types.StatusSucceeded},
			{Row: 3, ID: "2", Status: types.StatusFailed, Kind: types.KindValidation, Error: "url missing for id=2"},
			{Row: 4, Status: types.StatusSkipped},
			{Row: 5, ID: "3", URL: "https://down.example.com", Sheet: "url3", Status: types.StatusFailed, Kind: types.KindTransport},
		},
	}
}

func TestPrintRunReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunReport(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "RUN FAILED")
	assert.Contains(t, output, "550e8400-e29b-41d4-a716-446655440000")
	assert.Contains(t, output, "Succeeded: 1")
	assert.Contains(t, output, "Failed:    2")
	assert.Contains(t, output, "Skipped:   1")
	assert.Contains(t, output, "row 3 id=2 [validation]")
	assert.Contains(t, output, "row 5 id=3 [transport]")
	assert.Contains(t, output, "https://down.example.com")
}

func TestPrintRunReport_Success(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := sampleReport()
	report.Outcomes = report.Outcomes[:1]
	p.PrintRunReport(report)

	assert.Contains(t, buf.String(), "RUN SUCCEEDED")
	assert.NotContains(t, buf.String(), "Failures:")
}

func TestPrintRunReport_TruncatesFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := sampleReport()
	report.Outcomes = nil
	for i := 0; i < maxItemsToShow+3; i++ {
		report.Outcomes = append(report.Outcomes, types.Outcome{
			Row: i + 2, ID: fmt.Sprint(i), Status: types.StatusFailed, Kind: types.KindTransport,
		})
	}
	p.PrintRunReport(report)

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintRunReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunReport(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRow(types.OutputRow{
		Timestamp: "2024-03-01T09:30:00Z",
		URL:       "https://example.com",
		Cells:     []types.Cell{types.Number(5), types.Missing(), types.Missing()},
	})
	output := buf.String()

	assert.Contains(t, output, "AUDIT ROW")
	assert.Contains(t, output, "CUMULATIVE_LAYOUT_SHIFT_SCORE")
	assert.NotContains(t, output, "FIRST_CONTENTFUL_PAINT_MS")
	assert.Contains(t, output, "2 of 3 columns missing")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", boxWidth*2))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}

func TestWriteMarkdownReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdownReport(&buf, sampleReport()))
	output := buf.String()

	assert.Contains(t, output, "# PageSpeed Run Report")
	assert.Contains(t, output, "## Summary")
	assert.Contains(t, output, "## Records")
	assert.Contains(t, output, "https://example.com")
	assert.Contains(t, output, "validation")
	assert.Contains(t, output, "[!CAUTION]")
}

func TestWriteMarkdownReport_Success(t *testing.T) {
	var buf bytes.Buffer
	report := sampleReport()
	report.Outcomes = report.Outcomes[:1]
	require.NoError(t, WriteMarkdownReport(&buf, report))

	assert.Contains(t, buf.String(), "[!TIP]")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(false)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	verbose, err := NewLogger(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(-1), "debug enabled in verbose mode")
}
