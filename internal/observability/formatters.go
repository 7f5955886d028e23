// Package observability provides logging, metrics and formatted run output.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/pagespeed-recorder/internal/schema"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunReport outputs a summary of a run and every failed record.
func (p *Printer) PrintRunReport(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Schema:    v%d\n", report.SchemaVersion))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Succeeded: %d\n", report.Count(types.StatusSucceeded)))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", report.Count(types.StatusFailed)))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", report.Count(types.StatusSkipped)))
	sb.WriteString(fmt.Sprintf("Duplicate: %d\n", report.Count(types.StatusDuplicate)))

	failures := report.Failures()
	if len(failures) > 0 {
		sb.WriteString("\nFailures:\n")
		count := min(len(failures), maxItemsToShow)
		for _, f := range failures[:count] {
			sb.WriteString(fmt.Sprintf("✗ row %d id=%s [%s]\n", f.Row, f.ID, f.Kind))
			if f.URL != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", f.URL))
			}
		}
		if len(failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failures)-maxItemsToShow))
		}
	}

	title := "✅ RUN SUCCEEDED"
	if report.Failed() {
		title = "❌ RUN FAILED"
	}
	p.printBox(title, sb.String())
}

// PrintRow outputs the non-missing columns of a row. Missing columns are
// counted rather than listed.
func (p *Printer) PrintRow(row types.OutputRow) {
	header := schema.Header()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", row.Timestamp))
	sb.WriteString(fmt.Sprintf("URL:       %s\n", row.URL))
	sb.WriteString("\n")

	missing := 0
	for i, c := range row.Cells {
		if !c.Valid {
			missing++
			continue
		}
		name := fmt.Sprintf("#%d", i+2)
		if i+2 < len(header) {
			name = header[i+2]
		}
		sb.WriteString(fmt.Sprintf("%-34s %s\n", name, c))
	}
	sb.WriteString(fmt.Sprintf("\n%d of %d columns missing\n", missing, len(row.Cells)))

	p.printBox("AUDIT ROW", sb.String())
}
