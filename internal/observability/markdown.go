package observability

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// WriteMarkdownReport renders report as a Markdown document, one table row
// per outcome, for pasting into issues or chat.
func WriteMarkdownReport(w io.Writer, report *types.RunReport) error {
	md := markdown.NewMarkdown(w)

	md.H1("PageSpeed Run Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", "`" + report.RunID.String() + "`"},
			{"Started", report.StartedAt.Format(time.RFC3339)},
			{"Finished", report.FinishedAt.Format(time.RFC3339)},
			{"Schema version", strconv.Itoa(report.SchemaVersion)},
		},
	})
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Succeeded", strconv.Itoa(report.Count(types.StatusSucceeded))},
			{"❌ Failed", strconv.Itoa(report.Count(types.StatusFailed))},
			{"⏭ Skipped", strconv.Itoa(report.Count(types.StatusSkipped))},
			{"🔁 Duplicate", strconv.Itoa(report.Count(types.StatusDuplicate))},
		},
	})
	md.PlainText("")

	if report.Failed() {
		md.Cautionf("%d record(s) failed. Fix them and re-run; rows already written today are not appended twice when a ledger is configured.",
			report.Count(types.StatusFailed))
	} else {
		md.Tip("Every record was written or skipped.")
	}
	md.PlainText("")

	md.H2("Records")
	md.PlainText("")
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		rows = append(rows, []string{
			strconv.Itoa(o.Row),
			o.ID,
			o.URL,
			o.Sheet,
			string(o.Status),
			string(o.Kind),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Row", "ID", "URL", "Sheet", "Status", "Error kind"},
		Rows:   rows,
	})

	return md.Build()
}
