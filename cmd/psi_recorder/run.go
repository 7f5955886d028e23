package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagespeed-recorder/internal/config"
	"github.com/jonathan/pagespeed-recorder/internal/observability"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

var runFlags recorderFlags

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Audit every url of the source sheet and append one row per url",
	Long: `Reads the source sheet, audits every (id, url) row concurrently and appends the flattened
result to the sheet "url<id>". Rows with an empty id are skipped. The command exits non-zero
if any row failed; rows of the other urls are still written.

Without a run ledger every run audits every url and appends a fresh row. With a run ledger
(--db-url) a url whose sheet already received a row today is reported as duplicate and is
neither audited nor written again, so a second run on the same day does not refresh rows.
Re-running after a partial failure then only fills the gaps.

Configuration can be loaded from a JSON or YAML file using --config. Environment variables
override the file, and command-line flags override both. An environment variable set to 0
overrides a non-zero value from the file.`,
	RunE: runRecorderCmd,
}

func init() {
	runFlags.register(runCommand)
	rootCmd.AddCommand(runCommand)
}

func runRecorderCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := runFlags.resolve(cmd)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, err := newRecorder(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rec.Close()

	report, runErr := rec.run(ctx, nil)
	if report != nil {
		if err := writeReport(cmd.OutOrStdout(), cfg.Report, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return runErr
}

// writeReport renders the run report in the configured format.
func writeReport(w io.Writer, format string, report *types.RunReport) error {
	switch format {
	case config.ReportMarkdown:
		return observability.WriteMarkdownReport(w, report)
	case config.ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		observability.NewPrinter(w).PrintRunReport(report)
		return nil
	}
}
