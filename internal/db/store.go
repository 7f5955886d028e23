// Package db persists run reports and the ledger of rows already written,
// in PostgreSQL or a local SQLite file.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// Store is the run ledger used by the pipeline and the HTTP server.
type Store interface {
	// AlreadyWritten reports whether sheet received a row on runDate.
	AlreadyWritten(ctx context.Context, sheet, runDate string) (bool, error)
	// MarkWritten records that sheet received a row on runDate.
	MarkWritten(ctx context.Context, sheet, runDate string, runID uuid.UUID) error
	// SaveReport stores a finished run report, replacing one with the same id.
	SaveReport(ctx context.Context, report *types.RunReport) error
	// GetReport returns the report of a run, or nil if unknown.
	GetReport(ctx context.Context, runID uuid.UUID) (*types.RunReport, error)
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close()
}

// Open connects to a PostgreSQL database for postgres:// URLs and opens a
// SQLite file otherwise. Tables are created if missing.
func Open(ctx context.Context, dsn string) (Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		pg, err := Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	}

	return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
}

func runStatus(report *types.RunReport) string {
	if report.Failed() {
		return RunStatusFailed
	}
	return RunStatusSucceeded
}

func summarize(report *types.RunReport) RunSummary {
	return RunSummary{
		ID:            report.RunID,
		SchemaVersion: report.SchemaVersion,
		Status:        runStatus(report),
		StartedAt:     report.StartedAt,
		FinishedAt:    report.FinishedAt,
		Succeeded:     report.Count(types.StatusSucceeded),
		Failed:        report.Count(types.StatusFailed),
		Skipped:       report.Count(types.StatusSkipped),
	}
}

func decodeReport(data []byte) (*types.RunReport, error) {
	var report types.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode run report: %w", err)
	}
	return &report, nil
}
