package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// SQLiteDB is the file-backed ledger for single-machine use.
type SQLiteDB struct {
	db   *sql.DB
	path string
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS audit_runs (
		id TEXT PRIMARY KEY,
		schema_version INTEGER NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		report TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_outcomes (
		run_id TEXT NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		row_number INTEGER NOT NULL,
		record_id TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		sheet TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error_kind TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, row_number)
	)`,
	`CREATE TABLE IF NOT EXISTS sheet_writes (
		sheet TEXT NOT NULL,
		run_date TEXT NOT NULL,
		run_id TEXT NOT NULL,
		written_at TEXT NOT NULL,
		PRIMARY KEY (sheet, run_date)
	)`,
}

// OpenSQLite opens or creates the database file at path and its tables.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports one writer
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &SQLiteDB{db: db, path: path}, nil
}

// Close closes the database.
func (s *SQLiteDB) Close() {
	_ = s.db.Close()
}

// AlreadyWritten reports whether sheet received a row on runDate.
func (s *SQLiteDB) AlreadyWritten(ctx context.Context, sheet, runDate string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheet_writes WHERE sheet = ? AND run_date = ?`,
		sheet, runDate,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check sheet write: %w", err)
	}
	return n > 0, nil
}

// MarkWritten records that sheet received a row on runDate.
func (s *SQLiteDB) MarkWritten(ctx context.Context, sheet, runDate string, runID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sheet_writes (sheet, run_date, run_id, written_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (sheet, run_date) DO NOTHING`,
		sheet, runDate, runID.String(), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record sheet write: %w", err)
	}
	return nil
}

// SaveReport stores a run report and its outcomes in one transaction.
func (s *SQLiteDB) SaveReport(ctx context.Context, report *types.RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_runs (id, schema_version, status, started_at, finished_at, report)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		     status = excluded.status,
		     finished_at = excluded.finished_at,
		     report = excluded.report`,
		report.RunID.String(), report.SchemaVersion, runStatus(report),
		report.StartedAt.UTC().Format(time.RFC3339Nano), report.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_outcomes WHERE run_id = ?`, report.RunID.String()); err != nil {
		return fmt.Errorf("failed to clear run outcomes: %w", err)
	}

	for _, o := range report.Outcomes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_outcomes (run_id, row_number, record_id, url, sheet, status, error_kind, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID.String(), o.Row, o.ID, o.URL, o.Sheet, string(o.Status), string(o.Kind), o.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to save run outcome for row %d: %w", o.Row, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run report: %w", err)
	}
	return nil
}

// GetReport returns the report of a run, or nil if unknown.
func (s *SQLiteDB) GetReport(ctx context.Context, runID uuid.UUID) (*types.RunReport, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM audit_runs WHERE id = ?`,
		runID.String(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}
	return decodeReport([]byte(data))
}

// ListRuns returns recent runs, newest first.
func (s *SQLiteDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM audit_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		report, err := decodeReport([]byte(data))
		if err != nil {
			return nil, err
		}
		runs = append(runs, summarize(report))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
