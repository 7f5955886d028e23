package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS audit_runs (
		id UUID PRIMARY KEY,
		schema_version INT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		report JSONB NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS run_outcomes (
		run_id UUID NOT NULL REFERENCES audit_runs(id) ON DELETE CASCADE,
		row_number INT NOT NULL,
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
		run_id UUID NOT NULL,
		written_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (sheet, run_date)
	)`,
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the ledger tables if they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

// AlreadyWritten reports whether sheet received a row on runDate
func (db *DB) AlreadyWritten(ctx context.Context, sheet, runDate string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sheet_writes WHERE sheet = $1 AND run_date = $2)`,
		sheet, runDate,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check sheet write: %w", err)
	}
	return exists, nil
}

// MarkWritten records that sheet received a row on runDate
func (db *DB) MarkWritten(ctx context.Context, sheet, runDate string, runID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO sheet_writes (sheet, run_date, run_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (sheet, run_date) DO NOTHING`,
		sheet, runDate, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record sheet write: %w", err)
	}
	return nil
}

// SaveReport stores a run report and its outcomes in one transaction
func (db *DB) SaveReport(ctx context.Context, report *types.RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO audit_runs (id, schema_version, status, started_at, finished_at, report)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     status = $3,
		     finished_at = $5,
		     report = $6`,
		report.RunID, report.SchemaVersion, runStatus(report), report.StartedAt, report.FinishedAt, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM run_outcomes WHERE run_id = $1`, report.RunID); err != nil {
		return fmt.Errorf("failed to clear run outcomes: %w", err)
	}

	batch := &pgx.Batch{}
	for _, o := range report.Outcomes {
		batch.Queue(
			`INSERT INTO run_outcomes (run_id, row_number, record_id, url, sheet, status, error_kind, error)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			report.RunID, o.Row, o.ID, o.URL, o.Sheet, string(o.Status), string(o.Kind), o.Error,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save run outcomes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run report: %w", err)
	}
	return nil
}

// GetReport retrieves a run report by ID
func (db *DB) GetReport(ctx context.Context, runID uuid.UUID) (*types.RunReport, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT report FROM audit_runs WHERE id = $1`,
		runID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}
	return decodeReport(data)
}

// ListRuns returns recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT report FROM audit_runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		report, err := decodeReport(data)
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
