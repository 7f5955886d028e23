// Package pipeline runs the audit of every source record and records one
// row per record in its destination sheet.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pagespeed-recorder/internal/db"
	"github.com/jonathan/pagespeed-recorder/internal/mapping"
	"github.com/jonathan/pagespeed-recorder/internal/observability"
	"github.com/jonathan/pagespeed-recorder/internal/schema"
	"github.com/jonathan/pagespeed-recorder/internal/sheets"
	"github.com/jonathan/pagespeed-recorder/internal/source"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// SourceFetcher returns the formatted cell values of a sheet.
type SourceFetcher interface {
	FetchGrid(ctx context.Context, sheetName string) ([][]string, error)
}

// Auditor runs one PageSpeed audit.
type Auditor interface {
	RunAudit(ctx context.Context, url string) (*types.AuditResult, error)
}

// Sink appends a row to a destination sheet.
type Sink interface {
	WriteRow(ctx context.Context, sheetName string, row types.OutputRow) error
}

// Ledger remembers which sheets were written on which day and keeps run
// reports. db.Store satisfies it.
type Ledger interface {
	AlreadyWritten(ctx context.Context, sheet, runDate string) (bool, error)
	MarkWritten(ctx context.Context, sheet, runDate string, runID uuid.UUID) error
	SaveReport(ctx context.Context, report *types.RunReport) error
}

// ProgressEvent is emitted once per finished source row
type ProgressEvent struct {
	RunID   uuid.UUID     `json:"run_id"`
	Outcome types.Outcome `json:"outcome"`
}

// ProgressCallback is called when a source row finishes. It may be called
// from several goroutines at once.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// SourceSheet names the sheet holding (id, url) rows. Defaults to "urls".
	SourceSheet string
	// Concurrency caps in-flight records; 0 means unbounded.
	Concurrency int
	// Ledger is optional.
	Ledger     Ledger
	Logger     *zap.Logger
	Now        func() time.Time
	OnProgress ProgressCallback
}

// Orchestrator fans the source records out to the auditor and the sink
type Orchestrator struct {
	source  SourceFetcher
	auditor Auditor
	sink    Sink
	opts    RunOptions
}

// New creates an Orchestrator, filling unset options with defaults
func New(src SourceFetcher, auditor Auditor, sink Sink, opts RunOptions) *Orchestrator {
	if opts.SourceSheet == "" {
		opts.SourceSheet = sheets.DefaultSourceSheet
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{source: src, auditor: auditor, sink: sink, opts: opts}
}

// Run reads the source sheet and processes every record. All records are
// processed even when some fail. The report is returned whenever the source
// sheet could be read; if any record failed the error is a *RunFailedError.
func (o *Orchestrator) Run(ctx context.Context) (*types.RunReport, error) {
	report := &types.RunReport{
		RunID:         uuid.New(),
		SchemaVersion: schema.Version,
		StartedAt:     o.opts.Now(),
	}
	runDate := report.StartedAt.Format(db.RunDateLayout)
	logger := o.opts.Logger.With(zap.String("run_id", report.RunID.String()))

	grid, err := o.source.FetchGrid(ctx, o.opts.SourceSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read source sheet %q: %w", o.opts.SourceSheet, err)
	}

	entries := source.ReadSources(grid)
	logger.Info("starting run",
		zap.Int("rows", len(entries)),
		zap.Int("concurrency", o.opts.Concurrency),
		zap.String("run_date", runDate))

	report.Outcomes = make([]types.Outcome, len(entries))

	var g errgroup.Group
	if o.opts.Concurrency > 0 {
		g.SetLimit(o.opts.Concurrency)
	}

	for i, entry := range entries {
		switch {
		case entry.Skipped:
			o.finish(report, i, types.Outcome{Row: entry.Row, Status: types.StatusSkipped})
		case entry.Err != nil:
			o.finish(report, i, failed(types.Outcome{Row: entry.Row, ID: idOf(entry)}, entry.Err))
		default:
			rec := *entry.Record
			g.Go(func() error {
				o.finish(report, i, o.processRecord(ctx, logger, report.RunID, runDate, rec))
				return nil
			})
		}
	}
	_ = g.Wait()

	report.FinishedAt = o.opts.Now()
	observability.RecordRun(report)

	if o.opts.Ledger != nil {
		if err := o.opts.Ledger.SaveReport(ctx, report); err != nil {
			logger.Warn("failed to save run report", zap.Error(err))
		}
	}

	logger.Info("run finished",
		zap.Int("succeeded", report.Count(types.StatusSucceeded)),
		zap.Int("failed", report.Count(types.StatusFailed)),
		zap.Int("skipped", report.Count(types.StatusSkipped)),
		zap.Int("duplicate", report.Count(types.StatusDuplicate)),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))

	if report.Failed() {
		return report, &RunFailedError{Failures: report.Failures()}
	}
	return report, nil
}

// processRecord audits one record and appends its row.
func (o *Orchestrator) processRecord(ctx context.Context, logger *zap.Logger, runID uuid.UUID, runDate string, rec types.SourceRecord) types.Outcome {
	sheet := sheets.SheetNameForID(rec.ID)
	outcome := types.Outcome{Row: rec.Row, ID: rec.ID, URL: rec.URL, Sheet: sheet}
	logger = logger.With(zap.String("id", rec.ID), zap.String("url", rec.URL))

	if o.opts.Ledger != nil {
		written, err := o.opts.Ledger.AlreadyWritten(ctx, sheet, runDate)
		if err != nil {
			logger.Warn("failed to check ledger", zap.Error(err))
		} else if written {
			logger.Info("row already written today", zap.String("sheet", sheet))
			outcome.Status = types.StatusDuplicate
			return outcome
		}
	}

	done := observability.AuditStarted()
	result, err := o.auditor.RunAudit(ctx, rec.URL)
	done()
	if err != nil {
		return failed(outcome, err)
	}

	row, err := mapping.BuildRow(result, rec.URL, o.opts.Now())
	if err != nil {
		return failed(outcome, err)
	}

	if err := o.sink.WriteRow(ctx, sheet, row); err != nil {
		return failed(outcome, err)
	}
	logger.Debug("row written", zap.String("sheet", sheet))

	if o.opts.Ledger != nil {
		if err := o.opts.Ledger.MarkWritten(ctx, sheet, runDate, runID); err != nil {
			logger.Warn("failed to record sheet write", zap.Error(err))
		}
	}

	outcome.Status = types.StatusSucceeded
	return outcome
}

// finish stores the outcome of row i. Each index is written by exactly one
// goroutine.
func (o *Orchestrator) finish(report *types.RunReport, i int, outcome types.Outcome) {
	report.Outcomes[i] = outcome
	observability.RecordOutcome(outcome)

	if outcome.Status == types.StatusFailed {
		o.opts.Logger.Warn("record failed",
			zap.String("run_id", report.RunID.String()),
			zap.Int("row", outcome.Row),
			zap.String("id", outcome.ID),
			zap.String("kind", string(outcome.Kind)),
			zap.Error(outcome.Err))
	}

	if o.opts.OnProgress != nil {
		o.opts.OnProgress(ProgressEvent{RunID: report.RunID, Outcome: outcome})
	}
}

func failed(o types.Outcome, err error) types.Outcome {
	o.Status = types.StatusFailed
	o.Kind = KindOf(err)
	o.Error = err.Error()
	o.Err = err
	return o
}

func idOf(e source.Entry) string {
	var ve *source.ValidationError
	if errors.As(e.Err, &ve) {
		return ve.ID
	}
	return ""
}
