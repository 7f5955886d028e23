package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/pagespeed-recorder/internal/audit"
	"github.com/jonathan/pagespeed-recorder/internal/config"
	"github.com/jonathan/pagespeed-recorder/internal/db"
	"github.com/jonathan/pagespeed-recorder/internal/pipeline"
	"github.com/jonathan/pagespeed-recorder/internal/sheets"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

// recorder holds the clients one configuration needs for running the
// pipeline.
type recorder struct {
	cfg     config.Config
	logger  *zap.Logger
	auditor *audit.Client
	sheets  *sheets.Client
	store   db.Store
}

func newRecorder(ctx context.Context, cfg config.Config, logger *zap.Logger) (*recorder, error) {
	apiOpts := cfg.GoogleOptions()

	auditor, err := audit.NewClient(ctx, apiOpts,
		audit.WithLogger(logger),
		audit.WithRateLimit(cfg.AuditsPerSecond))
	if err != nil {
		return nil, err
	}

	sheetsClient, err := sheets.NewClient(ctx, cfg.SpreadsheetID, apiOpts, logger)
	if err != nil {
		return nil, err
	}

	r := &recorder{cfg: cfg, logger: logger, auditor: auditor, sheets: sheetsClient}

	if cfg.DatabaseURL != "" {
		store, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open run ledger: %w", err)
		}
		r.store = store
		logger.Debug("run ledger enabled")
	}

	return r, nil
}

// run executes one pipeline run.
func (r *recorder) run(ctx context.Context, onProgress pipeline.ProgressCallback) (*types.RunReport, error) {
	opts := pipeline.RunOptions{
		SourceSheet: r.cfg.SourceSheet,
		Concurrency: r.cfg.Concurrency,
		Logger:      r.logger,
		OnProgress:  onProgress,
	}
	if r.store != nil {
		opts.Ledger = r.store
	}
	return pipeline.New(r.sheets, r.auditor, r.sheets, opts).Run(ctx)
}

func (r *recorder) Close() {
	if r.store != nil {
		r.store.Close()
	}
	_ = r.logger.Sync()
}
