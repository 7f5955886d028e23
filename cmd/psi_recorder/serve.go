package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagespeed-recorder/internal/config"
	"github.com/jonathan/pagespeed-recorder/internal/observability"
	"github.com/jonathan/pagespeed-recorder/internal/server"
)

var (
	serveFlags recorderFlags
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server for triggering runs and reading run history.

  POST /runs         run the pipeline and answer with its report (bearer token required)
  POST /runs/stream  same, streaming one server-sent event per row (bearer token required)
  GET  /runs         recent runs (requires a run ledger)
  GET  /runs/{id}    one run report (requires a run ledger)
  GET  /health       liveness
  GET  /metrics      Prometheus metrics

Tokens are signed with JWT_SECRET; see the token command.`,
	RunE: runServe,
}

func init() {
	serveFlags.register(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serveFlags.resolve(cmd)
	if err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	rec, err := newRecorder(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer rec.Close()

	var store server.RunStore
	if rec.store != nil {
		store = rec.store
	}

	srv := server.New(server.Config{Port: servePort, Logger: logger}, rec.run, store, server.NewJWTService(jwtConfig))
	return srv.Start()
}
