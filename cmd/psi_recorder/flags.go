package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/pagespeed-recorder/internal/config"
)

// recorderFlags are the configuration flags shared by run and serve.
type recorderFlags struct {
	configPath      string
	apiKey          string
	credentialsFile string
	spreadsheetID   string
	sourceSheet     string
	databaseURL     string
	concurrency     int
	auditsPerSecond float64
	report          string
	verbose         bool
}

func (f *recorderFlags) register(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by env and other flags)")

	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Google API key (defaults to GOOGLEAPIS_AUTH_KEY env var)")
	cmd.Flags().StringVar(&f.credentialsFile, "credentials", "", "Service account JSON file (defaults to GOOGLE_APPLICATION_CREDENTIALS env var)")
	cmd.Flags().StringVarP(&f.spreadsheetID, "spreadsheet-id", "s", "", "Spreadsheet holding the source and destination sheets (defaults to SPREADSHEET_ID env var)")
	cmd.Flags().StringVar(&f.sourceSheet, "source-sheet", "", `Sheet holding the (id, url) rows (default "urls")`)
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "Run ledger: postgres:// URL or SQLite file path (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Maximum records audited at once, 0 for no limit (defaults to PSI_CONCURRENCY env var)")
	cmd.Flags().Float64Var(&f.auditsPerSecond, "audits-per-second", 0, "Pace audit calls, 0 for no pacing (defaults to PSI_AUDITS_PER_SECOND env var)")
	cmd.Flags().StringVar(&f.report, "report", "", `Run report format: text, markdown or json (default "text")`)
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
}

// resolve layers defaults, config file, environment and explicitly set
// flags, in increasing precedence, and validates the result.
func (f *recorderFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	base := config.Defaults()
	if f.configPath != "" {
		fileCfg, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, &config.ConfigurationError{Field: "config", Message: "could not be loaded", Cause: err}
		}
		base = fileCfg.MergeWithDefaults(base)
	}

	cfg := base
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	// Apply CLI overrides; only override if the flag was explicitly set
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if cmd.Flags().Changed("credentials") {
		cfg.CredentialsFile = f.credentialsFile
	}
	if cmd.Flags().Changed("spreadsheet-id") {
		cfg.SpreadsheetID = f.spreadsheetID
	}
	if cmd.Flags().Changed("source-sheet") {
		cfg.SourceSheet = f.sourceSheet
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if cmd.Flags().Changed("audits-per-second") {
		cfg.AuditsPerSecond = f.auditsPerSecond
	}
	if cmd.Flags().Changed("report") {
		cfg.Report = f.report
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
