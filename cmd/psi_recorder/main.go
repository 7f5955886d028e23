// Package main provides the entry point for the PageSpeed recorder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "psi_recorder",
	Short: "Record PageSpeed Insights audits into Google Sheets",
	Long: `psi_recorder reads (id, url) pairs from the "urls" sheet of a spreadsheet, audits every url
with PageSpeed Insights (mobile strategy) and appends one row per url to the sheet named "url<id>".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
