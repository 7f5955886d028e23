package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagespeed-recorder/internal/audit"
	"github.com/jonathan/pagespeed-recorder/internal/mapping"
	"github.com/jonathan/pagespeed-recorder/internal/observability"
	"github.com/jonathan/pagespeed-recorder/internal/schemas"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

var (
	mapURL    string
	mapFormat string
)

var mapCommand = &cobra.Command{
	Use:   "map <response.json>",
	Short: "Map a saved PageSpeed Insights response to a sheet row",
	Long: `Validates a saved runpagespeed JSON response and prints the row that run would append for it.
Nothing is written to the spreadsheet.`,
	Args: cobra.ExactArgs(1),
	RunE: runMapCmd,
}

func init() {
	mapCommand.Flags().StringVar(&mapURL, "url", "", "URL written to the row (defaults to the response id)")
	mapCommand.Flags().StringVar(&mapFormat, "format", "text", "Output format: text or json")
	rootCmd.AddCommand(mapCommand)
}

func runMapCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	row, err := mapResponse(data, mapURL, time.Now())
	if err != nil {
		return err
	}

	switch mapFormat {
	case "json":
		return json.NewEncoder(cmd.OutOrStdout()).Encode(row)
	case "text":
		observability.NewPrinter(cmd.OutOrStdout()).PrintRow(row)
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", mapFormat)
	}
}

// mapResponse validates and maps one saved response. An empty url falls
// back to the id the service echoed.
func mapResponse(data []byte, url string, now time.Time) (types.OutputRow, error) {
	if err := schemas.ValidateResponse(data); err != nil {
		return types.OutputRow{}, fmt.Errorf("response does not match the PageSpeed schema: %w", err)
	}

	result, err := audit.DecodeResponse(data)
	if err != nil {
		return types.OutputRow{}, err
	}

	if url == "" {
		var echoed struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(data, &echoed)
		url = echoed.ID
	}

	return mapping.BuildRow(result, url, now)
}
