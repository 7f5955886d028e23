package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagespeed-recorder/internal/schema"
)

var columnsTSV bool

var columnsCommand = &cobra.Command{
	Use:   "columns",
	Short: "Print the column layout of the rows run appends",
	Long:  `Prints the header of a destination sheet, for preparing "url<id>" sheets before the first run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeColumns(cmd.OutOrStdout(), columnsTSV)
	},
}

func init() {
	columnsCommand.Flags().BoolVar(&columnsTSV, "tsv", false, "Print the header as one tab-separated line, ready to paste into a sheet")
	rootCmd.AddCommand(columnsCommand)
}

func writeColumns(w io.Writer, tsv bool) error {
	header := schema.Header()
	if tsv {
		_, err := fmt.Fprintln(w, strings.Join(header, "\t"))
		return err
	}

	if _, err := fmt.Fprintf(w, "# schema v%d, %d columns\n", schema.Version, len(header)); err != nil {
		return err
	}
	for i, name := range header {
		if _, err := fmt.Fprintf(w, "%3d  %s\n", i+1, name); err != nil {
			return err
		}
	}
	return nil
}
