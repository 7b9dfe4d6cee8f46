package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/klidoop/fire-calculation/internal/export"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the projection as CSV or JSON",
	Long:  "Write every scenario's trajectory as CSV (step, savings, scenario) or as a JSON document with summaries.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "csv", "Output format: csv or json")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if flagExportFormat != "csv" && flagExportFormat != "json" {
		return fmt.Errorf("unknown format %q (want csv or json)", flagExportFormat)
	}

	_, c, err := runComparison(cmd)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if flagExportFormat == "json" {
		err = export.WriteJSON(w, c)
	} else {
		err = export.WriteCSV(w, c.Points(), c.Mode)
	}
	if err != nil {
		return err
	}

	if flagExportOutput != "" && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s to %s\n", flagExportFormat, flagExportOutput)
	}
	return nil
}
