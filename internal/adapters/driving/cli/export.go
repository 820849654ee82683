package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

var (
	exportFormat  string
	exportOutput  string
	exportSession string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the session table to a file",
	Long: `Exports the session table with one row per document. Absent values are
written as N/A. Use --output - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(domain.ExportXLSX), "output format (xlsx, csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default: Hasil_Analisis_Multi-File.<format>)")
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "session to export (default: active)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportService == nil {
		return errors.New("export service not configured")
	}

	format := domain.ExportFormat(exportFormat)
	if !format.IsValid() {
		return fmt.Errorf("unknown format %q: choose one of %v", exportFormat, exportService.Formats())
	}

	if exportOutput == "-" {
		return exportService.Export(cmd.Context(), exportSession, format, cmd.OutOrStdout())
	}

	path := exportOutput
	if path == "" {
		path = format.FileName()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := exportService.Export(cmd.Context(), exportSession, format, f); err != nil {
		f.Close()
		os.Remove(path) //nolint:errcheck
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmd.Printf("Exported to %s\n", path)
	return nil
}
