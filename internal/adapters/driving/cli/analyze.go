package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

var (
	analyzeSession string
	analyzeJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Extract RoPA rows from documents",
	Long: `Sends each document (PDF, PNG or JPEG, up to 20 MiB) to the AI model and
stores one RoPA row per document in the active session, replacing its
previous rows. A new session is started when none is active.

Documents that fail are reported; the others are kept.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSession, "session", "s", "", "target session (default: active)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	uploads, err := readUploads(args)
	if err != nil {
		return err
	}

	cmd.Printf("Analysing %d document(s)...\n", len(uploads))
	result, err := analysisService.Analyze(cmd.Context(), analyzeSession, uploads)
	if result == nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		if jerr := printRecordsJSON(cmd, result.Records); jerr != nil {
			return jerr
		}
	} else {
		printBatch(cmd, result)
	}

	if result.SessionID == "" && err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return nil
}

func readUploads(paths []string) ([]domain.Upload, error) {
	uploads := make([]domain.Upload, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		uploads = append(uploads, domain.Upload{FileName: filepath.Base(p), Data: data})
	}
	return uploads, nil
}

func printBatch(cmd *cobra.Command, result *driving.BatchResult) {
	for _, r := range result.Records {
		filled := 0
		for _, c := range r.Cells() {
			if c.Present {
				filled++
			}
		}
		cmd.Printf("  ✓ %s  %d/%d fields\n", r.FileName, filled, len(domain.Fields))
	}
	for _, f := range result.Failures {
		cmd.Printf("  ✗ %s  %v\n", f.FileName, f.Err)
	}
	if result.SessionID != "" {
		cmd.Printf("\nSaved %d record(s) to session %s.\n", len(result.Records), result.SessionID)
	}
}

func printRecordsJSON(cmd *cobra.Command, records []*domain.Record) error {
	out := make([]map[string]any, len(records))
	for i, r := range records {
		values := make(map[string]any, len(domain.Fields)+1)
		for k, c := range r.Cells() {
			if c.Present {
				values[k.String()] = c.Value
			} else {
				values[k.String()] = nil
			}
		}
		values["file_name"] = r.FileName
		out[i] = values
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
