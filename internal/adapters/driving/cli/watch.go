package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyse documents dropped into a folder",
	Long: `Watches a folder and analyses every batch of new PDF, PNG or JPEG files
into the active session. Files written close together form one batch.
Stop with Ctrl+C.

Without an argument the folder from settings watch.dir is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if inboxService == nil {
		return errors.New("inbox service not configured")
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	} else if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			dir = settings.WatchDir
		}
	}
	if dir == "" {
		return errors.New("no folder given and watch.dir is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
	err := inboxService.Start(ctx, dir, func(files []string, result *driving.BatchResult, err error) {
		cmd.Printf("\nBatch of %d file(s)\n", len(files))
		if result != nil {
			printBatch(cmd, result)
		}
		if err != nil && (result == nil || result.SessionID == "") {
			cmd.Printf("  batch failed: %v\n", err)
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
