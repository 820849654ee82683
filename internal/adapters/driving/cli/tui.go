package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for ropa.

The TUI shows the active session as a table coloured by where each value
came from, lets you edit cells, chat with the AI about the table and
switch between sessions.

Controls:
  ↑/k, ↓/j, ←/h, →/l - Move between cells
  e                  - Edit the selected cell
  c                  - Chat about the table
  Esc                - Back / Cancel
  q                  - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts collects the configured services for the TUI.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Sessions: sessionService,
		Chat:     chatService,
		Settings: settingsService,
	}
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("TUI crashed")
		}
	}()

	if sessionService == nil {
		return errors.New("session service not configured")
	}

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
