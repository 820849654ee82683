package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the JSON API used by web front ends:

  POST /api/analyze         upload documents (multipart field "datanya")
  POST /api/brainstorming   ask about the active table
  GET  /api/sessions        list sessions
  PUT  /api/cells           manual cell edit
  GET  /api/export          download xlsx or csv`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default: settings server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			addr = settings.ServerAddr
		}
	}
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Sessions: sessionService,
		Analysis: analysisService,
		Chat:     chatService,
		Export:   exportService,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
