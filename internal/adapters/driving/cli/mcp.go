package cli

import (
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ropa-cli/internal/adapters/driving/mcp"
)

var (
	mcpPort     int
	mcpAddr     string
	mcpReadOnly bool
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose sessions to AI assistants",
	Long: `Model Context Protocol integration. Assistants connected to the server
can list sessions, read a session table, overwrite cells as manual edits and
ask the analyst questions that may patch the table.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server over stdio, or over streamable HTTP when --port or
--addr is given.

Tools:
  list_sessions   session summaries, the active one flagged
  get_table       the RoPA table of a session
  edit_cell       manual cell edit (omitted with --read-only)
  ask             chat turn that may rewrite cells (omitted with --read-only)

Examples:
  ropa mcp serve
  ropa mcp serve --port 8090
  ropa mcp serve --addr 127.0.0.1:8090 --read-only

Assistant configuration:
  {
    "mcpServers": {
      "ropa": {
        "command": "/path/to/ropa",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port on all interfaces (0 = stdio)")
	mcpServeCmd.Flags().StringVar(&mcpAddr, "addr", "", "HTTP listen address, overrides --port")
	mcpServeCmd.Flags().BoolVar(&mcpReadOnly, "read-only", false, "register only the read tools")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := mcp.NewServer(&mcp.Ports{
		Sessions: sessionService,
		Export:   exportService,
		Chat:     chatService,
		ReadOnly: mcpReadOnly,
	})
	if err != nil {
		return err
	}

	addr := mcpListenAddr()
	if addr == "" {
		return server.Run(cmd.Context())
	}
	cmd.Printf("MCP server listening on http://%s\n", displayAddr(addr))
	return server.RunHTTP(cmd.Context(), addr)
}

// mcpListenAddr returns the HTTP address from the flags, or empty for stdio.
func mcpListenAddr() string {
	if mcpAddr != "" {
		return mcpAddr
	}
	if mcpPort > 0 {
		return net.JoinHostPort("", strconv.Itoa(mcpPort))
	}
	return ""
}

// displayAddr fills an empty host with localhost.
func displayAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || host != "" {
		return addr
	}
	return net.JoinHostPort("localhost", port)
}
