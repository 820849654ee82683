package mcp

import (
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Sessions lists sessions and applies manual cell edits.
	Sessions driving.SessionService

	// Export flattens sessions into tables. Optional.
	Export driving.ExportService

	// Chat answers questions about a session. Optional; the ask tool is
	// only registered when set.
	Chat driving.ChatService

	// ReadOnly leaves out the tools that write cells.
	ReadOnly bool
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
