// Package tui provides an interactive terminal user interface for ropa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Sessions lists, switches and edits sessions.
	Sessions driving.SessionService

	// Chat answers questions about the active table. Optional.
	Chat driving.ChatService

	// Settings shows the current configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Sessions == nil {
		return ErrMissingSessionService
	}
	return nil
}
