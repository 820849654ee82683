// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSessions lists sessions.
	ViewSessions
	// ViewTable shows the active session's RoPA table.
	ViewTable
	// ViewChat is the transcript and question input.
	ViewChat
	// ViewSettings shows the current settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSessions:
		return "sessions"
	case ViewTable:
		return "table"
	case ViewChat:
		return "chat"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SessionsLoaded carries the session summaries.
type SessionsLoaded struct {
	Sessions []domain.SessionSummary
	Err      error
}

// SessionLoaded carries the active session.
type SessionLoaded struct {
	Session *domain.Session
	Err     error
}

// SessionCreated signals a new session became active.
type SessionCreated struct {
	Session *domain.Session
	Err     error
}

// SessionSwitched signals the active session changed.
type SessionSwitched struct {
	ID  string
	Err error
}

// SessionDeleted signals a session was deleted.
type SessionDeleted struct {
	ID  string
	Err error
}

// CellEdited signals a manual edit finished.
type CellEdited struct {
	FileName string
	Field    domain.FieldKey
	Err      error
}

// ChatAnswered carries the outcome of one chat turn.
type ChatAnswered struct {
	Result *driving.ChatResult
	Err    error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	// Invalid is the validation problem, if any.
	Invalid error
	Err     error
}

// SettingsSaved signals that a settings change was persisted.
type SettingsSaved struct {
	Err error
}
