package driven

import (
	"context"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// SessionStore persists sessions with their records and transcripts.
// Save replaces the stored session wholesale; Get returns an independent copy.
type SessionStore interface {
	// Save stores or replaces a session.
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns summaries of every session, most recently updated first.
	List(ctx context.Context) ([]domain.SessionSummary, error)

	// Delete removes a session. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// SaveActive records which session is active. Empty clears it.
	SaveActive(ctx context.Context, id string) error

	// LoadActive returns the recorded active session ID, or empty.
	LoadActive(ctx context.Context) (string, error)
}
