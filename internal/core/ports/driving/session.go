package driving

import (
	"context"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// SessionService owns analysis sessions and the active-session pointer.
// Every mutation names its session explicitly.
type SessionService interface {
	// Create stores a new empty session and makes it active.
	Create(ctx context.Context) (*domain.Session, error)

	// SwitchTo makes the named session active without mutating any session.
	SwitchTo(ctx context.Context, id string) error

	// Delete removes a session. If it was active, no session is active afterwards.
	Delete(ctx context.Context, id string) error

	// ActiveID returns the active session ID, or empty.
	ActiveID() string

	// Active returns a copy of the active session.
	// Returns domain.ErrNoActiveSession when none is active.
	Active(ctx context.Context) (*domain.Session, error)

	// Get returns a copy of a session.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// List returns session summaries with the active one flagged.
	List(ctx context.Context) ([]domain.SessionSummary, error)

	// EditCell writes a manual value into one cell of a session's record.
	EditCell(ctx context.Context, sessionID, fileName string, field domain.FieldKey, value string) error
}
