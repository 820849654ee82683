package driving

import (
	"context"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// ChatService answers questions about a session's table and applies the
// cell rewrites the model proposes.
type ChatService interface {
	// Ask appends the question to the transcript, consults the model and
	// appends its answer. A failed model call is recorded as a failed AI
	// turn and also returned as the error.
	Ask(ctx context.Context, sessionID, question string) (*ChatResult, error)
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	// Turn is the AI turn appended to the transcript.
	Turn domain.ChatTurn

	// Outcomes reports every proposed patch in emission order.
	Outcomes []domain.PatchOutcome
}
