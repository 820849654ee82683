package driving

import (
	"context"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// AnalysisService extracts RoPA records from uploaded documents.
type AnalysisService interface {
	// Analyze validates the batch, extracts every document concurrently and
	// commits the successful records to the session. An empty sessionID
	// targets the active session, creating one when none is active.
	//
	// On partial failure the successful records are committed and the
	// returned error is the first failure observed.
	Analyze(ctx context.Context, sessionID string, uploads []domain.Upload) (*BatchResult, error)
}

// BatchResult reports the outcome of one analysis batch.
type BatchResult struct {
	// SessionID is the session the batch was committed to.
	SessionID string

	// Records are the successfully extracted records in upload order.
	Records []*domain.Record

	// Failures lists the documents whose extraction failed, in upload order.
	Failures []*domain.ExtractionError
}
