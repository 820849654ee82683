package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// ExportService flattens session records into downloadable tables.
type ExportService interface {
	// Table returns the flattened table of a session. A session without
	// records yields an empty table.
	Table(ctx context.Context, sessionID string) (domain.Table, error)

	// Export writes the session table to w in the given format.
	// Returns domain.ErrNoDocuments when the session has no records.
	Export(ctx context.Context, sessionID string, format domain.ExportFormat, w io.Writer) error

	// Formats lists the supported export formats.
	Formats() []domain.ExportFormat
}
