package driven

import (
	"io"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

// TableCodec encodes export tables in one file format.
type TableCodec interface {
	// Format returns the format this codec writes.
	Format() domain.ExportFormat

	// Write encodes the table to w.
	Write(w io.Writer, table domain.Table) error

	// Read decodes a table previously written in this format.
	Read(r io.Reader) (domain.Table, error)
}

// MIMEDetector sniffs the content type of a document.
type MIMEDetector interface {
	// Detect returns the media type of data without parameters.
	Detect(data []byte) string
}

// AliasSource supplies extra raw spellings for canonical fields.
type AliasSource interface {
	// Aliases returns the extra spellings keyed by canonical field.
	Aliases() (map[domain.FieldKey][]string, error)
}
