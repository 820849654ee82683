// Package csv encodes export tables as comma-separated values.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.TableCodec = (*Codec)(nil)

// Codec writes RFC 4180 CSV with the header as the first record.
type Codec struct{}

// NewCodec returns a CSV codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Format returns domain.ExportCSV.
func (c *Codec) Format() domain.ExportFormat {
	return domain.ExportCSV
}

// Write encodes the table.
func (c *Codec) Write(w io.Writer, table domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("csv: header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("csv: rows: %w", err)
	}
	return nil
}

// Read decodes a table written by Write. Every row must match the header width.
func (c *Codec) Read(r io.Reader) (domain.Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("csv: read: %w", err)
	}
	if len(records) == 0 {
		return domain.Table{}, fmt.Errorf("%w: empty csv", domain.ErrInvalidInput)
	}
	return domain.Table{Header: records[0], Rows: records[1:]}, nil
}
