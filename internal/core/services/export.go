package services

import (
	"context"
	"fmt"
	"io"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService flattens session records into tables and encodes them.
type ExportService struct {
	sessions *SessionService
	codecs   map[domain.ExportFormat]driven.TableCodec
	order    []domain.ExportFormat
}

// NewExportService creates an export service with the given codecs.
func NewExportService(sessions *SessionService, codecs ...driven.TableCodec) *ExportService {
	s := &ExportService{
		sessions: sessions,
		codecs:   make(map[domain.ExportFormat]driven.TableCodec, len(codecs)),
	}
	for _, c := range codecs {
		if _, dup := s.codecs[c.Format()]; !dup {
			s.order = append(s.order, c.Format())
		}
		s.codecs[c.Format()] = c
	}
	return s
}

// Table returns the flattened table of sessionID, or the active session
// when empty.
func (s *ExportService) Table(ctx context.Context, sessionID string) (domain.Table, error) {
	id, err := s.sessions.resolve(sessionID)
	if err != nil {
		return domain.Table{}, err
	}
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	return BuildTable(session.Records), nil
}

// Export writes the session table to w.
func (s *ExportService) Export(ctx context.Context, sessionID string, format domain.ExportFormat, w io.Writer) error {
	codec, ok := s.codecs[format]
	if !ok {
		return fmt.Errorf("%w: export format %q", domain.ErrInvalidInput, format)
	}
	table, err := s.Table(ctx, sessionID)
	if err != nil {
		return err
	}
	if table.IsEmpty() {
		return domain.ErrNoDocuments
	}
	if err := codec.Write(w, table); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// Formats lists the registered export formats in registration order.
func (s *ExportService) Formats() []domain.ExportFormat {
	return append([]domain.ExportFormat(nil), s.order...)
}

// BuildTable flattens records into a header row and one row per record.
// The first column is the file name; the rest follow the canonical field
// order with absent values rendered as the placeholder. No records yields
// an empty table with no header.
func BuildTable(records []*domain.Record) domain.Table {
	if len(records) == 0 {
		return domain.Table{}
	}

	header := make([]string, 0, len(domain.Fields)+1)
	header = append(header, domain.FileNameHeader)
	for _, k := range domain.Fields {
		header = append(header, k.Label())
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, 0, len(header))
		row = append(row, r.FileName)
		for _, k := range domain.Fields {
			row = append(row, r.Cell(k).Display(domain.Placeholder))
		}
		rows[i] = row
	}
	return domain.Table{Header: header, Rows: rows}
}

// RowValues maps an exported row back to field values, reading the
// placeholder as absent. It is the inverse of BuildTable for one row.
func RowValues(header, row []string) (string, map[domain.FieldKey]string, error) {
	if len(header) != len(domain.Fields)+1 || len(row) != len(header) {
		return "", nil, fmt.Errorf("%w: row has %d columns, header %d", domain.ErrInvalidInput, len(row), len(header))
	}
	if header[0] != domain.FileNameHeader {
		return "", nil, fmt.Errorf("%w: first column is %q", domain.ErrInvalidInput, header[0])
	}
	values := make(map[domain.FieldKey]string, len(domain.Fields))
	for i, k := range domain.Fields {
		if header[i+1] != k.Label() {
			return "", nil, fmt.Errorf("%w: column %d is %q, want %q", domain.ErrInvalidInput, i+1, header[i+1], k.Label())
		}
		if v := row[i+1]; v != domain.Placeholder {
			values[k] = v
		}
	}
	return row[0], values, nil
}
