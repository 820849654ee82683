package domain

import (
	"fmt"
	"strings"
	"time"
)

// Record is the extracted RoPA row for one uploaded document.
// Every canonical field is always present; only cell values and sources change
// after creation.
type Record struct {
	// FileName identifies the document within its session.
	FileName string

	// MIMEType is the type the document was analysed as.
	MIMEType string

	// Suggestion is the model's free-text commentary. It carries no provenance.
	Suggestion string

	// ExtractedAt is when the extraction completed.
	ExtractedAt time.Time

	cells map[FieldKey]Cell
}

// NewRecord creates a record with every canonical field absent and Initial.
func NewRecord(fileName string) *Record {
	r := &Record{
		FileName: fileName,
		cells:    make(map[FieldKey]Cell, len(Fields)),
	}
	for _, k := range Fields {
		r.cells[k] = AbsentCell(SourceInitial)
	}
	return r
}

// RestoreRecord rebuilds a record from persisted cells. The cell map must
// cover the canonical set exactly.
func RestoreRecord(fileName string, cells map[FieldKey]Cell) (*Record, error) {
	if len(cells) != len(Fields) {
		return nil, fmt.Errorf("%w: record %q has %d cells, want %d",
			ErrInvalidInput, fileName, len(cells), len(Fields))
	}
	r := &Record{FileName: fileName, cells: make(map[FieldKey]Cell, len(Fields))}
	for _, k := range Fields {
		c, ok := cells[k]
		if !ok {
			return nil, fmt.Errorf("%w: record %q missing field %q", ErrInvalidInput, fileName, k)
		}
		if !c.Source.IsValid() {
			return nil, fmt.Errorf("%w: record %q field %q", ErrInvalidInput, fileName, k)
		}
		r.cells[k] = c
	}
	return r, nil
}

// Read returns the cell for a canonical field.
func (r *Record) Read(k FieldKey) (Cell, error) {
	c, ok := r.cells[k]
	if !ok {
		return Cell{}, fmt.Errorf("%w: %q", ErrUnknownField, k)
	}
	return c, nil
}

// Cell returns the cell for k, or an absent cell for keys outside the set.
func (r *Record) Cell(k FieldKey) Cell {
	return r.cells[k]
}

// WriteManual replaces the value of k and marks it as a manual edit.
// A blank value clears the cell.
func (r *Record) WriteManual(k FieldKey, value string) error {
	return r.write(k, writtenCell(value, SourceManual))
}

// WriteFromPatch replaces the value of k and marks it as a chat rewrite.
// A blank value clears the cell.
func (r *Record) WriteFromPatch(k FieldKey, value string) error {
	return r.write(k, writtenCell(value, SourceAIChat))
}

// writtenCell maps a blank value to an absent cell that keeps src, the same
// way extraction treats blank values.
func writtenCell(value string, src Source) Cell {
	if strings.TrimSpace(value) == "" {
		return AbsentCell(src)
	}
	return ValueCell(value, src)
}

// SetInitial sets an extracted value. Intended for record construction only.
func (r *Record) SetInitial(k FieldKey, c Cell) error {
	c.Source = SourceInitial
	return r.write(k, c)
}

func (r *Record) write(k FieldKey, c Cell) error {
	if _, ok := r.cells[k]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, k)
	}
	r.cells[k] = c
	return nil
}

// Values returns the present values keyed by field, provenance stripped.
func (r *Record) Values() map[FieldKey]string {
	out := make(map[FieldKey]string, len(r.cells))
	for k, c := range r.cells {
		if c.Present {
			out[k] = c.Value
		}
	}
	return out
}

// Cells returns a copy of every cell keyed by field.
func (r *Record) Cells() map[FieldKey]Cell {
	out := make(map[FieldKey]Cell, len(r.cells))
	for k, c := range r.cells {
		out[k] = c
	}
	return out
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	cp := *r
	cp.cells = r.Cells()
	return &cp
}
