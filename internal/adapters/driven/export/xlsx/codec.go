// Package xlsx encodes export tables as Excel workbooks.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.TableCodec = (*Codec)(nil)

// ColumnWidth is the width applied to every exported column.
const ColumnWidth = 35

// Codec writes a single-sheet workbook.
type Codec struct {
	sheet string
}

// NewCodec returns a codec writing to the domain.ExportSheetName sheet.
func NewCodec() *Codec {
	return &Codec{sheet: domain.ExportSheetName}
}

// Format returns domain.ExportXLSX.
func (c *Codec) Format() domain.ExportFormat {
	return domain.ExportXLSX
}

// Write encodes the header in row 1 and one row per record below it.
func (c *Codec) Write(w io.Writer, table domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	// A new workbook starts with "Sheet1".
	if err := f.SetSheetName(f.GetSheetName(0), c.sheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	if err := c.writeRow(f, 1, table.Header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := c.writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if len(table.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Header))
		if err != nil {
			return fmt.Errorf("xlsx: column name: %w", err)
		}
		if err := f.SetColWidth(c.sheet, "A", last, ColumnWidth); err != nil {
			return fmt.Errorf("xlsx: column width: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func (c *Codec) writeRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("xlsx: cell name: %w", err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(c.sheet, cell, &row); err != nil {
		return fmt.Errorf("xlsx: row %d: %w", rowNum, err)
	}
	return nil
}

// Read decodes a workbook written by Write. Short rows are padded to the
// header width because excelize trims trailing empty cells.
func (c *Codec) Read(r io.Reader) (domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("xlsx: open: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(c.sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("xlsx: read sheet %q: %w", c.sheet, err)
	}
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("%w: sheet %q is empty", domain.ErrInvalidInput, c.sheet)
	}

	table := domain.Table{Header: rows[0]}
	for _, row := range rows[1:] {
		padded := make([]string, len(table.Header))
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}
	return table, nil
}
