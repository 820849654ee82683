package domain

// Export defaults.
const (
	// Placeholder renders absent values in exports.
	Placeholder = "N/A"

	// FileNameHeader is the header of the leading file-name column.
	FileNameHeader = "File Asal"

	// ExportSheetName is the worksheet name of spreadsheet exports.
	ExportSheetName = "RoPA_Data"

	// ExportBaseName is the default export file name without extension.
	ExportBaseName = "Hasil_Analisis_Multi-File"
)

// Table is a flattened export: a header row and one row per record.
type Table struct {
	Header []string
	Rows   [][]string
}

// IsEmpty reports whether the table has no data rows.
func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ExportFormat names a table encoding.
type ExportFormat string

// Supported export formats.
const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

// IsValid returns true if the format is supported.
func (f ExportFormat) IsValid() bool {
	return f == ExportXLSX || f == ExportCSV
}

// FileName returns the default download name for the format.
func (f ExportFormat) FileName() string {
	return ExportBaseName + "." + string(f)
}
