package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord_AllFieldsAbsentInitial(t *testing.T) {
	r := NewRecord("doc1.pdf")

	cells := r.Cells()
	require.Len(t, cells, len(Fields))
	for _, k := range Fields {
		c, err := r.Read(k)
		require.NoError(t, err)
		assert.False(t, c.Present)
		assert.Equal(t, SourceInitial, c.Source)
	}
}

func TestRecord_WriteManual(t *testing.T) {
	r := NewRecord("doc1.pdf")

	require.NoError(t, r.WriteManual(FieldPenanggungJawab, "Budi"))

	c, err := r.Read(FieldPenanggungJawab)
	require.NoError(t, err)
	assert.Equal(t, ValueCell("Budi", SourceManual), c)
}

func TestRecord_WriteFromPatch_OverridesManual(t *testing.T) {
	r := NewRecord("doc1.pdf")
	require.NoError(t, r.WriteManual(FieldPenanggungJawab, "Budi"))

	require.NoError(t, r.WriteFromPatch(FieldPenanggungJawab, "Siti"))

	assert.Equal(t, ValueCell("Siti", SourceAIChat), r.Cell(FieldPenanggungJawab))
}

func TestRecord_SourceReflectsLatestWriter(t *testing.T) {
	r := NewRecord("doc1.pdf")

	require.NoError(t, r.WriteFromPatch(FieldUnitKerja, "A"))
	require.NoError(t, r.WriteManual(FieldUnitKerja, "B"))
	assert.Equal(t, SourceManual, r.Cell(FieldUnitKerja).Source)

	require.NoError(t, r.WriteManual(FieldUnitKerja, "C"))
	assert.Equal(t, ValueCell("C", SourceManual), r.Cell(FieldUnitKerja))
}

func TestRecord_WriteIdempotent(t *testing.T) {
	once := NewRecord("doc1.pdf")
	twice := NewRecord("doc1.pdf")

	require.NoError(t, once.WriteFromPatch(FieldMasaRetensi, "5 tahun"))
	require.NoError(t, twice.WriteFromPatch(FieldMasaRetensi, "5 tahun"))
	require.NoError(t, twice.WriteFromPatch(FieldMasaRetensi, "5 tahun"))

	assert.Equal(t, once.Cells(), twice.Cells())
}

func TestRecord_WriteUnknownField(t *testing.T) {
	r := NewRecord("doc1.pdf")

	err := r.WriteManual(FieldKey("masa_retensi_data_pribadi"), "x")
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Len(t, r.Cells(), len(Fields))

	_, err = r.Read(FieldKey("nope"))
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRecord_Clone_Isolated(t *testing.T) {
	r := NewRecord("doc1.pdf")
	cp := r.Clone()

	require.NoError(t, cp.WriteManual(FieldUnitKerja, "X"))

	assert.False(t, r.Cell(FieldUnitKerja).Present)
	assert.True(t, cp.Cell(FieldUnitKerja).Present)
}

func TestRecord_Values_StripsProvenance(t *testing.T) {
	r := NewRecord("doc1.pdf")
	require.NoError(t, r.SetInitial(FieldUnitKerja, ValueCell("Divisi A", SourceManual)))
	require.NoError(t, r.WriteManual(FieldDepartemen, "IT"))

	assert.Equal(t, map[FieldKey]string{
		FieldUnitKerja:  "Divisi A",
		FieldDepartemen: "IT",
	}, r.Values())
	assert.Equal(t, SourceInitial, r.Cell(FieldUnitKerja).Source)
}

func TestRestoreRecord(t *testing.T) {
	cells := NewRecord("a.pdf").Cells()
	cells[FieldAsesmenRisiko] = ValueCell("Tinggi", SourceAIChat)

	r, err := RestoreRecord("a.pdf", cells)
	require.NoError(t, err)
	assert.Equal(t, ValueCell("Tinggi", SourceAIChat), r.Cell(FieldAsesmenRisiko))

	delete(cells, FieldAsesmenRisiko)
	_, err = RestoreRecord("a.pdf", cells)
	assert.ErrorIs(t, err, ErrInvalidInput)

	cells[FieldKey("extra")] = Cell{}
	_, err = RestoreRecord("a.pdf", cells)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSource_Strings(t *testing.T) {
	tests := []struct {
		src  Source
		name string
	}{
		{SourceInitial, "initial"},
		{SourceManual, "manual"},
		{SourceAIChat, "ai"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.src.String())
			parsed, err := ParseSource(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.src, parsed)
		})
	}

	_, err := ParseSource("robot")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, Source(9).IsValid())
}

func TestSource_TextMarshalling(t *testing.T) {
	text, err := SourceManual.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "manual", string(text))

	var s Source
	require.NoError(t, s.UnmarshalText([]byte("ai")))
	assert.Equal(t, SourceAIChat, s)
}

func TestCell_Display(t *testing.T) {
	assert.Equal(t, "N/A", AbsentCell(SourceInitial).Display(Placeholder))
	assert.Equal(t, "x", ValueCell("x", SourceManual).Display(Placeholder))
	assert.Equal(t, "", ValueCell("", SourceManual).Display(Placeholder))
}

func TestRecord_BlankWriteClearsCell(t *testing.T) {
	r := NewRecord("doc1.pdf")
	require.NoError(t, r.SetInitial(FieldUnitKerja, ValueCell("Divisi A", SourceInitial)))
	require.NoError(t, r.SetInitial(FieldMasaRetensi, ValueCell("5 tahun", SourceInitial)))

	require.NoError(t, r.WriteManual(FieldUnitKerja, ""))
	require.NoError(t, r.WriteFromPatch(FieldMasaRetensi, "  "))

	assert.Equal(t, AbsentCell(SourceManual), r.Cell(FieldUnitKerja))
	assert.Equal(t, AbsentCell(SourceAIChat), r.Cell(FieldMasaRetensi))
	assert.Equal(t, Placeholder, r.Cell(FieldUnitKerja).Display(Placeholder))

	values := r.Values()
	assert.NotContains(t, values, FieldUnitKerja)
	assert.NotContains(t, values, FieldMasaRetensi)
}
