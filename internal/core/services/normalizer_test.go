package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
)

func TestNormalizer_NullValueIsAbsent(t *testing.T) {
	n := NewNormalizer(nil)

	record, err := n.Normalize("doc1.pdf", `{"unit_kerja": "Divisi A", "penanggung_jawab": null}`)
	require.NoError(t, err)

	assert.Equal(t, "doc1.pdf", record.FileName)
	assert.Equal(t, domain.ValueCell("Divisi A", domain.SourceInitial), record.Cell(domain.FieldUnitKerja))
	assert.Equal(t, domain.AbsentCell(domain.SourceInitial), record.Cell(domain.FieldPenanggungJawab))
}

func TestNormalizer_EveryFieldPresentNoExtras(t *testing.T) {
	n := NewNormalizer(nil)

	record, err := n.Normalize("a.pdf", `{"unknown_key": "x", "masa_retensi_data_pribadi": "5 tahun"}`)
	require.NoError(t, err)

	cells := record.Cells()
	require.Len(t, cells, len(domain.Fields))
	for _, k := range domain.Fields {
		c, ok := cells[k]
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, domain.SourceInitial, c.Source)
	}
	assert.Equal(t, "5 tahun", record.Cell(domain.FieldMasaRetensi).Value)
}

func TestNormalizer_AliasPriority(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		name string
		raw  string
		want domain.Cell
	}{
		{
			name: "canonical wins over alias",
			raw:  `{"tujuan_pemrosesan": "A", "deskripsi_dan_tujuan_pemrosesan": "B"}`,
			want: domain.ValueCell("A", domain.SourceInitial),
		},
		{
			name: "null canonical falls through to alias",
			raw:  `{"tujuan_pemrosesan": null, "deskripsi_dan_tujuan_pemrosesan": "B"}`,
			want: domain.ValueCell("B", domain.SourceInitial),
		},
		{
			name: "earlier alias wins over later alias",
			raw:  `{"deskripsi_tujuan_pemrosesan": "C", "deskripsi_dan_tujuan_pemrosesan": "B"}`,
			want: domain.ValueCell("B", domain.SourceInitial),
		},
		{
			name: "blank string is absent",
			raw:  `{"tujuan_pemrosesan": "   "}`,
			want: domain.AbsentCell(domain.SourceInitial),
		},
		{
			name: "spelling variants normalise",
			raw:  `{"Tujuan Pemrosesan": "D"}`,
			want: domain.ValueCell("D", domain.SourceInitial),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := n.Normalize("a.pdf", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, record.Cell(domain.FieldTujuanPemrosesan))
		})
	}
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := NewNormalizer(nil)
	raw := `{"Unit Kerja": "X", "unit_kerja": null, "unit-kerja": "Y", "unit_kerja_divisi": "Z"}`

	first, err := n.Normalize("a.pdf", raw)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		again, err := n.Normalize("a.pdf", raw)
		require.NoError(t, err)
		assert.Equal(t, first.Cells(), again.Cells())
	}
}

func TestNormalizer_CodeFences(t *testing.T) {
	n := NewNormalizer(nil)
	reply := "Berikut hasilnya:\n```json\n{\"no_aktivitas\": \"HR/001\", \"saran_ai\": \"- Masa Retensi: isi.\"}\n```"

	record, err := n.Normalize("a.png", reply)
	require.NoError(t, err)
	assert.Equal(t, "HR/001", record.Cell(domain.FieldNoAktivitas).Value)
	assert.Equal(t, "- Masa Retensi: isi.", record.Suggestion)
}

func TestNormalizer_Malformed(t *testing.T) {
	n := NewNormalizer(nil)

	for _, reply := range []string{"", "not json", "```json\n{\"a\": \n```", "null", "[1,2]"} {
		_, err := n.Normalize("a.pdf", reply)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse, reply)
	}
}

func TestNormalizer_ValueCoercion(t *testing.T) {
	n := NewNormalizer(nil)
	raw := `{
		"no_aktivitas": 12,
		"data_pribadi_spesifik": true,
		"jenis_data_pribadi": ["nama", "alamat", null],
		"subjek_data_pribadi": [],
		"profil_penerima": {"internal": "HR"},
		"saran_ai": 5
	}`

	record, err := n.Normalize("a.pdf", raw)
	require.NoError(t, err)

	assert.Equal(t, "12", record.Cell(domain.FieldNoAktivitas).Value)
	assert.Equal(t, "true", record.Cell(domain.FieldDataPribadiSpesifik).Value)
	assert.Equal(t, "nama, alamat", record.Cell(domain.FieldJenisDataPribadi).Value)
	assert.False(t, record.Cell(domain.FieldSubjekDataPribadi).Present)
	assert.Equal(t, `{"internal":"HR"}`, record.Cell(domain.FieldProfilPenerima).Value)
	assert.Empty(t, record.Suggestion)
}

func TestNormalizer_CustomSchema(t *testing.T) {
	schema, err := domain.DefaultSchema().WithAliases(map[domain.FieldKey][]string{
		domain.FieldMasaRetensi: {"periode_retensi"},
	})
	require.NoError(t, err)

	record, err := NewNormalizer(schema).Normalize("a.pdf", `{"periode_retensi": "1 tahun"}`)
	require.NoError(t, err)
	assert.Equal(t, "1 tahun", record.Cell(domain.FieldMasaRetensi).Value)
}

func TestExtractJSONObject(t *testing.T) {
	got, err := ExtractJSONObject("```JSON\n{\"a\": {\"b\": 1}}\n``` trailing")
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, got)

	_, err = ExtractJSONObject("} {")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
