package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// FieldKey identifies one canonical RoPA column.
type FieldKey string

// Canonical RoPA fields, in table order.
const (
	FieldNoAktivitas                 FieldKey = "no_aktivitas"
	FieldNamaAktivitas               FieldKey = "nama_aktivitas"
	FieldUnitKerja                   FieldKey = "unit_kerja"
	FieldDepartemen                  FieldKey = "departemen"
	FieldPenanggungJawab             FieldKey = "penanggung_jawab"
	FieldKedudukanPemilikProses      FieldKey = "kedudukan_pemilik_proses"
	FieldTujuanPemrosesan            FieldKey = "tujuan_pemrosesan"
	FieldKebijakanRujukan            FieldKey = "kebijakan_rujukan"
	FieldBentukDataPribadi           FieldKey = "bentuk_data_pribadi"
	FieldSubjekDataPribadi           FieldKey = "subjek_data_pribadi"
	FieldJenisDataPribadi            FieldKey = "jenis_data_pribadi"
	FieldDataPribadiSpesifik         FieldKey = "data_pribadi_spesifik"
	FieldSumberData                  FieldKey = "sumber_data"
	FieldPenyimpananData             FieldKey = "penyimpanan_data"
	FieldMetodePemrosesan            FieldKey = "metode_pemrosesan"
	FieldDasarPemrosesan             FieldKey = "dasar_pemrosesan"
	FieldMasaRetensi                 FieldKey = "masa_retensi"
	FieldLangkahTeknisPengamanan     FieldKey = "langkah_teknis_pengamanan"
	FieldLangkahOrganisasiPengamanan FieldKey = "langkah_organisasi_pengamanan"
	FieldKategoriPenerima            FieldKey = "kategori_penerima"
	FieldProfilPenerima              FieldKey = "profil_penerima"
	FieldAsesmenRisiko               FieldKey = "asesmen_risiko"
	FieldProsesSebelumnya            FieldKey = "proses_sebelumnya"
	FieldProsesSetelahnya            FieldKey = "proses_setelahnya"
	FieldKeteranganTambahan          FieldKey = "keterangan_tambahan"
)

// SuggestionKey is the raw key carrying the model's free-text commentary.
const SuggestionKey = "saran_ai"

// FieldDef describes a canonical field and the raw spellings accepted for it.
// Aliases are in priority order; the canonical key itself is always first.
type FieldDef struct {
	Key         FieldKey
	Description string
	Aliases     []string
}

// fieldTable is the built-in alias table. Later prompt generations produced
// longer key names; both spellings are accepted.
var fieldTable = []FieldDef{
	{FieldNoAktivitas, "Nomor aktivitas/pemrosesan", nil},
	{FieldNamaAktivitas, "Nama aktivitas pemrosesan Data Pribadi", nil},
	{FieldUnitKerja, "Nama unit/divisi yang terlibat", []string{"unit_kerja_divisi"}},
	{FieldDepartemen, "Nama departemen/sub-departemen", []string{"departemen_sub_departemen"}},
	{FieldPenanggungJawab, "Penanggung jawab pemrosesan Data Pribadi",
		[]string{"penanggungjawab_proses", "penanggung_jawab_proses"}},
	{FieldKedudukanPemilikProses, "Peran pemilik proses (Pengendali / Prosesor / Pengendali Bersama)", nil},
	{FieldTujuanPemrosesan, "Deskripsi dan tujuan pemrosesan",
		[]string{"deskripsi_dan_tujuan_pemrosesan", "deskripsi_tujuan_pemrosesan"}},
	{FieldKebijakanRujukan, "Kebijakan/SOP/IK/dokumen rujukan", []string{"kebijakan_sop_ik_dokumen_rujukan"}},
	{FieldBentukDataPribadi, "Jenis artefak (Elektronik, Non-Elektronik, Lainnya)", nil},
	{FieldSubjekDataPribadi, "Profil subjek (Nasabah, Karyawan, Calon Karyawan, dll)", nil},
	{FieldJenisDataPribadi, "Jenis data yang diproses (umum/spesifik)", nil},
	{FieldDataPribadiSpesifik, "Apakah ada data spesifik (Ya/Tidak)", []string{"data_pribadi_spesifik_ya_tidak"}},
	{FieldSumberData, "Sumber pemerolehan Data Pribadi", []string{"sumber_pemerolehan_data_pribadi"}},
	{FieldPenyimpananData, "Metode penyimpanan (hardcopy, aplikasi, keduanya)", []string{"penyimpanan_data_pribadi"}},
	{FieldMetodePemrosesan, "Cara pemrosesan (manual, aplikasi, keduanya)", []string{"metode_pemrosesan_data_pribadi"}},
	{FieldDasarPemrosesan, "Landasan hukum pemrosesan", nil},
	{FieldMasaRetensi, "Periode penyimpanan data", []string{"masa_retensi_data_pribadi"}},
	{FieldLangkahTeknisPengamanan, "Langkah teknis pengamanan Data Pribadi",
		[]string{"langkah_teknis_pengamanan_data_pribadi"}},
	{FieldLangkahOrganisasiPengamanan, "Langkah organisasi pengamanan Data Pribadi",
		[]string{"langkah_organisasi_pengamanan_data_pribadi"}},
	{FieldKategoriPenerima, "Kategori dan jenis penerima Data Pribadi",
		[]string{"kategori_dan_jenis_penerima_data_pribadi"}},
	{FieldProfilPenerima, "Profil penerima Data Pribadi", []string{"profil_penerima_data_pribadi"}},
	{FieldAsesmenRisiko, "Hasil analisis kategori risiko tinggi", nil},
	{FieldProsesSebelumnya, "Proses / kegiatan sebelumnya", []string{"proses_kegiatan_sebelumnya"}},
	{FieldProsesSetelahnya, "Proses / kegiatan setelahnya", []string{"proses_kegiatan_setelahnya"}},
	{FieldKeteranganTambahan, "Keterangan / catatan tambahan", []string{"keterangan_catatan_tambahan"}},
}

// Fields is the closed canonical field set in table order.
var Fields []FieldKey

var defaultSchema *Schema

func init() {
	Fields = make([]FieldKey, len(fieldTable))
	for i, def := range fieldTable {
		Fields[i] = def.Key
	}
	s, err := NewSchema(fieldTable)
	if err != nil {
		panic(fmt.Sprintf("domain: invalid built-in field table: %v", err))
	}
	defaultSchema = s
}

// IsValid reports whether k belongs to the canonical set.
func (k FieldKey) IsValid() bool {
	_, ok := defaultSchema.defs[k]
	return ok
}

// String returns the key as written in JSON.
func (k FieldKey) String() string {
	return string(k)
}

// Label returns the column header for the key: separators become spaces and
// each word is capitalised ("masa_retensi" -> "Masa Retensi").
func (k FieldKey) Label() string {
	words := strings.FieldsFunc(string(k), func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Schema resolves raw key spellings to canonical fields.
// A Schema is immutable once built and safe for concurrent use.
type Schema struct {
	defs  map[FieldKey]FieldDef
	index map[string]FieldKey
}

// DefaultSchema returns the built-in schema.
func DefaultSchema() *Schema {
	return defaultSchema
}

// NewSchema builds a schema from an alias table covering every canonical field.
// It fails when a field is missing, unknown, or an alias is claimed twice.
func NewSchema(defs []FieldDef) (*Schema, error) {
	s := &Schema{
		defs:  make(map[FieldKey]FieldDef, len(defs)),
		index: make(map[string]FieldKey),
	}
	for _, def := range defs {
		if _, dup := s.defs[def.Key]; dup {
			return nil, fmt.Errorf("%w: field %q defined twice", ErrInvalidInput, def.Key)
		}
		spellings := append([]string{string(def.Key)}, def.Aliases...)
		resolved := FieldDef{Key: def.Key, Description: def.Description}
		for _, raw := range spellings {
			norm := NormaliseRawKey(raw)
			if norm == "" {
				return nil, fmt.Errorf("%w: empty alias for %q", ErrInvalidInput, def.Key)
			}
			if owner, taken := s.index[norm]; taken {
				if owner == def.Key {
					continue
				}
				return nil, fmt.Errorf("%w: alias %q claimed by %q and %q", ErrInvalidInput, raw, owner, def.Key)
			}
			s.index[norm] = def.Key
			resolved.Aliases = append(resolved.Aliases, norm)
		}
		s.defs[def.Key] = resolved
	}
	if Fields != nil {
		for _, k := range Fields {
			if _, ok := s.defs[k]; !ok {
				return nil, fmt.Errorf("%w: field %q has no alias group", ErrInvalidInput, k)
			}
		}
		if len(s.defs) != len(Fields) {
			return nil, fmt.Errorf("%w: schema defines fields outside the canonical set", ErrInvalidInput)
		}
	}
	return s, nil
}

// WithAliases returns a copy of the schema with extra spellings appended after
// the existing ones. Keys in extra must be canonical.
func (s *Schema) WithAliases(extra map[FieldKey][]string) (*Schema, error) {
	defs := make([]FieldDef, 0, len(Fields))
	for _, k := range Fields {
		def := s.defs[k]
		aliases := append([]string(nil), def.Aliases...)
		defs = append(defs, FieldDef{Key: k, Description: def.Description, Aliases: aliases})
	}
	for k := range extra {
		if _, ok := s.defs[k]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, k)
		}
	}
	for i := range defs {
		defs[i].Aliases = append(defs[i].Aliases, extra[defs[i].Key]...)
	}
	return NewSchema(defs)
}

// Resolve maps a raw key to its canonical field. The second result is false
// when no alias group claims the key.
func (s *Schema) Resolve(raw string) (FieldKey, bool) {
	k, ok := s.index[NormaliseRawKey(raw)]
	return k, ok
}

// Aliases returns the accepted spellings for a field in priority order.
func (s *Schema) Aliases(k FieldKey) []string {
	return append([]string(nil), s.defs[k].Aliases...)
}

// Description returns the human description of a field.
func (s *Schema) Description(k FieldKey) string {
	return s.defs[k].Description
}

// NormaliseRawKey lower-cases a raw key and folds spaces, hyphens and
// slashes into single underscores.
func NormaliseRawKey(raw string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r == ' ' || r == '-' || r == '/' || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
