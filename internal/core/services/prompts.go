package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Placeholders substituted into prompt templates. Any other text, including
// a literal %, is sent unchanged.
const (
	PlaceholderFields   = "{{fields}}"
	PlaceholderContext  = "{{context}}"
	PlaceholderQuestion = "{{question}}"
)

// defaultExtractionPrompt takes the field definition list.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultExtractionPrompt = `Anda adalah asisten AI yang bertugas sebagai spesialis Kepatuhan Privasi Data.
Tugas Anda adalah membaca dokumen yang diberikan dan mengisi template Record of Processing Activities (RoPA) secara lengkap dan akurat berdasarkan definisi kolom berikut.

--- DEFINISI KOLOM ROPA ---
{{fields}}

--- ATURAN PENTING ---
1. Analisis Holistik: baca seluruh dokumen untuk menemukan informasi relevan, bahkan jika tidak disebutkan secara eksplisit.
2. Penanganan Data Hilang: jika informasi untuk kolom mana pun TIDAK DAPAT DITEMUKAN, isi nilainya dengan null.
3. Buat properti "saran_ai" berisi rekomendasi untuk setiap kolom yang null dengan format "- [Nama Kolom]: Rekomendasi Anda." dan validasi nilai yang tidak cocok dengan format "- Validasi [Nama Kolom]: Nilai '[Nilai]' terlihat tidak cocok karena [alasan]." Jika tidak ada saran, isi dengan string kosong.
4. Gunakan key JSON persis seperti pada definisi di atas.
5. Kembalikan hasilnya HANYA dalam satu objek JSON yang valid tanpa teks tambahan.`

// defaultChatPrompt takes the table context and the question.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultChatPrompt = `Anda adalah asisten analis data yang sangat teliti dan membantu.
Tugas Anda adalah menjawab pertanyaan pengguna atau memodifikasi data berdasarkan konteks yang diberikan.
Konteks adalah array objek JSON; setiap objek adalah satu baris data dari file yang berbeda, diidentifikasi oleh "fileName".

## Aturan Penting:
1. Jika pengguna hanya bertanya: jawab berdasarkan data yang ada dan kembalikan HANYA properti "answer".
2. Jika pengguna meminta modifikasi (misal: "ubah", "ganti", "isi kolom X untuk file Y"):
   - Kembalikan properti "answer" berisi konfirmasi Anda.
   - Kembalikan properti "updatedData", sebuah ARRAY objek perubahan dengan format { "fileName": "nama_file.pdf", "field": "nama_kolom", "value": "nilai_baru" }.
3. Selalu gunakan key JSON yang sama persis seperti di konteks (contoh: "no_aktivitas", "unit_kerja").
4. Jika pengguna meminta perubahan untuk semua file, buat satu objek perubahan untuk setiap file dalam "updatedData".
5. Kembalikan HANYA satu objek JSON yang valid.

## Konteks Data Saat Ini:
{{context}}

## Pertanyaan Pengguna:
{{question}}`

// DefaultPrompts returns the built-in prompt templates keyed by prompt name.
// File-backed prompt stores seed user-editable copies from these.
func DefaultPrompts() map[string]string {
	return map[string]string{
		driven.PromptExtraction: defaultExtractionPrompt,
		driven.PromptChat:       defaultChatPrompt,
	}
}

// loadPrompt returns the named template from store, or the built-in default
// when the store is nil or fails.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		prompt, err := store.Load(name)
		if err == nil && prompt != "" {
			return prompt
		}
		if err != nil {
			logger.Warn("prompt %q: %v, using built-in default", name, err)
		}
	}
	return DefaultPrompts()[name]
}

// renderPrompt loads the named template and substitutes vars in a single
// pass, so substituted text is never expanded again. A template that lacks
// any of the placeholders in vars is replaced by the built-in default.
func renderPrompt(store driven.PromptStore, name string, vars map[string]string) string {
	tmpl := loadPrompt(store, name)
	if missing := missingPlaceholders(tmpl, vars); len(missing) > 0 {
		logger.Warn("prompt %q lacks %s, using built-in default", name, strings.Join(missing, ", "))
		tmpl = DefaultPrompts()[name]
	}

	pairs := make([]string, 0, 2*len(vars))
	for placeholder, value := range vars {
		pairs = append(pairs, placeholder, value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func missingPlaceholders(tmpl string, vars map[string]string) []string {
	var missing []string
	for placeholder := range vars {
		if !strings.Contains(tmpl, placeholder) {
			missing = append(missing, placeholder)
		}
	}
	sort.Strings(missing)
	return missing
}

// fieldDefinitions renders the field list embedded in the extraction prompt.
// Each line names the canonical key the model should emit.
func fieldDefinitions(schema *domain.Schema) string {
	var b strings.Builder
	for _, k := range domain.Fields {
		fmt.Fprintf(&b, "- %q (%s): %s.\n", string(k), k.Label(), schema.Description(k))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
