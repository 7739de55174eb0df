package service

import (
	"fmt"
	"strings"

	"kuhp-analyzer-backend/models"
)

// SystemInstruction frames every model interaction. Mirrors the analyzer's
// role description shipped with the documents.
const SystemInstruction = `Anda adalah KUHP Analyzer, asisten hukum yang menganalisis perbedaan antara ` +
	`KUHP (Kitab Undang-Undang Hukum Pidana) lama dan baru. Jawab hanya pertanyaan yang berkaitan ` +
	`dengan KUHP, berdasarkan dokumen yang tersedia, secara faktual dan komprehensif.`

// comparisonSchema is the exact output contract sent with every structured
// request. The reply must be this JSON object and nothing else; the
// extractor still tolerates fenced or embedded variants.
const comparisonSchema = `{
  "ringkasan": "ringkasan singkat perbandingan (string)",
  "pasal_terkait": [
    {
      "topik": "nama topik atau tindak pidana (string)",
      "kuhp_lama": {"pasal": "nomor pasal", "judul": "judul pasal", "isi": "isi pasal", "sanksi": "sanksi/hukuman"},
      "kuhp_baru": {"pasal": "nomor pasal", "judul": "judul pasal", "isi": "isi pasal", "sanksi": "sanksi/hukuman"},
      "perbedaan": ["daftar perbedaan utama (list of string)"]
    }
  ],
  "analisis_perubahan": "analisis dampak perubahan (string)",
  "kesimpulan": "kesimpulan (string)"
}`

// BuildAnalysisPrompt produces the instruction text for the full-document
// path. The document attachments are sent separately, always ahead of this
// text. Deterministic for identical inputs.
func BuildAnalysisPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("Dua dokumen terlampir adalah KUHP lama dan KUHP baru.\n\n")
	sb.WriteString(fmt.Sprintf("PERTANYAAN PENGGUNA: %q\n\n", query))
	sb.WriteString(`TUGAS ANDA:
1. Identifikasi perbedaan utama antara KUHP lama dan baru terkait pertanyaan
2. Kutip pasal-pasal yang relevan dari kedua dokumen, termasuk sanksinya
3. Jelaskan dampak dari perubahan tersebut

`)
	sb.WriteString("FORMAT JAWABAN:\nBalas HANYA dengan objek JSON yang valid mengikuti skema berikut, ")
	sb.WriteString("tanpa teks atau komentar di luar JSON. Gunakan null untuk pasal yang hanya ada ")
	sb.WriteString("di salah satu versi.\n\n")
	sb.WriteString(comparisonSchema)
	return sb.String()
}

// BuildChunkAnalysisPrompt produces the instruction text for the chunked
// path, inlining the retrieved context windows tagged by document version.
func BuildChunkAnalysisPrompt(query string, chunks []models.TextChunk) string {
	var context strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			context.WriteString("\n\n")
		}
		context.WriteString(fmt.Sprintf("[%s] %s", strings.ToUpper(string(chunk.Version)), chunk.Text))
	}

	var sb strings.Builder
	sb.WriteString("Analisis perbedaan antara KUHP lama dan baru berdasarkan konteks berikut:\n\n")
	sb.WriteString("KONTEKS DOKUMEN:\n")
	sb.WriteString(context.String())
	sb.WriteString(fmt.Sprintf("\n\nPERTANYAAN PENGGUNA: %q\n\n", query))
	sb.WriteString(`TUGAS ANDA:
1. Identifikasi perbedaan utama antara KUHP lama dan baru terkait pertanyaan
2. Jelaskan perubahan pasal-pasal yang relevan
3. Berikan analisis dampak dari perubahan tersebut

Berikan analisis yang komprehensif dan faktual berdasarkan konteks yang tersedia.`)
	return sb.String()
}

// BuildRelevancePrompt produces the YA/TIDAK classification prompt.
func BuildRelevancePrompt(query string) string {
	return fmt.Sprintf(`Tentukan apakah pertanyaan berikut relevan dengan KUHP:

Pertanyaan: %q

Kriteria relevan:
- Berkaitan dengan pasal-pasal KUHP
- Menyangkut hukum pidana Indonesia
- Membahas kejahatan, pelanggaran, atau sanksi
- Berkaitan dengan perubahan/perbedaan KUHP

Jawab hanya: YA atau TIDAK`, query)
}
