package service

import (
	"strings"
	"testing"

	"kuhp-analyzer-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	query := "Apa perbedaan sanksi pencurian?"
	prompt := BuildAnalysisPrompt(query)

	assert.Contains(t, prompt, query)
	assert.Contains(t, prompt, `"ringkasan"`)
	assert.Contains(t, prompt, `"pasal_terkait"`)
	assert.Contains(t, prompt, `"kuhp_lama"`)
	assert.Contains(t, prompt, `"kuhp_baru"`)
	assert.Contains(t, prompt, `"analisis_perubahan"`)
	assert.Contains(t, prompt, `"kesimpulan"`)

	// Same input, same output.
	assert.Equal(t, prompt, BuildAnalysisPrompt(query))
}

func TestBuildChunkAnalysisPrompt(t *testing.T) {
	chunks := []models.TextChunk{
		{Version: models.VersionOld, Index: 3, Text: "Pasal 362 tentang pencurian"},
		{Version: models.VersionNew, Index: 7, Text: "Pasal 476 tentang pencurian"},
	}
	prompt := BuildChunkAnalysisPrompt("sanksi pencurian", chunks)

	assert.Contains(t, prompt, "[KUHP_LAMA] Pasal 362 tentang pencurian")
	assert.Contains(t, prompt, "[KUHP_BARU] Pasal 476 tentang pencurian")
	assert.Contains(t, prompt, "sanksi pencurian")

	// Context appears ahead of the question.
	assert.Less(t,
		strings.Index(prompt, "[KUHP_LAMA]"),
		strings.Index(prompt, "PERTANYAAN PENGGUNA"))
}

func TestBuildRelevancePrompt(t *testing.T) {
	prompt := BuildRelevancePrompt("Bagaimana cuaca hari ini?")

	assert.Contains(t, prompt, "Bagaimana cuaca hari ini?")
	assert.Contains(t, prompt, "YA atau TIDAK")
	assert.Equal(t, prompt, BuildRelevancePrompt("Bagaimana cuaca hari ini?"))
}
