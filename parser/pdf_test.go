package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kuhp_old.txt")
	require.NoError(t, os.WriteFile(path, []byte("Pasal 362. Pencurian."), 0o644))

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Pasal 362. Pencurian.", text)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText("/nonexistent/kuhp.txt")
	assert.Error(t, err)
}

func TestExtractTextBrokenPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := ExtractText(path)
	assert.Error(t, err)
}
