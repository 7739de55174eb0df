package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// ExtractText reads the plain text of a source document. PDF pages are
// concatenated in order; .txt files pass through unchanged, which keeps
// test fixtures simple.
func ExtractText(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".pdf":
		return extractPDFText(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read document %s: %w", path, err)
		}
		return string(data), nil
	}
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	if strings.TrimSpace(buf.String()) == "" {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return buf.String(), nil
}
