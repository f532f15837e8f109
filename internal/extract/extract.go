package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"ragpartner/internal/domain"
)

// FromFile reads a .txt or .pdf file and returns its text. Unsupported
// types and empty content are rejected here, before any provider call.
func FromFile(path string) (string, error) {
	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text = string(data)
	case ".pdf":
		var err error
		text, err = pdfText(path)
		if err != nil {
			return "", fmt.Errorf("extract pdf %s: %w", path, err)
		}
	default:
		return "", fmt.Errorf("%s: %w", path, domain.ErrUnsupportedFile)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrEmptyDocument)
	}
	return text, nil
}

// pdfText extracts plain text page by page and concatenates it. Scanned or
// image-only pages come back empty; that is a known limitation.
func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
