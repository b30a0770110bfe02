package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"quizzler/internal/domain"
)

var allowedExtensions = map[string]bool{
	"txt":  true,
	"docx": true,
	"pdf":  true,
}

// FileExtension returns the lowercased extension of filename without the dot
// and whether uploads of that type are accepted.
func FileExtension(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext, allowedExtensions[ext]
}

// ExtractText decodes uploaded bytes into plain text according to the
// declared extension. The caller is expected to have validated the extension
// with FileExtension first.
func ExtractText(ext string, content []byte) (string, error) {
	switch ext {
	case "txt":
		return string(content), nil
	case "docx":
		return extractDocx(content)
	case "pdf":
		return extractPDF(content)
	default:
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}
}

// extractDocx joins non-empty paragraph texts with newlines, matching the
// line-per-paragraph shape the parser expects.
func extractDocx(content []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	var lines []string
	for _, item := range doc.Document.Body.Items {
		paragraph, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(paragraph.String()); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
