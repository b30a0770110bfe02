package ingest

import (
	"errors"
	"testing"

	"quizzler/internal/domain"
)

func TestFileExtension(t *testing.T) {
	tests := []struct {
		filename string
		ext      string
		allowed  bool
	}{
		{"questions.txt", "txt", true},
		{"Questions.DOCX", "docx", true},
		{"deck.pdf", "pdf", true},
		{"payload.exe", "exe", false},
		{"noextension", "", false},
	}
	for _, tt := range tests {
		ext, allowed := FileExtension(tt.filename)
		if ext != tt.ext || allowed != tt.allowed {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", tt.filename, ext, allowed, tt.ext, tt.allowed)
		}
	}
}

func TestExtractTextTxtPassthrough(t *testing.T) {
	text, err := ExtractText("txt", []byte("Q | A | Cat\n"))
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	if text != "Q | A | Cat\n" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractTextUnsupported(t *testing.T) {
	if _, err := ExtractText("exe", nil); !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
}

func TestExtractTextCorruptDocx(t *testing.T) {
	if _, err := ExtractText("docx", []byte("not a zip archive")); err == nil {
		t.Fatalf("expected error for unreadable docx content")
	}
}
