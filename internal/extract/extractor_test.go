package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docmill/docmill/internal/common"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path   string
		format Format
	}{
		{"doc.docx", FormatDocx},
		{"doc.DOCX", FormatDocx},
		{"doc.odt", FormatODT},
		{"doc.pdf", FormatPDF},
		{"doc.txt", FormatTXT},
		{"doc.md", FormatMD},
		{"doc.markdown", FormatMD},
	}
	for _, tt := range tests {
		f, err := Detect(tt.path)
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.path, err)
			continue
		}
		if f != tt.format {
			t.Errorf("Detect(%q) = %q, want %q", tt.path, f, tt.format)
		}
	}

	if _, err := Detect("file.xyz"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExtractCountsAndText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poem.docx")
	writeDocx(t, path, []string{"Rose is red", "", "Violet is blue"}, nil)

	ex := NewExtractor(Config{}, nil)
	doc, err := ex.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Format != FormatDocx {
		t.Errorf("format = %q", doc.Format)
	}
	// Blank separator lines don't count as paragraphs, but survive in Text.
	if doc.ParagraphCount != 2 {
		t.Errorf("ParagraphCount = %d, want 2", doc.ParagraphCount)
	}
	if doc.WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", doc.WordCount)
	}
	if got := doc.Text(); got != "Rose is red\n\nViolet is blue" {
		t.Errorf("Text() = %q", got)
	}
}

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("line one\n\nline two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ex := NewExtractor(Config{}, nil)
	doc, err := ex.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Text(); got != "line one\n\nline two" {
		t.Errorf("Text() = %q", got)
	}
	if doc.ParagraphCount != 2 {
		t.Errorf("ParagraphCount = %d, want 2", doc.ParagraphCount)
	}
}

func TestExtractFailureIsClassed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("renamed text file"), 0o644); err != nil {
		t.Fatal(err)
	}

	ex := NewExtractor(Config{}, nil)
	_, err := ex.Extract(context.Background(), path)
	if err == nil {
		t.Fatal("expected extraction error")
	}
	if !errors.Is(err, common.ErrExtraction) {
		t.Errorf("error not classed as ErrExtraction: %v", err)
	}
}

func TestExtractFileTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatal(err)
	}

	ex := NewExtractor(Config{MaxFileSize: 4}, nil)
	if _, err := ex.Extract(context.Background(), path); err == nil {
		t.Fatal("expected error for oversized file")
	}
}

func TestExtractDoesNotMutateSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poem.docx")
	writeDocx(t, path, []string{"Rose"}, nil)
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	ex := NewExtractor(Config{}, nil)
	if _, err := ex.Extract(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("source file changed during extraction")
	}
}
