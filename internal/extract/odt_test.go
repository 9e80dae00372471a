package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractODT(t *testing.T) {
	content := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">` +
		`<office:body><office:text>` +
		`<text:h text:outline-level="1">Title</text:h>` +
		`<text:p>First paragraph.</text:p>` +
		`<text:p>Second paragraph.</text:p>` +
		`</office:text></office:body></office:document-content>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("content.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "doc.odt")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	paragraphs, err := extractODT(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Title", "First paragraph.", "Second paragraph."}
	if len(paragraphs) != len(want) {
		t.Fatalf("got %d paragraphs, want %d: %v", len(paragraphs), len(want), paragraphs)
	}
	for i := range want {
		if paragraphs[i] != want[i] {
			t.Errorf("paragraph[%d] = %q, want %q", i, paragraphs[i], want[i])
		}
	}
}

func TestExtractODTMissingContentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("mimetype")
	_, _ = f.Write([]byte("application/vnd.oasis.opendocument.text"))
	_ = zw.Close()

	path := filepath.Join(t.TempDir(), "doc.odt")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := extractODT(path); err == nil {
		t.Fatal("expected error when content.xml is absent")
	}
}
