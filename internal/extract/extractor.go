// Package extract pulls paragraph text out of document files.
//
// Supported formats:
//   - .docx: Microsoft Word (archive/zip, word/document.xml)
//   - .odt:  OpenDocument Text (archive/zip, content.xml)
//   - .pdf:  PDF text extraction via pdfcpu
//   - .txt:  plain text (line splitting)
//   - .md:   Markdown (treated as plain text)
//
// Extraction never mutates the source file. Failures are classed as
// common.ErrExtraction so the orchestrator can skip the file and continue.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/docmill/docmill/internal/common"
)

// Config configures the extractor.
type Config struct {
	// MaxFileSize is the maximum file size to process (default: 100 MB).
	MaxFileSize int64
}

type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 100 * 1024 * 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Detect returns the document format based on file extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDocx, nil
	case ".odt":
		return FormatODT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".md", ".markdown":
		return FormatMD, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", filepath.Ext(path))
	}
}

// Extract opens one document and returns its ordered paragraph text.
func (e *Extractor) Extract(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, common.ExtractionError("stat "+path, err)
	}
	if info.Size() > e.cfg.MaxFileSize {
		return nil, common.ExtractionError(path, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), e.cfg.MaxFileSize))
	}

	format, err := Detect(path)
	if err != nil {
		return nil, common.ExtractionError(path, err)
	}

	e.logger.Debug("extract.start", "path", path, "format", format)

	var paragraphs, tables []string
	switch format {
	case FormatDocx:
		paragraphs, tables, err = extractDocx(path)
	case FormatODT:
		paragraphs, err = extractODT(path)
	case FormatPDF:
		paragraphs, err = extractPDF(path)
	case FormatTXT, FormatMD:
		paragraphs, err = extractText(path)
	}
	if err != nil {
		return nil, common.ExtractionError(fmt.Sprintf("extract %s (%s)", path, format), err)
	}

	doc := &Document{
		Path:       path,
		Format:     format,
		Paragraphs: paragraphs,
		Tables:     tables,
	}
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		doc.ParagraphCount++
		doc.WordCount += len(strings.Fields(p))
	}

	e.logger.Debug("extract.ok",
		"path", path,
		"paragraphs", doc.ParagraphCount,
		"words", doc.WordCount,
		"tables", len(tables),
	)
	return doc, nil
}
