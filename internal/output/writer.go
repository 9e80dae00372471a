// Package output persists generated essays next to the source directory.
package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docmill/docmill/constants"
	"github.com/docmill/docmill/internal/common"
)

// ResolveDir derives the output directory for an input directory: a sibling
// named <basename(inputDir)><suffix>. Trailing slashes and relative paths on
// inputDir do not change the result. The output directory is deliberately
// outside inputDir so later runs never re-scan generated essays.
func ResolveDir(inputDir, suffix string) string {
	clean := filepath.Clean(inputDir)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+suffix)
}

// Config configures the essay writer.
type Config struct {
	Dir       string // destination directory, created on first use
	Extension string // output extension without dot (default "md")
	Annotate  bool   // prepend an analysis metadata header
	HTML      bool   // additionally render the essay markdown to HTML
	ModelName string // recorded in the annotation header
}

type Writer struct {
	cfg    Config
	logger *slog.Logger
}

func NewWriter(cfg Config, logger *slog.Logger) *Writer {
	if cfg.Extension == "" {
		cfg.Extension = "md"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{cfg: cfg, logger: logger}
}

// Prepare creates the output directory (and missing parents). Called once per
// run, before any file is processed, so an unwritable output root aborts the
// run up front instead of failing every file.
func (w *Writer) Prepare() error {
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return common.IOError("create output directory "+w.cfg.Dir, err)
	}
	// MkdirAll is a no-op on an existing dir; probe writability explicitly.
	probe, err := os.CreateTemp(w.cfg.Dir, ".docmill-probe-*")
	if err != nil {
		return common.IOError("output directory not writable: "+w.cfg.Dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// Annotation carries the optional metadata header fields.
type Annotation struct {
	WordCount      int
	ParagraphCount int
}

// Write persists one essay as <source-base>.<ext> inside the output
// directory, silently overwriting prior output for the same name. The write
// goes through a temp file + rename so an interrupt never leaves a torn file.
// Returns the essay path.
func (w *Writer) Write(sourcePath, essay string, ann *Annotation) (string, error) {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	dest := filepath.Join(w.cfg.Dir, base+"."+constants.NormalizeExt(w.cfg.Extension))

	content := essay
	if w.cfg.Annotate && ann != nil {
		content = w.header(filepath.Base(sourcePath), ann) + essay +
			fmt.Sprintf("\n\n---\n\n*Generated using model: %s*\n", w.cfg.ModelName)
	}

	if err := w.atomicWrite(dest, []byte(content)); err != nil {
		return "", common.IOError("write essay "+dest, err)
	}
	w.logger.Info("output.written", "source", sourcePath, "dest", dest, "bytes", len(content))

	if w.cfg.HTML {
		htmlDest := filepath.Join(w.cfg.Dir, base+".html")
		rendered, err := RenderHTML(content)
		if err != nil {
			return dest, common.IOError("render html "+htmlDest, err)
		}
		if err := w.atomicWrite(htmlDest, rendered); err != nil {
			return dest, common.IOError("write html "+htmlDest, err)
		}
		w.logger.Info("output.html_written", "dest", htmlDest, "bytes", len(rendered))
	}

	return dest, nil
}

func (w *Writer) header(sourceName string, ann *Annotation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Document Analysis for %s\n\n", sourceName)
	fmt.Fprintf(&b, "**Analysis Date:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Word Count:** %d\n", ann.WordCount)
	fmt.Fprintf(&b, "**Paragraph Count:** %d\n\n", ann.ParagraphCount)
	b.WriteString("---\n\n")
	return b.String()
}

func (w *Writer) atomicWrite(dest string, data []byte) error {
	tmp, err := os.CreateTemp(w.cfg.Dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, dest)
}
