// Package pipeline runs the per-document flow: extract text, generate an
// essay, write it out. Files are processed strictly sequentially; one file's
// failure never aborts the run.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docmill/docmill/constants"
	"github.com/docmill/docmill/internal/extract"
	"github.com/docmill/docmill/internal/ledger"
	"github.com/docmill/docmill/internal/llm"
	"github.com/docmill/docmill/internal/output"
	"github.com/docmill/docmill/internal/scanner"
)

// FileResult is the explicit per-file outcome. Stage failures land here as
// data; the orchestrator's aggregation is a plain fold over these values.
type FileResult struct {
	Path           string
	EssayPath      string
	WordCount      int
	ParagraphCount int
	Status         constants.FileStatus
	Err            string
}

// RunStats are the run-level counters reported in the final summary.
type RunStats struct {
	Found     int
	Succeeded int
	Failed    int
}

// Config carries the run-level identity the ledger records.
type Config struct {
	InputDir  string
	OutputDir string
	Model     string
	ScanOpts  scanner.Options
}

// Pipeline wires the three stages together.
type Pipeline struct {
	cfg       Config
	logger    *slog.Logger
	extractor *extract.Extractor
	generator llm.Generator
	writer    *output.Writer
	ledger    *ledger.Ledger // optional
}

func New(cfg Config, logger *slog.Logger, ex *extract.Extractor, gen llm.Generator, w *output.Writer, led *ledger.Ledger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		extractor: ex,
		generator: gen,
		writer:    w,
		ledger:    led,
	}
}

// Run scans the input directory and processes every matching file in scan
// order. It fails fast on directory-level problems (bad input path,
// unwritable output root) and otherwise always completes, returning per-file
// results and aggregate stats. A cancelled context stops the run between
// files; already-written essays stay intact.
func (p *Pipeline) Run(ctx context.Context) ([]FileResult, RunStats, error) {
	var stats RunStats

	files, err := scanner.Scan(p.cfg.InputDir, p.cfg.ScanOpts)
	if err != nil {
		return nil, stats, err
	}
	stats.Found = len(files)

	if len(files) == 0 {
		p.logger.Info("run.nothing_to_do", "dir", p.cfg.InputDir)
		return nil, stats, nil
	}

	if err := p.writer.Prepare(); err != nil {
		return nil, stats, err
	}

	var runID uuid.UUID
	if p.ledger != nil {
		runID, err = p.ledger.BeginRun(ctx, p.cfg.InputDir, p.cfg.OutputDir, p.cfg.Model)
		if err != nil {
			// Ledger trouble should not block essay generation.
			p.logger.Warn("run.ledger_begin_failed", "error", err)
			p.ledger = nil
		}
	}

	p.logger.Info("run.start", "dir", p.cfg.InputDir, "files", len(files), "out", p.cfg.OutputDir)

	results := make([]FileResult, 0, len(files))
	for i, path := range files {
		if ctx.Err() != nil {
			p.logger.Warn("run.interrupted", "processed", i, "remaining", len(files)-i)
			break
		}

		res := p.processFile(ctx, path)
		results = append(results, res)
		if res.Status == constants.StatusWritten {
			stats.Succeeded++
		} else {
			stats.Failed++
		}

		if p.ledger != nil {
			if err := p.ledger.RecordFile(ctx, ledger.FileRecord{
				RunID:          runID,
				SourcePath:     res.Path,
				EssayPath:      res.EssayPath,
				Status:         res.Status,
				WordCount:      res.WordCount,
				ParagraphCount: res.ParagraphCount,
				Err:            res.Err,
				StartedAt:      time.Now(),
			}); err != nil {
				p.logger.Warn("run.ledger_record_failed", "path", res.Path, "error", err)
			}
		}
	}

	if p.ledger != nil {
		if err := p.ledger.FinishRun(ctx, runID, stats.Found, stats.Succeeded, stats.Failed); err != nil {
			p.logger.Warn("run.ledger_finish_failed", "error", err)
		}
	}

	p.logger.Info("run.summary",
		"found", stats.Found,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

// ProcessOne runs the per-file stages for a single path. Exported for the
// watcher, which feeds files one at a time instead of scanning.
func (p *Pipeline) ProcessOne(ctx context.Context, path string) FileResult {
	if err := p.writer.Prepare(); err != nil {
		return FileResult{Path: path, Status: constants.StatusFailed, Err: err.Error()}
	}
	return p.processFile(ctx, path)
}

func (p *Pipeline) processFile(ctx context.Context, path string) FileResult {
	start := time.Now()
	res := FileResult{Path: path, Status: constants.StatusFailed}

	doc, err := p.extractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("file.extract_failed", "path", path, "error", err)
		res.Err = err.Error()
		return res
	}
	res.WordCount = doc.WordCount
	res.ParagraphCount = doc.ParagraphCount
	p.logger.Info("file.extract_ok",
		"path", path,
		"paragraphs", doc.ParagraphCount,
		"words", doc.WordCount,
	)

	essay, err := p.generator.GenerateEssay(ctx, llm.EssayRequest{
		DocumentName:   filepath.Base(path),
		DocumentText:   doc.Text(),
		Tables:         joinTables(doc.Tables),
		WordCount:      doc.WordCount,
		ParagraphCount: doc.ParagraphCount,
	})
	if err != nil {
		p.logger.Error("file.generate_failed", "path", path, "error", err)
		res.Err = err.Error()
		return res
	}

	essayPath, err := p.writer.Write(path, essay, &output.Annotation{
		WordCount:      doc.WordCount,
		ParagraphCount: doc.ParagraphCount,
	})
	if err != nil {
		p.logger.Error("file.write_failed", "path", path, "error", err)
		res.Err = err.Error()
		return res
	}

	res.EssayPath = essayPath
	res.Status = constants.StatusWritten
	p.logger.Info("file.ok", "path", path, "essay", essayPath, "elapsed_ms", time.Since(start).Milliseconds())
	return res
}

func joinTables(tables []string) string {
	return strings.Join(tables, "\n\n")
}
