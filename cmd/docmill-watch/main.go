package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docmill/docmill/constants"
	"github.com/docmill/docmill/internal/common"
	"github.com/docmill/docmill/internal/extract"
	"github.com/docmill/docmill/internal/llm"
	"github.com/docmill/docmill/internal/llm/ollama"
	"github.com/docmill/docmill/internal/llm/openai"
	"github.com/docmill/docmill/internal/output"
	"github.com/docmill/docmill/internal/pipeline"
	"github.com/docmill/docmill/internal/scanner"
	"github.com/docmill/docmill/internal/watch"
)

func main() {
	cfg := common.LoadConfig()

	var (
		out      = flag.String("o", "", "output directory (default: sibling <dir>"+cfg.Output.DirSuffix+")")
		model    = flag.String("m", cfg.LLM.Model, "model to use")
		backend  = flag.String("backend", cfg.LLM.Backend, "model backend: ollama or openai")
		persona  = flag.String("persona", cfg.LLM.PersonaPath, "persona YAML file")
		initial  = flag.Bool("initial-scan", false, "process documents already present at startup")
		debounce = flag.Duration("debounce", 500*time.Millisecond, "coalesce rapid write events per file")
		mock     = flag.Bool("mock", false, "use a deterministic mock generator instead of a model service")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: docmill-watch [flags] <directory>\n\nWatch <directory> and analyse documents as they appear.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	inputDir := flag.Arg(0)

	cfg.LLM.Model = *model
	cfg.LLM.Backend = *backend
	if err := cfg.Validate(); err != nil && !*mock {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := llm.DefaultPersona()
	if *persona != "" {
		var err error
		p, err = llm.LoadPersona(*persona)
		if err != nil {
			logger.Error("persona load failed", "path", *persona, "error", err)
			os.Exit(1)
		}
	}
	if p.Temperature == nil {
		t := cfg.LLM.Temperature
		p.Temperature = &t
	}

	var generator llm.Generator
	switch {
	case *mock:
		generator = llm.MockGenerator{}
		logger.Warn("using mock generator, no model service will be called")
	case cfg.LLM.Backend == "openai":
		generator = openai.NewClient(openai.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.OpenAIBaseURL,
			Model:   cfg.LLM.Model,
			Persona: p,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	default:
		generator = ollama.NewClient(ollama.Config{
			BaseURL: cfg.LLM.OllamaBaseURL,
			Model:   cfg.LLM.Model,
			Persona: p,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	}

	outputDir := *out
	if outputDir == "" {
		outputDir = output.ResolveDir(inputDir, cfg.Output.DirSuffix)
	}

	scanOpts := scanner.Options{
		Extensions: cfg.Scan.Extensions,
		Recursive:  true,
		SkipHidden: cfg.Scan.SkipHidden,
	}

	extractor := extract.NewExtractor(extract.Config{}, logger)
	writer := output.NewWriter(output.Config{
		Dir:       outputDir,
		Extension: cfg.Output.Extension,
		Annotate:  cfg.Output.Annotate,
		HTML:      cfg.Output.RenderHTML,
		ModelName: cfg.LLM.Model,
	}, logger)

	pipe := pipeline.New(pipeline.Config{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Model:     cfg.LLM.Model,
		ScanOpts:  scanOpts,
	}, logger, extractor, generator, writer, nil)

	events, errs, err := watch.Start(ctx, watch.Config{
		Root:        inputDir,
		ScanOpts:    scanOpts,
		InitialScan: *initial,
		Debounce:    *debounce,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("watch.start", "dir", inputDir, "out", outputDir)
	var processed, failed int
	for events != nil || errs != nil {
		select {
		case path, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			res := pipe.ProcessOne(ctx, path)
			if res.Status == constants.StatusWritten {
				processed++
			} else {
				failed++
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		}
	}

	fmt.Printf("Watch stopped. Processed: %d, failed: %d\n", processed, failed)
}
