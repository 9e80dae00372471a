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

	"github.com/docmill/docmill/internal/common"
	"github.com/docmill/docmill/internal/extract"
	"github.com/docmill/docmill/internal/ledger"
	"github.com/docmill/docmill/internal/llm"
	"github.com/docmill/docmill/internal/llm/ollama"
	"github.com/docmill/docmill/internal/llm/openai"
	"github.com/docmill/docmill/internal/output"
	"github.com/docmill/docmill/internal/pipeline"
	"github.com/docmill/docmill/internal/report"
	"github.com/docmill/docmill/internal/scanner"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func usage() {
	printError("Usage: docmill [flags] <directory>\n\nAnalyse documents in <directory> and write generated essays to a sibling directory.\n\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	cfg := common.LoadConfig()

	var (
		out       = flag.String("o", "", "output directory (default: sibling <dir>"+cfg.Output.DirSuffix+")")
		model     = flag.String("m", cfg.LLM.Model, "model to use")
		backend   = flag.String("backend", cfg.LLM.Backend, "model backend: ollama or openai")
		persona   = flag.String("persona", cfg.LLM.PersonaPath, "persona YAML file (system instruction + generation parameters)")
		reportOut = flag.String("report", "", "write an XLSX run report to this path")
		ledgerDSN = flag.String("ledger", cfg.Ledger.DSN, "run-ledger DSN (sqlite path or postgres:// URL; empty disables)")
		annotate  = flag.Bool("annotate", cfg.Output.Annotate, "prepend an analysis metadata header to each essay")
		html      = flag.Bool("html", cfg.Output.RenderHTML, "also render each essay to HTML")
		recursive = flag.Bool("recursive", cfg.Scan.Recursive, "scan subdirectories too")
		retries   = flag.Int("retry", cfg.LLM.MaxRetries, "retries on transient model connection failures")
		mock      = flag.Bool("mock", false, "use a deterministic mock generator instead of a model service")
	)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	inputDir := flag.Arg(0)

	cfg.LLM.Model = *model
	cfg.LLM.Backend = *backend
	cfg.LLM.MaxRetries = *retries
	if err := cfg.Validate(); err != nil && !*mock {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Interrupt stops the run between files; essays already written stay intact.
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
		logger.Info("persona loaded", "path", *persona, "name", p.Name)
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
			APIKey:     cfg.LLM.APIKey,
			BaseURL:    cfg.LLM.OpenAIBaseURL,
			Model:      cfg.LLM.Model,
			Persona:    p,
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}, logger)
	default:
		generator = ollama.NewClient(ollama.Config{
			BaseURL:    cfg.LLM.OllamaBaseURL,
			Model:      cfg.LLM.Model,
			Persona:    p,
			Timeout:    cfg.LLM.Timeout,
			MaxRetries: cfg.LLM.MaxRetries,
		}, logger)
	}

	outputDir := *out
	if outputDir == "" {
		outputDir = output.ResolveDir(inputDir, cfg.Output.DirSuffix)
	}

	extractor := extract.NewExtractor(extract.Config{}, logger)
	writer := output.NewWriter(output.Config{
		Dir:       outputDir,
		Extension: cfg.Output.Extension,
		Annotate:  *annotate,
		HTML:      *html,
		ModelName: cfg.LLM.Model,
	}, logger)

	var led *ledger.Ledger
	if *ledgerDSN != "" {
		var err error
		led, err = ledger.Open(ctx, *ledgerDSN, logger)
		if err != nil {
			logger.Error("ledger open failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := led.Close(); err != nil {
				logger.Warn("ledger close failed", "error", err)
			}
		}()
	}

	pipe := pipeline.New(pipeline.Config{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Model:     cfg.LLM.Model,
		ScanOpts: scanner.Options{
			Extensions: cfg.Scan.Extensions,
			Recursive:  *recursive,
			SkipHidden: cfg.Scan.SkipHidden,
		},
	}, logger, extractor, generator, writer, led)

	start := time.Now()
	results, stats, err := pipe.Run(ctx)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if *reportOut != "" {
		xlsx, err := report.BuildXLSX(results, stats, logger)
		if err != nil {
			logger.Error("report build failed", "error", err)
		} else if err := os.WriteFile(*reportOut, xlsx, 0o644); err != nil {
			logger.Error("report write failed", "path", *reportOut, "error", err)
		} else {
			logger.Info("report written", "path", *reportOut)
		}
	}

	if stats.Found == 0 {
		fmt.Printf("No matching documents found in %q, nothing to do.\n", inputDir)
		return
	}

	fmt.Printf("Analysis complete in %s\n", time.Since(start).Round(time.Second))
	fmt.Printf("- Files found: %d\n", stats.Found)
	fmt.Printf("- Succeeded: %d\n", stats.Succeeded)
	fmt.Printf("- Failed: %d\n", stats.Failed)
	fmt.Printf("- Essays: %s\n", outputDir)

	if stats.Succeeded == 0 {
		os.Exit(1)
	}
}
