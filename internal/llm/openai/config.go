package openai

import (
	"log/slog"
	"os"
	"time"

	"github.com/docmill/docmill/internal/llm"
)

// Config for the OpenAI-compatible client. With BaseURL pointed at a local
// OpenAI-compatible server this backend stays fully on-machine.
type Config struct {
	APIKey     string // if empty, falls back to env OPENAI_API_KEY
	BaseURL    string // default https://api.openai.com/v1
	Model      string // e.g. "gpt-4o-mini"
	Persona    llm.Persona
	Timeout    time.Duration // per-request timeout
	MaxRetries int
}

type Client struct {
	cfg Config
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Persona.Model != "" {
		cfg.Model = cfg.Persona.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, log: logger}
}
