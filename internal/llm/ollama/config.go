package ollama

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/docmill/docmill/internal/llm"
)

// Config for the Ollama client.
type Config struct {
	BaseURL    string        // if empty, falls back to env OLLAMA_HOST, then http://localhost:11434
	Model      string        // e.g. "llama3.2"
	Persona    llm.Persona   // system instruction + generation parameters
	Timeout    time.Duration // http client timeout
	MaxRetries int           // bounded retries on transient connection failure (0 = none)
	HTTPClient *http.Client  // optional; a default client with Timeout is built when nil
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("OLLAMA_HOST")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
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
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:  cfg,
		http: hc,
		log:  logger,
	}
}
