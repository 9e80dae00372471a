package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docmill/docmill/constants"
)

// Config holds all application configuration
type Config struct {
	Scan   ScanConfig
	LLM    LLMConfig
	Output OutputConfig
	Ledger LedgerConfig
}

// ScanConfig holds document discovery configuration
type ScanConfig struct {
	Extensions []string
	Recursive  bool
	SkipHidden bool
}

// LLMConfig holds model-related configuration
type LLMConfig struct {
	Backend       string // "ollama" (default) or "openai"
	Model         string
	OllamaBaseURL string // ollama backend only
	OpenAIBaseURL string // openai backend only; empty means the platform default
	APIKey        string
	PersonaPath   string
	Temperature   float32
	Timeout       time.Duration
	MaxRetries    int
}

// OutputConfig holds output layout configuration
type OutputConfig struct {
	DirSuffix  string
	Extension  string
	Annotate   bool
	RenderHTML bool
}

// LedgerConfig holds run-ledger configuration
type LedgerConfig struct {
	DSN string // empty disables the ledger; "file:..." sqlite or postgres:// DSN
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: splitList(getEnv("DOCMILL_EXTENSIONS", "docx")),
			Recursive:  getEnvAsBool("DOCMILL_RECURSIVE", false),
			SkipHidden: getEnvAsBool("DOCMILL_SKIP_HIDDEN", true),
		},
		LLM: LLMConfig{
			Backend:       getEnv("DOCMILL_BACKEND", "ollama"),
			Model:         getEnv("DOCMILL_MODEL", "llama3.2"),
			OllamaBaseURL: getEnv("OLLAMA_HOST", ""),
			OpenAIBaseURL: getEnv("DOCMILL_OPENAI_BASE_URL", ""),
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			PersonaPath:   getEnv("DOCMILL_PERSONA", ""),
			Temperature:   getEnvAsFloat32("DOCMILL_TEMPERATURE", 0.7),
			Timeout:       getEnvAsDuration("DOCMILL_TIMEOUT", 120*time.Second),
			MaxRetries:    getEnvAsInt("DOCMILL_MAX_RETRIES", 0),
		},
		Output: OutputConfig{
			DirSuffix:  getEnv("DOCMILL_OUT_SUFFIX", "_essays"),
			Extension:  getEnv("DOCMILL_OUTPUT_EXT", "md"),
			Annotate:   getEnvAsBool("DOCMILL_ANNOTATE", false),
			RenderHTML: getEnvAsBool("DOCMILL_HTML", false),
		},
		Ledger: LedgerConfig{
			DSN: getEnv("DOCMILL_LEDGER_DSN", ""),
		},
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return NewAppError("CONFIG_ERROR", "model name is required", ErrInvalidInput)
	}
	if c.LLM.Backend != "ollama" && c.LLM.Backend != "openai" {
		return NewAppError("CONFIG_ERROR", "backend must be ollama or openai", ErrInvalidInput)
	}
	if c.LLM.Backend == "openai" && c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai backend", ErrInvalidInput)
	}
	if c.Output.DirSuffix == "" {
		return NewAppError("CONFIG_ERROR", "output directory suffix must not be empty", ErrInvalidInput)
	}
	supported := constants.ExtSet(constants.SupportedExtensions)
	for _, e := range c.Scan.Extensions {
		if _, ok := supported[constants.NormalizeExt(e)]; !ok {
			return NewAppError("CONFIG_ERROR", "unsupported extension: "+e, ErrInvalidInput)
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
