package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docmill/docmill/internal/common"
	"github.com/docmill/docmill/internal/llm"
)

// generateRequest is the body for Ollama's native /api/generate endpoint.
type generateRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateResponse is the non-streaming response shape.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// GenerateEssay implements llm.Generator against a local Ollama runtime.
// One blocking request per document; an optional bounded retry covers
// transient connection failures only, never HTTP-level errors.
func (c *Client) GenerateEssay(ctx context.Context, req llm.EssayRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.generate.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"document", req.DocumentName,
		"text_len", len(req.DocumentText),
		"words", req.WordCount,
	)

	body := generateRequest{
		Model:   c.cfg.Model,
		System:  c.cfg.Persona.System,
		Prompt:  llm.BuildUserPrompt(req),
		Stream:  false,
		Options: personaOptions(c.cfg.Persona),
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"

	var raw []byte
	var err error
	for attempt := 0; ; attempt++ {
		var status int
		raw, status, err = llm.SendJSON(ctx, c.http, endpoint, body, nil, c.log)
		if err == nil {
			break
		}
		if attempt >= c.cfg.MaxRetries || status != 0 || !transient(err) {
			c.log.Error("llm.generate.http_error",
				"req_id", rid, "error", err, "attempts", attempt+1,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return "", common.GenerationError("ollama call for "+req.DocumentName, err)
		}
		c.log.Warn("llm.generate.retry", "req_id", rid, "attempt", attempt+1, "error", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		c.log.Error("llm.generate.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.GenerationError("decode ollama response", err)
	}
	if gr.Error != "" {
		c.log.Error("llm.generate.model_error", "req_id", rid, "error", gr.Error)
		return "", common.GenerationError("ollama: "+gr.Error, nil)
	}
	if strings.TrimSpace(gr.Response) == "" {
		c.log.Error("llm.generate.empty_response", "req_id", rid, "raw_bytes", len(raw))
		return "", common.GenerationError("ollama returned an empty response", nil)
	}

	c.log.Info("llm.generate.ok",
		"req_id", rid,
		"document", req.DocumentName,
		"essay_len", len(gr.Response),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	// Verbatim model output; length and structure are the model's concern.
	return gr.Response, nil
}

func personaOptions(p llm.Persona) map[string]any {
	opts := map[string]any{}
	if p.Temperature != nil {
		opts["temperature"] = *p.Temperature
	}
	if p.NumPredict != nil {
		opts["num_predict"] = *p.NumPredict
	}
	if p.TopP != nil {
		opts["top_p"] = *p.TopP
	}
	if len(opts) == 0 {
		return nil
	}
	return opts
}

// transient reports whether err looks like a connection-level failure worth
// one more attempt. Context cancellation and deadline expiry are not.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
