package openai

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/docmill/docmill/internal/common"
	"github.com/docmill/docmill/internal/llm"
)

// GenerateEssay implements llm.Generator via chat/completions using the
// official openai-go SDK. Retries on transport failures are delegated to
// the SDK's bounded retry policy.
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

	opts := []option.RequestOption{
		option.WithAPIKey(c.cfg.APIKey),
		option.WithRequestTimeout(c.cfg.Timeout),
		option.WithMaxRetries(c.cfg.MaxRetries),
	}
	if c.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(c.cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.cfg.Persona.System),
			openai.UserMessage(llm.BuildUserPrompt(req)),
		},
	}
	if c.cfg.Persona.Temperature != nil {
		params.Temperature = openai.Float(float64(*c.cfg.Persona.Temperature))
	}
	if c.cfg.Persona.NumPredict != nil && *c.cfg.Persona.NumPredict > 0 {
		params.MaxTokens = openai.Int(int64(*c.cfg.Persona.NumPredict))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		c.log.Error("llm.generate.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.GenerationError("openai call for "+req.DocumentName, err)
	}
	if len(resp.Choices) == 0 {
		c.log.Error("llm.generate.no_choices", "req_id", rid)
		return "", common.GenerationError("no choices in openai response", nil)
	}
	essay := resp.Choices[0].Message.Content
	if strings.TrimSpace(essay) == "" {
		c.log.Error("llm.generate.empty_response", "req_id", rid)
		return "", common.GenerationError("openai returned an empty response", nil)
	}

	c.log.Info("llm.generate.ok",
		"req_id", rid,
		"document", req.DocumentName,
		"essay_len", len(essay),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return essay, nil
}
