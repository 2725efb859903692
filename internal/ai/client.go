// Package ai wraps a chat model behind a small client interface and
// provides the extraction shims built on top of it. Every shim is
// best-effort: the model either produces usable content or a failure
// sentinel, and the sentinel is surfaced as an ExtractionFailed error
// rather than retried.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/docforge/docforge/internal/docerr"
)

// Client is the AI surface the shims need: plain completion and
// vision completion over a single user turn.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteVision(ctx context.Context, prompt string, image []byte, mime string) (string, error)
}

// Config selects the provider and model.
type Config struct {
	Provider string // "openai", "googleai" or "ollama"
	Model    string
	APIKey   string
	BaseURL  string // openai-compatible endpoints and the ollama host
}

// LLMClient is the langchaingo-backed Client.
type LLMClient struct {
	model llms.Model
}

// New builds a client for the configured provider.
func New(ctx context.Context, cfg Config) (*LLMClient, error) {
	var model llms.Model
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		opts := []openai.Option{openai.WithModel(cfg.Model), openai.WithToken(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case "googleai":
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model))
	case "ollama":
		opts := []ollama.Option{ollama.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		model, err = ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}

	return &LLMClient{model: model}, nil
}

// Complete runs a single text completion.
func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []llms.ContentPart{llms.TextPart(prompt)})
}

// CompleteVision runs a single completion over a prompt and one image.
func (c *LLMClient) CompleteVision(ctx context.Context, prompt string, image []byte, mime string) (string, error) {
	return c.generate(ctx, []llms.ContentPart{
		llms.BinaryPart(mime, image),
		llms.TextPart(prompt),
	})
}

func (c *LLMClient) generate(ctx context.Context, parts []llms.ContentPart) (string, error) {
	const op = "ai.generate"

	resp, err := c.model.GenerateContent(ctx, []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: parts},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", docerr.New(docerr.KindTransport, op, err)
	}
	if len(resp.Choices) == 0 {
		return "", docerr.Newf(docerr.KindTransport, op, "model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
