package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"

	"regrag/config"
)

// Ollama generates answers through a local Ollama server. No credentials
// involved; useful for fully offline runs.
type Ollama struct {
	llm         *ollama.LLM
	model       string
	temperature float64
	maxTokens   int
}

var _ Synthesizer = (*Ollama)(nil)

func NewOllama(cfg config.LLMConfig) (*Ollama, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create ollama client: %w", err)
	}
	return &Ollama{
		llm:         client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (o *Ollama) Complete(ctx context.Context, prompt string) (string, error) {
	return complete(ctx, o.llm, prompt, o.temperature, o.maxTokens)
}

func (o *Ollama) ModelName() string { return o.model }
