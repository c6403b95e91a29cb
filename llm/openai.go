package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"regrag/config"
)

// OpenAICompat talks to any endpoint speaking the OpenAI chat completion
// protocol. Groq is the default such endpoint; a custom base URL points it
// anywhere else.
type OpenAICompat struct {
	llm         *openai.LLM
	model       string
	temperature float64
	maxTokens   int
}

var _ Synthesizer = (*OpenAICompat)(nil)

func NewOpenAICompat(cfg config.LLMConfig) (*OpenAICompat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm provider %q requires an API key", cfg.Provider)
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create %s client: %w", cfg.Provider, err)
	}
	return &OpenAICompat{
		llm:         client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (o *OpenAICompat) Complete(ctx context.Context, prompt string) (string, error) {
	return complete(ctx, o.llm, prompt, o.temperature, o.maxTokens)
}

func (o *OpenAICompat) ModelName() string { return o.model }

// complete sends a single human message and returns the first choice. Shared
// by every langchaingo-backed provider.
func complete(ctx context.Context, model llms.Model, prompt string, temperature float64, maxTokens int) (string, error) {
	resp, err := model.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}
