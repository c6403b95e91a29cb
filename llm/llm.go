// Package llm adapts chat completion providers to the one call the pipeline
// needs: prompt in, answer text out. Provider choice, credentials and
// sampling parameters come from configuration; callers never see a provider
// SDK type.
package llm

import (
	"context"
	"fmt"

	"regrag/config"
)

// Synthesizer turns an assembled prompt into an answer.
type Synthesizer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// New builds the synthesizer selected by the configuration. Construction
// validates credentials but performs no network calls; a bad key surfaces on
// the first Complete.
func New(ctx context.Context, cfg config.LLMConfig) (Synthesizer, error) {
	switch cfg.Provider {
	case "groq", "openai":
		return NewOpenAICompat(cfg)
	case "gemini":
		return NewGemini(ctx, cfg)
	case "ollama":
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
