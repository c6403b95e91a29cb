package embed

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"

	"regrag/config"
)

// Ollama embeds text through a local Ollama server.
type Ollama struct {
	llm   *ollama.LLM
	model string
}

var _ Embedder = (*Ollama)(nil)

func NewOllama(cfg config.EmbeddingConfig) (*Ollama, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama embedder: %w", err)
	}
	return &Ollama{llm: llm, model: cfg.Model}, nil
}

func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (o *Ollama) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := o.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding failed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("ollama returned %d embeddings for %d texts", len(vecs), len(texts))
	}
	for i := range vecs {
		Normalize(vecs[i])
	}
	return vecs, nil
}

func (o *Ollama) ModelName() string {
	return o.model
}
