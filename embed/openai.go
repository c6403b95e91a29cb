package embed

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"regrag/config"
)

// OpenAI embeds text through any OpenAI-compatible embeddings endpoint.
// Hosted endpoints throttle aggressively during bulk indexing, so requests
// are paced by an optional rate limiter.
type OpenAI struct {
	llm     *openai.LLM
	model   string
	limiter *rate.Limiter
}

var _ Embedder = (*OpenAI)(nil)

func NewOpenAI(cfg config.EmbeddingConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai embedder: OPENAI_API_KEY is not set")
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai embedder: %w", err)
	}

	e := &OpenAI{llm: llm, model: cfg.Model}
	if cfg.RequestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return e, nil
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	vecs, err := o.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(vecs), len(texts))
	}
	for i := range vecs {
		Normalize(vecs[i])
	}
	return vecs, nil
}

func (o *OpenAI) ModelName() string {
	return o.model
}
