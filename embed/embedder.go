// Package embed adapts external embedding providers to one narrow contract:
// text in, L2-normalized vector out. Normalization happens here so that the
// index can treat dot product as cosine similarity regardless of provider.
package embed

import (
	"context"
	"fmt"
	"math"

	"regrag/config"
)

// Embedder maps text to a fixed-length dense vector. Implementations must
// return unit-length vectors and be deterministic for a fixed model
// configuration.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

// New builds the embedding provider selected by the configuration.
func New(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllama(cfg)
	case "openai":
		return NewOpenAI(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// Normalize scales v to unit length in place and returns it. The zero vector
// comes back unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
	return v
}
