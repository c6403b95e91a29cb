package services

import (
	"context"
	"fmt"

	"regrag/config"
	"regrag/embed"
	"regrag/index"
	"regrag/models"
)

// Retriever embeds a question and fetches the most similar stored documents.
type Retriever struct {
	embedder embed.Embedder
	store    index.Store
	topK     int
	filter   *index.Filter
}

func NewRetriever(embedder embed.Embedder, store index.Store, cfg config.RetrievalConfig) *Retriever {
	var filter *index.Filter
	if cfg.DocType != "" {
		filter = &index.Filter{DocType: models.DocType(cfg.DocType)}
	}
	return &Retriever{embedder: embedder, store: store, topK: cfg.TopK, filter: filter}
}

// Retrieve returns at most top-k entries ranked by descending cosine
// similarity to the question.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]index.Result, error) {
	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query text: %w", err)
	}
	results, err := r.store.Search(ctx, vector, r.topK, r.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}
	return results, nil
}
