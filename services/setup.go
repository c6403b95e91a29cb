package services

import (
	"context"
	"fmt"
	"log"

	"regrag/config"
	"regrag/corpus"
	"regrag/embed"
	"regrag/index"
	"regrag/llm"
)

// Setup bootstraps the full pipeline in stage order: load the corpus, build
// the embedder, open and populate the index, connect the synthesizer. Startup
// problems (missing corpus file, missing credentials, unreachable backends)
// come back as errors; nothing here is softened into a degraded answer.
func Setup(ctx context.Context, cfg *config.Config, build BuildOptions) (*System, error) {
	c, err := corpus.NewLoader(cfg.Corpus.Path, cfg.Corpus.MinWordCount).Load()
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	report := c.Report()
	log.Printf("SERVICE: Loaded %d documents from %s (%d too short, %d parse errors)",
		c.Len(), cfg.Corpus.Path, report.FilteredShort, report.ParseErrors)

	embedder, err := embed.New(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	store, err := index.Open(ctx, cfg.Index, embedder)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	if build.BatchSize == 0 {
		build.BatchSize = cfg.Index.BatchSize
	}
	if _, err := BuildIndex(ctx, store, c, build); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("building index: %w", err)
	}

	synth, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("creating synthesizer: %w", err)
	}
	log.Printf("SERVICE: Pipeline ready (embedder: %s, llm: %s)", embedder.ModelName(), synth.ModelName())

	return NewSystem(cfg.Retrieval).
		WithCorpus(c).
		WithEmbedder(embedder).
		WithIndex(store).
		WithSynthesizer(synth), nil
}
