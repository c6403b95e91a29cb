package services_test

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"regrag/config"
	"regrag/corpus"
	"regrag/embed"
	"regrag/index"
	"regrag/models"
)

// fakeEmbedder returns canned vectors when one is registered for the text and
// a deterministic hash-derived unit vector otherwise. Call counters let tests
// assert that validation short-circuits before any provider call.
type fakeEmbedder struct {
	vectors          map[string][]float32
	embedCalls       int
	batchCalls       int
	failAfterBatches int // fail every EmbedBatch after this many successes, 0 disables
	err              error
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	sum := h.Sum32()
	v := []float32{float32(sum%97) + 1, float32(sum%89) + 1, float32(sum%83) + 1}
	return embed.Normalize(v)
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls++
	if f.err != nil {
		return nil, f.err
	}
	if f.failAfterBatches > 0 && f.batchCalls > f.failAfterBatches {
		return nil, errors.New("embedding provider unavailable")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectorFor(t)
	}
	return out, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

// fakeSynth records every prompt it receives and returns a fixed answer.
type fakeSynth struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeSynth) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeSynth) ModelName() string { return "fake-llm" }

// testCorpus builds an in-memory corpus with one document per content string.
func testCorpus(contents ...string) *corpus.Corpus {
	docs := make([]models.Document, len(contents))
	for i, content := range contents {
		docs[i] = models.Document{
			Content: content,
			Metadata: models.Metadata{
				SourcePath:   fmt.Sprintf("doc_%03d.pdf", i),
				ChunkID:      fmt.Sprintf("chunk_%04d", i),
				ChunkIndex:   i,
				WordCount:    len(strings.Fields(content)),
				CharCount:    len(content),
				DocType:      models.DocTypeOther,
				QualityScore: 0.8,
			},
		}
	}
	return corpus.New(docs, corpus.LoadReport{TotalLines: len(contents), Loaded: len(contents)})
}

func newStore(t *testing.T, emb embed.Embedder) *index.SQLite {
	t.Helper()
	store, err := index.OpenSQLite(config.IndexConfig{
		Backend:         "sqlite",
		PersistLocation: t.TempDir(),
		Collection:      "test_collection",
		BatchSize:       100,
	}, emb)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}
