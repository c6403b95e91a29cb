// Package services assembles the retrieval pipeline: corpus, embedder, index
// and synthesizer staged into one queryable handle, plus the index build
// policy that keeps the collection in step with the corpus.
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"regrag/config"
	"regrag/corpus"
	"regrag/embed"
	"regrag/index"
	"regrag/llm"
	"regrag/models"
)

// System is the assembled query pipeline. A System value is immutable: each
// With method returns a new handle with one more stage attached, so a handle
// that ever reported ready cannot become unready behind a caller's back.
type System struct {
	corpus    *corpus.Corpus
	embedder  embed.Embedder
	store     index.Store
	synth     llm.Synthesizer
	retrieval config.RetrievalConfig
}

// NewSystem returns an empty handle carrying only retrieval parameters.
func NewSystem(retrieval config.RetrievalConfig) *System {
	return &System{retrieval: retrieval}
}

func (s *System) WithCorpus(c *corpus.Corpus) *System {
	next := *s
	next.corpus = c
	return &next
}

func (s *System) WithEmbedder(e embed.Embedder) *System {
	next := *s
	next.embedder = e
	return &next
}

func (s *System) WithIndex(store index.Store) *System {
	next := *s
	next.store = store
	return &next
}

func (s *System) WithSynthesizer(synth llm.Synthesizer) *System {
	next := *s
	next.synth = synth
	return &next
}

// EnsureReady reports whether the handle can serve queries. The returned
// error names every missing stage in pipeline order.
func (s *System) EnsureReady() error {
	var missing []string
	if s.corpus == nil {
		missing = append(missing, "corpus")
	}
	if s.embedder == nil {
		missing = append(missing, "embedder")
	}
	if s.store == nil {
		missing = append(missing, "index")
	}
	if s.synth == nil {
		missing = append(missing, "synthesizer")
	}
	if len(missing) > 0 {
		return &NotReadyError{Missing: missing}
	}
	return nil
}

// Query answers one question. An empty question, a missing stage or an empty
// corpus is the caller's problem and comes back as an error. Once the
// pipeline runs, retrieval and synthesis failures do not: they are logged and
// folded into the returned AnsweredQuery, so a serving layer always has
// something to render.
func (s *System) Query(ctx context.Context, question string) (models.AnsweredQuery, error) {
	if strings.TrimSpace(question) == "" {
		return models.AnsweredQuery{}, ErrEmptyQuestion
	}
	if err := s.EnsureReady(); err != nil {
		return models.AnsweredQuery{}, err
	}
	if s.corpus.Len() == 0 {
		return models.AnsweredQuery{}, ErrEmptyCorpus
	}
	log.Printf("SERVICE: Processing query: '%s'", question)

	retriever := NewRetriever(s.embedder, s.store, s.retrieval)
	results, err := retriever.Retrieve(ctx, question)
	if err != nil {
		log.Printf("SERVICE ERROR: Query failed: %v", err)
		return errorAnswer(question, err), nil
	}

	answer, err := s.synth.Complete(ctx, BuildPrompt(results, question))
	if err != nil {
		log.Printf("SERVICE ERROR: Query failed: %v", err)
		return errorAnswer(question, err), nil
	}

	return models.AnsweredQuery{
		Question:    question,
		Answer:      answer,
		Sources:     sourceRefs(results),
		SourceCount: len(results),
		Timestamp:   time.Now().Format(time.RFC3339),
	}, nil
}

// Stats reports corpus aggregates plus readiness flags for the index and
// synthesizer stages.
func (s *System) Stats() (models.CorpusStats, error) {
	if s.corpus == nil || s.corpus.Len() == 0 {
		return models.CorpusStats{}, ErrEmptyCorpus
	}
	stats := s.corpus.Stats()
	stats.IndexReady = s.store != nil
	stats.LLMReady = s.synth != nil
	return stats, nil
}

// Close releases the index connection. No other stage holds resources.
func (s *System) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// errorAnswer is the never-throw fallback: the cause travels in the answer
// text and the sources stay empty.
func errorAnswer(question string, cause error) models.AnsweredQuery {
	return models.AnsweredQuery{
		Question:  question,
		Answer:    fmt.Sprintf("Error processing query: %v", cause),
		Sources:   []models.SourceRef{},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

const previewRunes = 200

func sourceRefs(results []index.Result) []models.SourceRef {
	refs := make([]models.SourceRef, len(results))
	for i, r := range results {
		m := r.Entry.Meta
		refs[i] = models.SourceRef{
			SourceFile:     m.SourcePath,
			DocType:        m.DocType,
			Year:           m.Year,
			ChunkID:        m.ChunkID,
			WordCount:      m.WordCount,
			QualityScore:   m.QualityScore,
			ContentPreview: preview(r.Entry.Content),
		}
	}
	return refs
}

// preview keeps the first 200 runes and marks the cut; shorter content comes
// back whole.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewRunes {
		return content
	}
	return string(runes[:previewRunes]) + "..."
}
