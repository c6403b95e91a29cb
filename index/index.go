// Package index persists document embeddings and serves k-nearest-neighbor
// cosine similarity search over them. Two backends share one contract: a
// ChromaDB server collection and an embedded SQLite collection.
package index

import (
	"context"
	"fmt"

	"regrag/config"
	"regrag/embed"
	"regrag/models"
)

// Entry is one persisted document: stable id, original text, metadata.
type Entry struct {
	ID      string
	Content string
	Meta    models.Metadata
}

// Result pairs an entry with its cosine similarity to the query vector.
type Result struct {
	Entry      Entry
	Similarity float32
}

// Filter restricts a search to entries of one document type. A nil filter
// means no restriction.
type Filter struct {
	DocType models.DocType
}

// Store is a persistent vector collection. Reads are safe to run
// concurrently; Add must not run concurrently with Search on the same
// collection.
type Store interface {
	// Count reports the number of entries currently stored.
	Count(ctx context.Context) (int, error)
	// Add embeds each document's content and stores (id, vector, content,
	// metadata). Callers pass bounded batches; batches committed before a
	// failure remain committed.
	Add(ctx context.Context, docs []models.Document) error
	// Search returns at most k entries ordered by descending similarity,
	// ties broken by insertion order.
	Search(ctx context.Context, vector []float32, k int, filter *Filter) ([]Result, error)
	// Clear removes every entry and any stored stamp.
	Clear(ctx context.Context) error
	Close() error
}

// Stamper is the optional capability of persisting a corpus content stamp
// next to the entries. The build policy uses it to detect a stale or
// partially built collection instead of assuming a non-empty one is current.
type Stamper interface {
	Stamp(ctx context.Context) (string, error)
	SetStamp(ctx context.Context, stamp string) error
}

// Open connects the configured backend. Opening the same persist location
// and collection name across restarts yields the same logical collection.
func Open(ctx context.Context, cfg config.IndexConfig, embedder embed.Embedder) (Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return OpenSQLite(cfg, embedder)
	case "chroma":
		return OpenChroma(ctx, cfg, embedder)
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Backend)
	}
}
