package services

import (
	"context"
	"fmt"
	"log"

	"regrag/corpus"
	"regrag/index"
)

// BuildOptions control one index build.
type BuildOptions struct {
	BatchSize int
	// Rebuild clears the collection before inserting. Without it a non-empty
	// collection is reused as is.
	Rebuild bool
	// Progress, when set, is called after each committed batch with the
	// number of documents inserted so far and the total to insert.
	Progress func(done, total int)
}

// BuildReport summarizes what one build did.
type BuildReport struct {
	Existing int  // entries present before the build
	Added    int  // entries inserted by this build
	Batches  int  // batches committed
	Skipped  bool // existing collection reused, nothing inserted
	Stale    bool // reuse happened although the collection does not match the corpus
}

// BuildIndex populates the store from the corpus. A rebuild clears first and
// inserts everything; otherwise an empty collection is filled and a non-empty
// one is reused untouched. Reuse checks the persisted corpus stamp when the
// backend keeps one (entry count against corpus size when it does not) and
// flags a mismatch instead of silently assuming the collection is current.
// Batches committed before a failure stay committed; the next build sees them
// as an existing, stale collection.
func BuildIndex(ctx context.Context, store index.Store, c *corpus.Corpus, opts BuildOptions) (*BuildReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	report := &BuildReport{}

	if opts.Rebuild {
		log.Printf("INDEXER: Rebuild requested, clearing collection...")
		if err := store.Clear(ctx); err != nil {
			return report, fmt.Errorf("failed to clear index: %w", err)
		}
	}

	existing, err := store.Count(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to count index entries: %w", err)
	}
	report.Existing = existing

	if existing > 0 {
		report.Skipped = true
		report.Stale = isStale(ctx, store, c, existing)
		if report.Stale {
			log.Printf("INDEXER WARN: Existing index (%d entries) does not match the loaded corpus (%d documents); rebuild to reindex", existing, c.Len())
		} else {
			log.Printf("INDEXER: Using existing vector index with %d entries", existing)
		}
		return report, nil
	}

	docs := c.Documents()
	log.Printf("INDEXER: Indexing %d documents in batches of %d...", len(docs), opts.BatchSize)
	for start := 0; start < len(docs); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		if err := store.Add(ctx, docs[start:end]); err != nil {
			return report, fmt.Errorf("failed to index batch %d: %w", report.Batches+1, err)
		}
		report.Added += end - start
		report.Batches++
		if opts.Progress != nil {
			opts.Progress(report.Added, len(docs))
		}
	}

	if stamper, ok := store.(index.Stamper); ok {
		if err := stamper.SetStamp(ctx, c.Fingerprint()); err != nil {
			return report, fmt.Errorf("failed to stamp index: %w", err)
		}
	}
	log.Printf("INDEXER: Indexed %d documents in %d batches", report.Added, report.Batches)
	return report, nil
}

func isStale(ctx context.Context, store index.Store, c *corpus.Corpus, existing int) bool {
	if stamper, ok := store.(index.Stamper); ok {
		stamp, err := stamper.Stamp(ctx)
		if err == nil && stamp != "" {
			return stamp != c.Fingerprint()
		}
		// No stamp recorded, likely an interrupted build. Fall back to the
		// count comparison.
	}
	return existing != c.Len()
}
