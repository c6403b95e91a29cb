package index

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "modernc.org/sqlite"

	"regrag/config"
	"regrag/embed"
	"regrag/models"
)

// SQLite keeps the collection in a single database file inside the persist
// directory: durable rows in SQLite, brute-force cosine scoring over an
// in-memory vector cache. Suits corpora that fit in memory, which the
// single-process model already assumes.
type SQLite struct {
	db       *sql.DB
	embedder embed.Embedder
	path     string

	mu    sync.RWMutex
	cache []cachedEntry // nil until the first search after open or a write
}

type cachedEntry struct {
	entry  Entry
	vector []float32
}

var (
	_ Store   = (*SQLite)(nil)
	_ Stamper = (*SQLite)(nil)
)

const stampKey = "corpus_stamp"

func OpenSQLite(cfg config.IndexConfig, embedder embed.Embedder) (*SQLite, error) {
	if err := os.MkdirAll(cfg.PersistLocation, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	path := filepath.Join(cfg.PersistLocation, cfg.Collection+".db")

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	s := &SQLite{db: db, embedder: embedder, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	id       TEXT NOT NULL UNIQUE,
	content  TEXT NOT NULL,
	embedding BLOB NOT NULL,
	metadata TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS collection_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating index schema: %w", err)
	}
	return nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting index entries: %w", err)
	}
	return n, nil
}

func (s *SQLite) Add(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("could not embed batch: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting index transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO entries (id, content, embedding, metadata) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET content = excluded.content, embedding = excluded.embedding, metadata = excluded.metadata`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range docs {
		meta, err := json.Marshal(d.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %s: %w", d.ID(), err)
		}
		if _, err := stmt.ExecContext(ctx, d.ID(), d.Content, vectorToBlob(vectors[i]), string(meta)); err != nil {
			return fmt.Errorf("inserting entry %s: %w", d.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index batch: %w", err)
	}

	s.invalidateCache()
	return nil
}

func (s *SQLite) Search(ctx context.Context, vector []float32, k int, filter *Filter) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	entries, err := s.loadCache(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]Result, 0, len(entries))
	for _, ce := range entries {
		if filter != nil && filter.DocType != "" && ce.entry.Meta.DocType != filter.DocType {
			continue
		}
		scored = append(scored, Result{Entry: ce.entry, Similarity: dot(vector, ce.vector)})
	}

	// Stable sort keeps insertion order between equal scores.
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Similarity > scored[j].Similarity })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clearing index entries: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM collection_meta`); err != nil {
		return fmt.Errorf("clearing collection metadata: %w", err)
	}
	s.invalidateCache()
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Stamp returns the stored corpus stamp, or empty when none was written yet.
func (s *SQLite) Stamp(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM collection_meta WHERE key = ?`, stampKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading corpus stamp: %w", err)
	}
	return v, nil
}

func (s *SQLite) SetStamp(ctx context.Context, stamp string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO collection_meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value`, stampKey, stamp)
	if err != nil {
		return fmt.Errorf("writing corpus stamp: %w", err)
	}
	return nil
}

func (s *SQLite) invalidateCache() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// loadCache pulls every entry into memory in insertion order. The cache is
// replaced wholesale and never mutated, so holders of the returned slice are
// safe without the lock.
func (s *SQLite) loadCache(ctx context.Context) ([]cachedEntry, error) {
	s.mu.RLock()
	if s.cache != nil {
		cached := s.cache
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil {
		return s.cache, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, embedding, metadata FROM entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("loading index entries: %w", err)
	}
	defer rows.Close()

	cache := make([]cachedEntry, 0, 256)
	for rows.Next() {
		var (
			id, content, metaJSON string
			blob                  []byte
		)
		if err := rows.Scan(&id, &content, &blob, &metaJSON); err != nil {
			return nil, fmt.Errorf("scanning index entry: %w", err)
		}
		var meta models.Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("decoding metadata for entry %s: %w", id, err)
		}
		cache = append(cache, cachedEntry{
			entry:  Entry{ID: id, Content: content, Meta: meta},
			vector: blobToVector(blob),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating index entries: %w", err)
	}

	s.cache = cache
	return cache, nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func vectorToBlob(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func blobToVector(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
