package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"regrag/config"
	"regrag/embed"
	"regrag/models"
)

// Chroma keeps the collection in a ChromaDB server. The persist location is
// the server's base URL; the server owns durability. The collection is
// created with cosine space so reported distances convert directly to
// similarities.
type Chroma struct {
	client   chromago.Client
	col      chromago.Collection
	embedder embed.Embedder
	name     string
}

var _ Store = (*Chroma)(nil)

func OpenChroma(ctx context.Context, cfg config.IndexConfig, embedder embed.Embedder) (*Chroma, error) {
	var opts []chromago.ClientOption
	if cfg.PersistLocation != "" {
		opts = append(opts, chromago.WithBaseURL(cfg.PersistLocation))
	}
	client, err := chromago.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma client: %w", err)
	}

	c := &Chroma{client: client, embedder: embedder, name: cfg.Collection}
	if err := c.openCollection(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return c, nil
}

func (c *Chroma) openCollection(ctx context.Context) error {
	col, err := c.client.GetOrCreateCollection(ctx, c.name,
		chromago.WithCollectionMetadataCreate(
			chromago.NewMetadata(chromago.NewStringAttribute("hnsw:space", "cosine")),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to get or create collection %q: %w", c.name, err)
	}
	c.col = col
	return nil
}

func (c *Chroma) Count(ctx context.Context) (int, error) {
	count, err := c.col.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count collection entries: %w", err)
	}
	return int(count), nil
}

func (c *Chroma) Add(ctx context.Context, docs []models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("could not embed batch: %w", err)
	}

	ids := make([]chromago.DocumentID, len(docs))
	embeds := make([]embeddings.Embedding, len(docs))
	metas := make([]chromago.DocumentMetadata, len(docs))
	for i, d := range docs {
		ids[i] = chromago.DocumentID(d.ID())
		embeds[i] = embeddings.NewEmbeddingFromFloat32(vectors[i])
		metas[i] = chromaMetadata(d.Metadata)
	}

	err = c.col.Add(ctx,
		chromago.WithIDs(ids...),
		chromago.WithTexts(texts...),
		chromago.WithEmbeddings(embeds...),
		chromago.WithMetadatas(metas...),
	)
	if err != nil {
		return fmt.Errorf("failed to add batch to chromadb: %w", err)
	}
	return nil
}

func (c *Chroma) Search(ctx context.Context, vector []float32, k int, filter *Filter) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	emb := embeddings.NewEmbeddingFromFloat32(vector)

	var (
		res chromago.QueryResult
		err error
	)
	if filter != nil && filter.DocType != "" {
		res, err = c.col.Query(ctx,
			chromago.WithQueryEmbeddings(emb),
			chromago.WithNResults(k),
			chromago.WithWhereQuery(chromago.EqString("doc_type", string(filter.DocType))),
		)
	} else {
		res, err = c.col.Query(ctx,
			chromago.WithQueryEmbeddings(emb),
			chromago.WithNResults(k),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	idGroups := res.GetIDGroups()
	docGroups := res.GetDocumentsGroups()
	metaGroups := res.GetMetadatasGroups()
	distGroups := res.GetDistancesGroups()
	if len(docGroups) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(docGroups[0]))
	for i, doc := range docGroups[0] {
		entry := Entry{Content: doc.ContentString()}
		if len(idGroups) > 0 && i < len(idGroups[0]) {
			entry.ID = string(idGroups[0][i])
		}
		if len(metaGroups) > 0 && i < len(metaGroups[0]) {
			entry.Meta = decodeChromaMetadata(metaGroups[0][i])
		}
		var similarity float32
		if len(distGroups) > 0 && i < len(distGroups[0]) {
			similarity = 1 - float32(distGroups[0][i])
		}
		results = append(results, Result{Entry: entry, Similarity: similarity})
	}
	return results, nil
}

// Clear drops and recreates the collection; chroma has no bulk
// delete-everything on a collection handle.
func (c *Chroma) Clear(ctx context.Context) error {
	if err := c.client.DeleteCollection(ctx, c.name); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", c.name, err)
	}
	return c.openCollection(ctx)
}

func (c *Chroma) Close() error {
	return c.client.Close()
}

func chromaMetadata(m models.Metadata) chromago.DocumentMetadata {
	return chromago.NewDocumentMetadata(
		chromago.NewStringAttribute("source", m.SourcePath),
		chromago.NewStringAttribute("chunk_id", m.ChunkID),
		chromago.NewIntAttribute("chunk_index", int64(m.ChunkIndex)),
		chromago.NewIntAttribute("word_count", int64(m.WordCount)),
		chromago.NewIntAttribute("char_count", int64(m.CharCount)),
		chromago.NewStringAttribute("doc_type", string(m.DocType)),
		chromago.NewStringAttribute("year", m.Year),
		chromago.NewFloatAttribute("original_quality_score", m.QualityScore),
		chromago.NewIntAttribute("file_size_bytes", m.FileSizeBytes),
	)
}

// decodeChromaMetadata converts a chroma metadata payload back into the typed
// form. The metadata type exposes no value accessors, so round-trip through
// JSON, which the shared tags are aligned with.
func decodeChromaMetadata(meta chromago.DocumentMetadata) models.Metadata {
	var out models.Metadata
	if meta == nil {
		return out
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		log.Printf("INDEX WARN: could not marshal chroma metadata: %v", err)
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("INDEX WARN: could not decode chroma metadata: %v", err)
	}
	return out
}
