package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regrag/config"
	"regrag/models"
	"regrag/services"
)

func TestRetrieveCapsAtTopK(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}
	store := newStore(t, emb)
	c := testCorpus(bigCorpusContents(30)...)
	_, err := services.BuildIndex(ctx, store, c, services.BuildOptions{BatchSize: 100})
	require.NoError(t, err)

	retriever := services.NewRetriever(emb, store, config.RetrievalConfig{TopK: 20})
	results, err := retriever.Retrieve(ctx, "some question")
	require.NoError(t, err)
	assert.Len(t, results, 20)
}

func TestRetrieveRanksByDescendingSimilarity(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"closest passage": {1, 0, 0},
		"middle passage":  {0.6, 0.8, 0},
		"distant passage": {0, 1, 0},
		"the question":    {1, 0, 0},
	}}
	store := newStore(t, emb)
	c := testCorpus("distant passage", "closest passage", "middle passage")
	_, err := services.BuildIndex(ctx, store, c, services.BuildOptions{BatchSize: 100})
	require.NoError(t, err)

	retriever := services.NewRetriever(emb, store, config.RetrievalConfig{TopK: 3})
	results, err := retriever.Retrieve(ctx, "the question")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "closest passage", results[0].Entry.Content)
	assert.Equal(t, "middle passage", results[1].Entry.Content)
	assert.Equal(t, "distant passage", results[2].Entry.Content)
	assert.True(t, results[0].Similarity >= results[1].Similarity)
	assert.True(t, results[1].Similarity >= results[2].Similarity)
}

func TestRetrieveHonorsDocTypeFilter(t *testing.T) {
	ctx := context.Background()
	emb := &fakeEmbedder{}
	store := newStore(t, emb)

	docs := testCorpus("an annual report passage", "a circular passage").Documents()
	docs[0].DocType = models.DocTypeAnnualReport
	docs[1].DocType = models.DocTypeMasterCircular
	require.NoError(t, store.Add(ctx, docs))

	retriever := services.NewRetriever(emb, store, config.RetrievalConfig{
		TopK:    10,
		DocType: "annual_report",
	})
	results, err := retriever.Retrieve(ctx, "any question")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, models.DocTypeAnnualReport, results[0].Entry.Meta.DocType)
}

func TestRetrieveWrapsEmbedFailure(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("provider down")}
	store := newStore(t, emb)

	retriever := services.NewRetriever(emb, store, config.RetrievalConfig{TopK: 5})
	_, err := retriever.Retrieve(context.Background(), "any question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query text")
	assert.Contains(t, err.Error(), "provider down")
}
