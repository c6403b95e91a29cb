package corpus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regrag/corpus"
	"regrag/models"
)

func doc(content, path string, words int, quality float64) models.Document {
	return models.Document{
		Content: content,
		Metadata: models.Metadata{
			SourcePath:   path,
			ChunkID:      path,
			WordCount:    words,
			DocType:      corpus.InferDocType(path),
			Year:         corpus.ExtractYear(path),
			QualityScore: quality,
		},
	}
}

func TestStatsAggregates(t *testing.T) {
	c := corpus.New([]models.Document{
		doc("a", "data/AnnualReport2021-22.pdf", 60, 0.9),
		doc("b", "data/MasterCircular_2019.pdf", 80, 0.8),
		doc("c", "data/notice.pdf", 100, 0.7),
	}, corpus.LoadReport{})

	stats := c.Stats()
	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, 240, stats.TotalWords)
	assert.InDelta(t, 80.0, stats.AvgWordsPerDoc, 1e-9)
	assert.Equal(t, map[string]int{
		"annual_report":   1,
		"master_circular": 1,
		"other":           1,
	}, stats.DocTypes)
	// Years come back sorted; the yearless document contributes nothing.
	assert.Equal(t, []string{"2019", "2021"}, stats.YearsAvailable)
}

func TestStatsEmptyCorpus(t *testing.T) {
	stats := corpus.New(nil, corpus.LoadReport{}).Stats()
	assert.Equal(t, 0, stats.TotalDocuments)
	assert.Zero(t, stats.AvgWordsPerDoc)
	assert.Empty(t, stats.DocTypes)
}

func TestDerivedViews(t *testing.T) {
	faq1 := doc("f1", "data/FAQ_2020.pdf", 50, 0.5)
	faq2 := doc("f2", "data/faq_listing.pdf", 60, 0.95)
	annual := doc("a1", "data/Annual_Report_2020-21.pdf", 70, 0.8)
	c := corpus.New([]models.Document{faq1, faq2, annual}, corpus.LoadReport{})

	assert.Equal(t, []models.Document{faq1, faq2}, c.ByType(models.DocTypeFAQ))
	assert.Equal(t, []models.Document{faq1, annual}, c.ByYear("2020"))
	assert.Equal(t, []models.Document{faq2, annual}, c.MinQuality(0.8))
	assert.Empty(t, c.ByType(models.DocTypeMasterCircular))
}

func TestFingerprintTracksContent(t *testing.T) {
	a := []models.Document{
		doc("alpha", "data/a.pdf", 50, 0.5),
		doc("beta", "data/b.pdf", 60, 0.5),
	}
	same := []models.Document{
		doc("alpha", "data/a.pdf", 50, 0.5),
		doc("beta", "data/b.pdf", 60, 0.5),
	}
	reordered := []models.Document{a[1], a[0]}
	edited := []models.Document{
		doc("alpha revised", "data/a.pdf", 50, 0.5),
		doc("beta", "data/b.pdf", 60, 0.5),
	}

	fp := corpus.New(a, corpus.LoadReport{}).Fingerprint()
	require.NotEmpty(t, fp)
	assert.Equal(t, fp, corpus.New(same, corpus.LoadReport{}).Fingerprint())
	assert.NotEqual(t, fp, corpus.New(reordered, corpus.LoadReport{}).Fingerprint())
	assert.NotEqual(t, fp, corpus.New(edited, corpus.LoadReport{}).Fingerprint())
}
