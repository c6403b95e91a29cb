package corpus_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regrag/corpus"
	"regrag/models"
)

func record(text string, words int, path string) models.ChunkRecord {
	return models.ChunkRecord{
		ChunkText:             text,
		ChunkWordCount:        words,
		ChunkCharCount:        len(text),
		ChunkID:               "chunk-0",
		ChunkIndex:            0,
		OriginalPDFPath:       path,
		OriginalFileSizeBytes: 2048,
		ProcessingMetadata:    models.ProcessingMetadata{OriginalQualityScore: 0.9},
	}
}

func writeCorpus(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func recordLine(t *testing.T, rec models.ChunkRecord) string {
	t.Helper()
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	return string(b)
}

func TestLoadFiltersShortChunks(t *testing.T) {
	path := writeCorpus(t,
		recordLine(t, record("tiny chunk", 10, "docs/faq_general.pdf")),
		recordLine(t, record("a chunk that clears the filter", 60, "docs/faq_general.pdf")),
		recordLine(t, record("another retained chunk", 80, "docs/faq_general.pdf")),
	)

	c, err := corpus.NewLoader(path, 50).Load()
	require.NoError(t, err)

	docs := c.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "a chunk that clears the filter", docs[0].Content)
	assert.Equal(t, "another retained chunk", docs[1].Content)

	report := c.Report()
	assert.Equal(t, 3, report.TotalLines)
	assert.Equal(t, 2, report.Loaded)
	assert.Equal(t, 1, report.FilteredShort)
	assert.Equal(t, 0, report.ParseErrors)
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := writeCorpus(t,
		recordLine(t, record("first valid chunk", 60, "docs/report.pdf")),
		`{"chunk_text": "broken record`,
		recordLine(t, record("second valid chunk", 70, "docs/report.pdf")),
	)

	c, err := corpus.NewLoader(path, 50).Load()
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	report := c.Report()
	assert.Equal(t, 3, report.TotalLines)
	assert.Equal(t, 1, report.ParseErrors)
	assert.Equal(t, 2, report.Loaded)
}

func TestLoadSkipsEmptyChunkText(t *testing.T) {
	path := writeCorpus(t,
		recordLine(t, record("   ", 60, "docs/report.pdf")),
		recordLine(t, record("usable text", 60, "docs/report.pdf")),
	)

	c, err := corpus.NewLoader(path, 50).Load()
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.Report().ParseErrors)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := corpus.NewLoader(filepath.Join(t.TempDir(), "absent.jsonl"), 50).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadPreservesInputOrder(t *testing.T) {
	path := writeCorpus(t,
		recordLine(t, record("chunk one", 60, "docs/a.pdf")),
		recordLine(t, record("chunk two", 60, "docs/b.pdf")),
		recordLine(t, record("chunk three", 60, "docs/c.pdf")),
	)

	c, err := corpus.NewLoader(path, 50).Load()
	require.NoError(t, err)

	var contents []string
	for _, d := range c.Documents() {
		contents = append(contents, d.Content)
	}
	assert.Equal(t, []string{"chunk one", "chunk two", "chunk three"}, contents)
}

func TestLoadHandlesLongLines(t *testing.T) {
	longText := strings.TrimSpace(strings.Repeat("word ", 50000)) // ~250 KB, past any scanner token limit
	path := writeCorpus(t,
		recordLine(t, record(longText, 50000, "docs/big.pdf")),
		recordLine(t, record("short follower", 60, "docs/big.pdf")),
	)

	c, err := corpus.NewLoader(path, 50).Load()
	require.NoError(t, err)

	require.Equal(t, 2, c.Len())
	assert.Equal(t, longText, c.Documents()[0].Content)
}

func TestLoadBuildsDocumentMetadata(t *testing.T) {
	rec := record("some regulatory text", 64, "data/AnnualReport2020-21.pdf")
	rec.ChunkID = "annual-7"
	rec.ChunkIndex = 7
	path := writeCorpus(t, recordLine(t, rec))

	c, err := corpus.NewLoader(path, 50).Load()
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	d := c.Documents()[0]
	assert.Equal(t, "data/AnnualReport2020-21.pdf", d.SourcePath)
	assert.Equal(t, "annual-7", d.ChunkID)
	assert.Equal(t, 7, d.ChunkIndex)
	assert.Equal(t, 64, d.WordCount)
	assert.Equal(t, len("some regulatory text"), d.CharCount)
	assert.Equal(t, models.DocTypeAnnualReport, d.DocType)
	assert.Equal(t, "2020", d.Year)
	assert.InDelta(t, 0.9, d.QualityScore, 1e-9)
	assert.Equal(t, int64(2048), d.FileSizeBytes)
}

func TestInferDocType(t *testing.T) {
	tests := []struct {
		path string
		want models.DocType
	}{
		{"data/Annual_Report_2021.pdf", models.DocTypeAnnualReport},
		{"data/annual_report_faq_2021.pdf", models.DocTypeAnnualReport}, // priority over faq
		{"data/MasterCircular_Depositories.pdf", models.DocTypeMasterCircular},
		{"data/FAQ-on-settlement.pdf", models.DocTypeFAQ},
		{"data/faqs.pdf", models.DocTypeFAQ},
		{"data/press_release_2021.pdf", models.DocTypeOther},
		{"", models.DocTypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, corpus.InferDocType(tt.path), "path %q", tt.path)
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/AnnualReport2020-21.pdf", "2020"},
		{"data/AnnualReport2019-2020.pdf", "2019"},
		{"data/circular_2018.pdf", "2018"},
		{"data/faq-general.pdf", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, corpus.ExtractYear(tt.path), "path %q", tt.path)
	}
}
