package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"

	"regrag/models"
)

// Corpus is the ordered, immutable set of documents produced by one load.
type Corpus struct {
	docs   []models.Document
	report LoadReport
}

// New wraps an already-built document sequence. Used by the Loader and by
// test fixtures; the documents are not copied, callers must not mutate them.
func New(docs []models.Document, report LoadReport) *Corpus {
	return &Corpus{docs: docs, report: report}
}

func (c *Corpus) Len() int {
	return len(c.docs)
}

// Documents returns the documents in input-line order.
func (c *Corpus) Documents() []models.Document {
	return c.docs
}

func (c *Corpus) Report() LoadReport {
	return c.report
}

// ByType returns the documents of one document type, in corpus order.
func (c *Corpus) ByType(t models.DocType) []models.Document {
	return c.filter(func(d models.Document) bool { return d.DocType == t })
}

// ByYear returns the documents published in the given year, in corpus order.
func (c *Corpus) ByYear(year string) []models.Document {
	return c.filter(func(d models.Document) bool { return d.Year == year })
}

// MinQuality returns the documents with a quality score at or above the
// threshold, in corpus order.
func (c *Corpus) MinQuality(threshold float64) []models.Document {
	return c.filter(func(d models.Document) bool { return d.QualityScore >= threshold })
}

func (c *Corpus) filter(keep func(models.Document) bool) []models.Document {
	var out []models.Document
	for _, d := range c.docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Stats computes the corpus aggregates. Readiness flags are left false; the
// orchestrator fills them in from its own state.
func (c *Corpus) Stats() models.CorpusStats {
	stats := models.CorpusStats{DocTypes: make(map[string]int)}
	if len(c.docs) == 0 {
		return stats
	}

	years := make(map[string]struct{})
	for _, d := range c.docs {
		stats.TotalWords += d.WordCount
		stats.DocTypes[string(d.DocType)]++
		if d.Year != "" {
			years[d.Year] = struct{}{}
		}
	}
	stats.TotalDocuments = len(c.docs)
	stats.AvgWordsPerDoc = float64(stats.TotalWords) / float64(len(c.docs))

	stats.YearsAvailable = make([]string, 0, len(years))
	for y := range years {
		stats.YearsAvailable = append(stats.YearsAvailable, y)
	}
	sort.Strings(stats.YearsAvailable)
	return stats
}

// Fingerprint is a content stamp over every document's identity and text in
// order. Two loads of the same file produce the same stamp; any change in
// membership, order or content changes it. The index build policy stores it
// alongside the entries to make staleness detectable.
func (c *Corpus) Fingerprint() string {
	h := sha256.New()
	for _, d := range c.docs {
		io.WriteString(h, d.ID())
		h.Write([]byte{0})
		io.WriteString(h, d.Content)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
