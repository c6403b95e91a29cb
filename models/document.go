package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DocType classifies a document by the kind of regulatory publication it was
// extracted from.
type DocType string

const (
	DocTypeAnnualReport   DocType = "annual_report"
	DocTypeMasterCircular DocType = "master_circular"
	DocTypeFAQ            DocType = "faq"
	DocTypeOther          DocType = "other"
)

// Metadata is everything the index stores about a document besides its text.
// The JSON tags match the vocabulary of the upstream chunk records so the
// same shape round-trips through every index backend.
type Metadata struct {
	SourcePath    string  `json:"source"`
	ChunkID       string  `json:"chunk_id"`
	ChunkIndex    int     `json:"chunk_index"`
	WordCount     int     `json:"word_count"`
	CharCount     int     `json:"char_count"`
	DocType       DocType `json:"doc_type"`
	Year          string  `json:"year,omitempty"`
	QualityScore  float64 `json:"original_quality_score"`
	FileSizeBytes int64   `json:"file_size_bytes"`
}

// Document is the normalized retrieval unit. Each Document derives from
// exactly one ChunkRecord that passed the word-count filter; DocType and Year
// are computed once at load time from SourcePath and never recomputed.
type Document struct {
	Content string
	Metadata
}

// ID returns the document's stable identity: a name-based UUID over the
// source path, chunk index and chunk id. The same corpus always produces the
// same ids, so re-indexing an unchanged corpus is a no-op.
func (m Metadata) ID() string {
	name := fmt.Sprintf("%s#%d#%s", m.SourcePath, m.ChunkIndex, m.ChunkID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
