package models

// SourceRef points a reader at one retrieved passage backing an answer.
type SourceRef struct {
	SourceFile     string  `json:"source_file"`
	DocType        DocType `json:"doc_type"`
	Year           string  `json:"year,omitempty"`
	ChunkID        string  `json:"chunk_id"`
	WordCount      int     `json:"word_count"`
	QualityScore   float64 `json:"quality_score"`
	ContentPreview string  `json:"content_preview"`
}

// AnsweredQuery is the result of one query: the synthesized answer plus the
// ordered set of sources it was grounded on. Created fresh per query and
// never persisted by the core.
type AnsweredQuery struct {
	Question    string      `json:"question"`
	Answer      string      `json:"answer"`
	Sources     []SourceRef `json:"sources"`
	SourceCount int         `json:"source_count"`
	Timestamp   string      `json:"timestamp"`
}
