package models

// CorpusStats summarizes the loaded corpus and the readiness of the query
// pipeline.
type CorpusStats struct {
	TotalDocuments int            `json:"total_documents"`
	TotalWords     int            `json:"total_words"`
	AvgWordsPerDoc float64        `json:"avg_words_per_doc"`
	DocTypes       map[string]int `json:"doc_types"`
	YearsAvailable []string       `json:"years_available"`
	IndexReady     bool           `json:"index_ready"`
	LLMReady       bool           `json:"llm_ready"`
}
