package models

// ChunkRecord is the raw input unit of the corpus: one JSON object per line
// in the corpus file, produced by the upstream chunking pipeline. Records are
// immutable; the loader never writes them back.
type ChunkRecord struct {
	ChunkText             string             `json:"chunk_text"`
	ChunkWordCount        int                `json:"chunk_word_count"`
	ChunkCharCount        int                `json:"chunk_char_count"`
	ChunkID               string             `json:"chunk_id"`
	ChunkIndex            int                `json:"chunk_index"`
	OriginalPDFPath       string             `json:"original_pdf_path"`
	OriginalFileSizeBytes int64              `json:"original_file_size_bytes"`
	ProcessingMetadata    ProcessingMetadata `json:"processing_metadata"`
}

// ProcessingMetadata carries the quality signals attached by the upstream
// pipeline. Only the quality score is consumed here.
type ProcessingMetadata struct {
	OriginalQualityScore float64 `json:"original_quality_score"`
}
