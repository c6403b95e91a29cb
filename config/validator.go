package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Corpus.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "corpus.path",
			Message: "corpus file path is required",
		})
	}
	if c.Corpus.MinWordCount < 0 {
		errs = append(errs, ValidationError{
			Field:   "corpus.min_word_count",
			Message: "min_word_count must not be negative",
		})
	}

	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: "provider must be one of: ollama, openai",
		})
	}
	if c.Embedding.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "embedding.requests_per_second",
			Message: "requests_per_second must not be negative",
		})
	}

	switch c.Index.Backend {
	case "sqlite", "chroma":
	default:
		errs = append(errs, ValidationError{
			Field:   "index.backend",
			Message: "backend must be one of: sqlite, chroma",
		})
	}
	if c.Index.PersistLocation == "" {
		errs = append(errs, ValidationError{
			Field:   "index.persist_location",
			Message: "persist_location is required",
		})
	}
	if c.Index.Backend == "chroma" && c.Index.PersistLocation != "" {
		if _, err := url.Parse(c.Index.PersistLocation); err != nil {
			errs = append(errs, ValidationError{
				Field:   "index.persist_location",
				Message: "chroma backend needs a valid server URL",
			})
		}
	}
	if c.Index.Collection == "" {
		errs = append(errs, ValidationError{
			Field:   "index.collection",
			Message: "collection name is required",
		})
	}
	if c.Index.BatchSize < 1 {
		errs = append(errs, ValidationError{
			Field:   "index.batch_size",
			Message: "batch_size must be positive",
		})
	}

	switch c.LLM.Provider {
	case "groq", "openai", "gemini", "ollama":
	default:
		errs = append(errs, ValidationError{
			Field:   "llm.provider",
			Message: "provider must be one of: groq, openai, gemini, ollama",
		})
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}
	if c.LLM.MaxTokens < 1 {
		errs = append(errs, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be positive",
		})
	}

	if c.Retrieval.TopK < 1 {
		errs = append(errs, ValidationError{
			Field:   "retrieval.top_k",
			Message: "top_k must be positive",
		})
	}

	return errs
}
