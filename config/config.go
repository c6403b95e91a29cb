package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the immutable configuration for the whole pipeline. It is read
// once at startup (YAML file, then environment overrides, then defaults) and
// passed through each setup stage; nothing mutates it afterwards.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	LLM       LLMConfig       `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

type CorpusConfig struct {
	// Path to the line-delimited chunk records file.
	Path string `yaml:"path"`
	// MinWordCount drops chunks shorter than this many words at load time.
	MinWordCount int `yaml:"min_word_count"`
}

type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // "ollama" or "openai"
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	// APIKey is never read from the file, only from the environment.
	APIKey string `yaml:"-"`
	// RequestsPerSecond paces calls against hosted embedding endpoints.
	// Zero means no pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

type IndexConfig struct {
	Backend string `yaml:"backend"` // "sqlite" or "chroma"
	// PersistLocation is the collection directory for the sqlite backend and
	// the server URL for the chroma backend.
	PersistLocation string `yaml:"persist_location"`
	Collection      string `yaml:"collection"`
	BatchSize       int    `yaml:"batch_size"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "groq", "openai", "gemini" or "ollama"
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"-"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
	// DocType optionally restricts retrieval to one document type.
	DocType string `yaml:"doc_type"`
}

// Load reads the configuration file at path, overlays environment variables
// and fills remaining gaps with defaults. An empty path means "use the
// default file if present, otherwise defaults only"; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Fine: run on defaults and environment alone.
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg.mergeWithEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// DefaultConfigFile is looked up when no --config flag is given.
const DefaultConfigFile = "regrag.yaml"

const (
	defaultCorpusPath   = "data/corpus.jsonl"
	defaultMinWordCount = 50

	defaultEmbedProvider    = "ollama"
	defaultEmbedModel       = "nomic-embed-text:v1.5"
	defaultOpenAIEmbedModel = "text-embedding-3-small"
	defaultOllamaURL        = "http://localhost:11434"

	defaultIndexBackend = "sqlite"
	defaultPersistDir   = "data/index"
	defaultCollection   = "regulatory_documents"
	defaultBatchSize    = 100

	defaultLLMProvider = "groq"
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultGroqURL     = "https://api.groq.com/openai/v1"
	defaultTemperature = 0.1
	defaultMaxTokens   = 2048

	defaultTopK = 20
)

func (c *Config) mergeWithEnv() {
	setString(&c.Corpus.Path, "REGRAG_CORPUS_PATH")
	setInt(&c.Corpus.MinWordCount, "REGRAG_MIN_WORD_COUNT")

	setString(&c.Embedding.Provider, "REGRAG_EMBEDDING_PROVIDER")
	setString(&c.Embedding.Model, "REGRAG_EMBEDDING_MODEL")
	setString(&c.Embedding.BaseURL, "REGRAG_EMBEDDING_URL")

	setString(&c.Index.Backend, "REGRAG_INDEX_BACKEND")
	setString(&c.Index.PersistLocation, "REGRAG_INDEX_LOCATION")
	setString(&c.Index.Collection, "REGRAG_INDEX_COLLECTION")

	setString(&c.LLM.Provider, "REGRAG_LLM_PROVIDER")
	setString(&c.LLM.Model, "REGRAG_LLM_MODEL")
	setString(&c.LLM.BaseURL, "REGRAG_LLM_URL")

	// Provider credentials live in the environment only.
	c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	switch c.LLM.Provider {
	case "gemini":
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	case "openai":
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		c.LLM.APIKey = os.Getenv("GROQ_API_KEY")
	}
}

func (c *Config) applyDefaults() {
	if c.Corpus.Path == "" {
		c.Corpus.Path = defaultCorpusPath
	}
	if c.Corpus.MinWordCount == 0 {
		c.Corpus.MinWordCount = defaultMinWordCount
	}

	if c.Embedding.Provider == "" {
		c.Embedding.Provider = defaultEmbedProvider
	}
	if c.Embedding.Model == "" {
		if c.Embedding.Provider == "openai" {
			c.Embedding.Model = defaultOpenAIEmbedModel
		} else {
			c.Embedding.Model = defaultEmbedModel
		}
	}
	if c.Embedding.BaseURL == "" && c.Embedding.Provider == "ollama" {
		c.Embedding.BaseURL = defaultOllamaURL
	}

	if c.Index.Backend == "" {
		c.Index.Backend = defaultIndexBackend
	}
	if c.Index.PersistLocation == "" {
		c.Index.PersistLocation = defaultPersistDir
	}
	if c.Index.Collection == "" {
		c.Index.Collection = defaultCollection
	}
	if c.Index.BatchSize == 0 {
		c.Index.BatchSize = defaultBatchSize
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	if c.LLM.Provider == "groq" {
		if c.LLM.Model == "" {
			c.LLM.Model = defaultGroqModel
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultGroqURL
		}
	}
	if c.LLM.Provider == "ollama" && c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultOllamaURL
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = defaultTemperature
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = defaultMaxTokens
	}

	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = defaultTopK
	}
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setInt(dst *int, env string) {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
