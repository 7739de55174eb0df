package service

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// RetrievalMode selects how document context reaches the model: the full
// documents as File API attachments, or keyword-matched text chunks. The
// mode is fixed at startup by configuration.
type RetrievalMode string

const (
	RetrievalFile   RetrievalMode = "file"
	RetrievalChunks RetrievalMode = "chunks"
)

// RelevanceStrategy selects how incoming queries are gated.
type RelevanceStrategy string

const (
	RelevanceKeyword RelevanceStrategy = "keyword"
	RelevanceModel   RelevanceStrategy = "model"
)

// Config holds everything the analyzer needs at runtime.
type Config struct {
	ModelName   string
	Temperature float32

	OldDocumentPath string
	NewDocumentPath string

	RetrievalMode     RetrievalMode
	RelevanceStrategy RelevanceStrategy
	KeywordsPath      string

	ChunkSize int
	Overlap   int
	MaxChunks int

	MaxRetries     int
	InitialBackoff time.Duration

	UploadMaxWait      time.Duration
	UploadPollInterval time.Duration

	WatchDocuments bool
}

// LoadConfig builds a Config from the environment. ENVIRONMENT selects the
// profile defaults: production runs a cooler temperature and larger chunks,
// development keeps the looser settings.
func LoadConfig() Config {
	env := envOr("ENVIRONMENT", "production")

	cfg := Config{
		ModelName:   envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		Temperature: 0.5,

		OldDocumentPath: envOr("KUHP_OLD_PATH", "./documents/kuhp_old.pdf"),
		NewDocumentPath: envOr("KUHP_NEW_PATH", "./documents/kuhp_new.pdf"),

		RetrievalMode:     RetrievalMode(envOr("RETRIEVAL_MODE", string(RetrievalFile))),
		RelevanceStrategy: RelevanceStrategy(envOr("RELEVANCE_STRATEGY", string(RelevanceKeyword))),
		KeywordsPath:      os.Getenv("RELEVANCE_KEYWORDS_PATH"),

		ChunkSize: envInt("CHUNK_SIZE", 1500),
		Overlap:   envInt("CHUNK_OVERLAP", 300),
		MaxChunks: envInt("MAX_CONTEXT_CHUNKS", 5),

		MaxRetries:     envInt("GENERATION_MAX_RETRIES", 3),
		InitialBackoff: envDuration("GENERATION_INITIAL_BACKOFF", time.Second),

		UploadMaxWait:      envDuration("UPLOAD_MAX_WAIT", 2*time.Minute),
		UploadPollInterval: envDuration("UPLOAD_POLL_INTERVAL", 2*time.Second),

		WatchDocuments: envBool("WATCH_DOCUMENTS", false),
	}

	if env == "development" {
		cfg.Temperature = 0.7
		cfg.ChunkSize = envInt("CHUNK_SIZE", 1000)
		cfg.Overlap = envInt("CHUNK_OVERLAP", 200)
	}
	if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Temperature = float32(f)
		}
	}

	return cfg
}

// Validate rejects configurations that cannot produce a working analyzer.
func (c Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}
	if c.ChunkSize <= c.Overlap || c.Overlap < 0 {
		return fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkConfig, c.ChunkSize, c.Overlap)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("GENERATION_MAX_RETRIES must be at least 1")
	}
	switch c.RetrievalMode {
	case RetrievalFile, RetrievalChunks:
	default:
		return fmt.Errorf("unknown retrieval mode: %s", c.RetrievalMode)
	}
	switch c.RelevanceStrategy {
	case RelevanceKeyword, RelevanceModel:
	default:
		return fmt.Errorf("unknown relevance strategy: %s", c.RelevanceStrategy)
	}
	return nil
}

type keywordFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywords reads a relevance vocabulary from a YAML file. An empty path
// returns the built-in vocabulary.
func LoadKeywords(path string) ([]string, error) {
	if path == "" {
		return DefaultKeywords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords file: %w", err)
	}
	var kf keywordFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keywords file: %w", err)
	}
	if len(kf.Keywords) == 0 {
		return nil, fmt.Errorf("keywords file %s lists no keywords", path)
	}
	return kf.Keywords, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
