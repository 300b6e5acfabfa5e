// ABOUTME: Centralized configuration for the crawl/index/query pipeline
// ABOUTME: Loads YAML with environment-variable overrides, validation, and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultRefusal is the literal sentence the answerer must return when
// the grounding material does not support an answer. It is part of the
// closed-domain contract and must not be translated or reworded.
const DefaultRefusal = "Không tìm thấy thông tin trong các nguồn đã cấu hình."

// CrawlerConfig configures corpus discovery. Durations are whole
// seconds because yaml.v3 has no native duration decoding.
type CrawlerConfig struct {
	Seeds            []string `yaml:"seeds"`
	AllowedDomains   []string `yaml:"allowed_domains"`
	Keywords         []string `yaml:"keywords"`
	MaxPerSource     int      `yaml:"max_per_source"`
	MinTextLen       int      `yaml:"min_text_len"`
	RequestDelaySecs int      `yaml:"request_delay_secs"`
	FetchTimeoutSecs int      `yaml:"fetch_timeout_secs"`
	RenderedDomains  []string `yaml:"rendered_domains"`
}

// RequestDelay returns the inter-request politeness delay.
func (c CrawlerConfig) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelaySecs) * time.Second
}

// FetchTimeout returns the per-fetch deadline.
func (c CrawlerConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// ServerConfig configures the HTTP query transport.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config holds all configuration for the pipeline.
type Config struct {
	// Storage layout
	StorageRoot string `yaml:"storage_root"`
	IndexDir    string `yaml:"index_dir"`

	// Chunking
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// OpenAI settings. The key and timing knobs come from the
	// environment only, never from the config file.
	OpenAIKey      string        `yaml:"-"`
	EmbeddingModel string        `yaml:"embedding_model"`
	ChatModel      string        `yaml:"chat_model"`
	Timeout        time.Duration `yaml:"-"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"-"`

	// Retrieval and answering
	EmbedBatchSize int     `yaml:"embed_batch_size"`
	TopK           int     `yaml:"top_k"`
	AnswerMode     string  `yaml:"answer_mode"` // "strict" or "public"
	Temperature    float32 `yaml:"temperature"`
	Refusal        string  `yaml:"refusal"`

	Crawler CrawlerConfig `yaml:"crawler"`
	Server  ServerConfig  `yaml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StorageRoot:    "data/web",
		IndexDir:       "vector_store",
		ChunkSize:      800,
		ChunkOverlap:   150,
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4o-mini",
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
		EmbedBatchSize: 50,
		TopK:           5,
		AnswerMode:     "strict",
		Temperature:    0,
		Refusal:        DefaultRefusal,
		Crawler: CrawlerConfig{
			MaxPerSource:     30,
			MinTextLen:       500,
			RequestDelaySecs: 1,
			FetchTimeoutSecs: 10,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies environment-variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnv(cfg)
	return cfg, cfg.Validate()
}

// LoadDefault tries ./config.yaml first, then the user config dir.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat("config.yaml"); err == nil {
		return Load("config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(home, ".config", "corpusqa", "config.yaml"))
}

func applyEnv(cfg *Config) {
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.StorageRoot = getEnv("CORPUSQA_STORAGE_ROOT", cfg.StorageRoot)
	cfg.IndexDir = getEnv("CORPUSQA_INDEX_DIR", cfg.IndexDir)
	cfg.EmbeddingModel = getEnv("CORPUSQA_EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.ChatModel = getEnv("CORPUSQA_CHAT_MODEL", cfg.ChatModel)
	cfg.AnswerMode = getEnv("CORPUSQA_ANSWER_MODE", cfg.AnswerMode)
	cfg.ChunkSize = getEnvInt("CORPUSQA_CHUNK_SIZE", cfg.ChunkSize)
	cfg.ChunkOverlap = getEnvInt("CORPUSQA_CHUNK_OVERLAP", cfg.ChunkOverlap)
	cfg.TopK = getEnvInt("CORPUSQA_TOP_K", cfg.TopK)
	cfg.Timeout = getEnvDuration("OPENAI_TIMEOUT", cfg.Timeout)
	cfg.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", cfg.MaxRetries)
	cfg.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", cfg.RetryDelay)
}

// Validate rejects configurations that would fail later in confusing
// ways, chunking parameters in particular.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d with chunk_size %d",
			c.ChunkOverlap, c.ChunkSize)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("embed_batch_size must be positive, got %d", c.EmbedBatchSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.AnswerMode != "strict" && c.AnswerMode != "public" {
		return fmt.Errorf("answer_mode must be strict or public, got %q", c.AnswerMode)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("max_retries must be 0-10, got %d", c.MaxRetries)
	}
	if c.Refusal == "" {
		return errors.New("refusal sentence must not be empty")
	}
	return nil
}

// IndexPath returns the location of the vector index artifact.
func (c *Config) IndexPath() string { return filepath.Join(c.IndexDir, "index.gob") }

// MetaPath returns the location of the chunk/metadata sidecar artifact.
func (c *Config) MetaPath() string { return filepath.Join(c.IndexDir, "metadata.json") }

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
