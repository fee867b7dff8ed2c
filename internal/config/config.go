package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// RedisCacheConfig contains connection details for the Redis embedding cache.
type RedisCacheConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_secs"`
}

// CacheConfig selects and configures the embedding cache.
type CacheConfig struct {
	Type  string            `yaml:"type"`
	Redis *RedisCacheConfig `yaml:"redis,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// PgvectorConfig contains connection details for a pgvector-backed store.
type PgvectorConfig struct {
	DSN      string `yaml:"dsn"`
	Table    string `yaml:"table"`
	MaxConns int    `yaml:"max_conns"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type     string          `yaml:"type"`
	Qdrant   *QdrantConfig   `yaml:"qdrant,omitempty"`
	Pgvector *PgvectorConfig `yaml:"pgvector,omitempty"`
}

// LLMRetryConfig controls retry behavior for LLM calls.
type LLMRetryConfig struct {
	MaxRetries   int     `yaml:"max_retries"`
	DelaySecs    float64 `yaml:"delay_secs"`
	MaxDelaySecs float64 `yaml:"max_delay_secs"`
}

// OpenAIChatConfig configures the OpenAI-compatible chat backend.
type OpenAIChatConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AnthropicConfig configures the Anthropic backend.
type AnthropicConfig struct {
	APIKeyEnv string `yaml:"api_key_env"`
}

// LLMConfig selects and configures the hosted LLM used by the agents.
type LLMConfig struct {
	Provider    string            `yaml:"provider"`
	Model       string            `yaml:"model"`
	MaxTokens   int               `yaml:"max_tokens"`
	Temperature float64           `yaml:"temperature"`
	Retry       LLMRetryConfig    `yaml:"retry"`
	Anthropic   *AnthropicConfig  `yaml:"anthropic,omitempty"`
	OpenAI      *OpenAIChatConfig `yaml:"openai,omitempty"`
}

// SearchConfig controls candidate retrieval for the option finder.
type SearchConfig struct {
	TopK     int     `yaml:"top_k"`
	MinScore float64 `yaml:"min_score"`
}

// IngestConfig controls how dataset files are turned into documents.
type IngestConfig struct {
	ContentColumn     string `yaml:"content_column"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// SummaryConfig configures the dataset summarizer.
type SummaryConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// HistoryConfig configures the session history store.
// An empty path resolves to ~/.local/share/verdict/history.db.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the web UI server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Cache       CacheConfig       `yaml:"cache"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Search      SearchConfig      `yaml:"search"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Summary     SummaryConfig     `yaml:"summary"`
	History     HistoryConfig     `yaml:"history"`
	Server      ServerConfig      `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/verdict/config.yaml.
// If neither exists, it writes defaults to ~/.config/verdict/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// HistoryPath resolves the configured history database path, defaulting to
// ~/.local/share/verdict/history.db (honoring XDG_DATA_HOME).
func (c *AppConfig) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "verdict", "history.db"), nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "verdict", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "tfidf"},
		Cache:       CacheConfig{Type: "none"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		LLM: LLMConfig{
			Provider:    "anthropic",
			MaxTokens:   1000,
			Temperature: 0.7,
			Retry:       LLMRetryConfig{MaxRetries: 3, DelaySecs: 1, MaxDelaySecs: 60},
		},
		Search:  SearchConfig{TopK: 5},
		Ingest:  IngestConfig{ContentColumn: "description", SentencesPerChunk: 5, OverlapSentences: 1},
		Summary: SummaryConfig{MaxSentences: 5},
		Server:  ServerConfig{Addr: ":8501"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "none"
	}
	if cfg.Cache.Type == "redis" && cfg.Cache.Redis != nil {
		if cfg.Cache.Redis.Addr == "" {
			cfg.Cache.Redis.Addr = "localhost:6379"
		}
		if cfg.Cache.Redis.TTLSecs == 0 {
			cfg.Cache.Redis.TTLSecs = 24 * 3600
		}
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "pgvector" && cfg.VectorStore.Pgvector != nil {
		if cfg.VectorStore.Pgvector.Table == "" {
			cfg.VectorStore.Pgvector.Table = "verdict_documents"
		}
		if cfg.VectorStore.Pgvector.MaxConns == 0 {
			cfg.VectorStore.Pgvector.MaxConns = 4
		}
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "anthropic"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Retry.MaxRetries == 0 {
		cfg.LLM.Retry.MaxRetries = 3
	}
	if cfg.LLM.Retry.DelaySecs == 0 {
		cfg.LLM.Retry.DelaySecs = 1
	}
	if cfg.LLM.Retry.MaxDelaySecs == 0 {
		cfg.LLM.Retry.MaxDelaySecs = 60
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.OpenAI != nil {
		if cfg.LLM.OpenAI.BaseURL == "" {
			cfg.LLM.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.LLM.OpenAI.APIKeyEnv == "" {
			cfg.LLM.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.LLM.OpenAI.TimeoutSecs == 0 {
			cfg.LLM.OpenAI.TimeoutSecs = 120
		}
	}
	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 5
	}
	if cfg.Ingest.ContentColumn == "" {
		cfg.Ingest.ContentColumn = "description"
	}
	if cfg.Ingest.SentencesPerChunk == 0 {
		cfg.Ingest.SentencesPerChunk = 5
	}
	if cfg.Summary.MaxSentences == 0 {
		cfg.Summary.MaxSentences = 5
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
}
