package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Embedder.Type != "tfidf" {
		t.Errorf("embedder = %q, want tfidf", cfg.Embedder.Type)
	}
	if cfg.VectorStore.Type != "memory" {
		t.Errorf("vector store = %q, want memory", cfg.VectorStore.Type)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 1000 {
		t.Errorf("max tokens = %d, want 1000", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Retry.MaxRetries != 3 || cfg.LLM.Retry.DelaySecs != 1 || cfg.LLM.Retry.MaxDelaySecs != 60 {
		t.Errorf("retry = %+v", cfg.LLM.Retry)
	}
	if cfg.Search.TopK != 5 {
		t.Errorf("top_k = %d, want 5", cfg.Search.TopK)
	}
	if cfg.Server.Addr != ":8501" {
		t.Errorf("addr = %q, want :8501", cfg.Server.Addr)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := &AppConfig{
		Embedder:    EmbedderConfig{Type: "openai", OpenAI: &OpenAIEmbedderConfig{Model: "text-embedding-3-small"}},
		VectorStore: VectorStoreConfig{Type: "qdrant", Qdrant: &QdrantConfig{URL: "http://localhost:6333", Collection: "test"}},
		LLM:         LLMConfig{Provider: "openai", Model: "gpt-4o-mini"},
		Search:      SearchConfig{TopK: 3, MinScore: 0.7},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Embedder.Type != "openai" || got.Embedder.OpenAI == nil {
		t.Errorf("embedder = %+v", got.Embedder)
	}
	if got.VectorStore.Qdrant == nil || got.VectorStore.Qdrant.Collection != "test" {
		t.Errorf("qdrant = %+v", got.VectorStore.Qdrant)
	}
	if got.Search.TopK != 3 || got.Search.MinScore != 0.7 {
		t.Errorf("search = %+v", got.Search)
	}
	// defaults fill in what the file omitted
	if got.Embedder.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("base url default missing: %q", got.Embedder.OpenAI.BaseURL)
	}
	if got.LLM.MaxTokens != 1000 {
		t.Errorf("max tokens default missing: %d", got.LLM.MaxTokens)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("embedder: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestHistoryPathHonorsXDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-test")
	cfg := &AppConfig{}
	path, err := cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", "verdict", "history.db")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}

func TestHistoryPathExplicit(t *testing.T) {
	cfg := &AppConfig{History: HistoryConfig{Path: "/data/h.db"}}
	path, err := cfg.HistoryPath()
	if err != nil {
		t.Fatalf("HistoryPath: %v", err)
	}
	if path != "/data/h.db" {
		t.Errorf("path = %q", path)
	}
}
