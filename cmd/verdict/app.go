package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	cacheredis "verdict/internal/cache/redis"
	"verdict/internal/chunker"
	"verdict/internal/config"
	"verdict/internal/domain"
	"verdict/internal/embedding"
	embopenai "verdict/internal/embedding/openai"
	"verdict/internal/embedding/tfidf"
	"verdict/internal/history"
	"verdict/internal/index"
	"verdict/internal/ingest"
	"verdict/internal/llm"
	"verdict/internal/llm/anthropic"
	"verdict/internal/llm/openaichat"
	"verdict/internal/summarizer"
	"verdict/internal/vectorstore/memory"
	"verdict/internal/vectorstore/pgvector"
	"verdict/internal/vectorstore/qdrant"
	"verdict/internal/workflow"
)

// app holds the assembled components for one dataset.
type app struct {
	pipeline *workflow.Pipeline
	index    *index.Service
	store    *history.Store
	gen      domain.Generator
	summary  string
	docCount int
	dataPath string
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp loads the dataset, builds the similarity index, and wires the
// agents and the history store from configuration.
func buildApp(ctx context.Context, cfg *config.AppConfig, dataPath string, log *slog.Logger) (*app, error) {
	if dataPath == "" {
		return nil, fmt.Errorf("no dataset given; use --data")
	}

	loader := ingest.NewFileLoader(cfg.Ingest.ContentColumn,
		chunker.NewSentenceChunker(cfg.Ingest.SentencesPerChunk, cfg.Ingest.OverlapSentences))
	docs, err := loader.Load(dataPath)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	log.Info("dataset loaded", "path", dataPath, "documents", len(docs))

	emb, err := buildEmbedder(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := buildVectorStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	idx := index.New(emb, store)
	if err := idx.Build(docs); err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	sum := summarizer.NewFrequencySummarizer()
	summary, err := sum.Summarize(strings.Join(contents, " "), cfg.Summary.MaxSentences)
	if err != nil {
		log.Warn("summarizing dataset failed", "error", err)
		summary = ""
	}

	gen, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	histPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, fmt.Errorf("resolving history path: %w", err)
	}
	hist, err := history.Open(histPath)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}

	return &app{
		pipeline: workflow.New(idx, gen, cfg.Search.TopK, cfg.Search.MinScore, log),
		index:    idx,
		store:    hist,
		gen:      gen,
		summary:  summary,
		docCount: len(docs),
		dataPath: dataPath,
	}, nil
}

func buildEmbedder(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "tfidf", "":
		// TF-IDF vectors depend on the prepared corpus, so cached vectors
		// from another dataset would be wrong. Only remote embedders get
		// the cache decorator.
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return wrapWithCache(ctx, cfg, client, log)
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func wrapWithCache(ctx context.Context, cfg *config.AppConfig, emb domain.Embedder, log *slog.Logger) (domain.Embedder, error) {
	switch cfg.Cache.Type {
	case "none", "":
		return emb, nil
	case "redis":
		if cfg.Cache.Redis == nil {
			return nil, fmt.Errorf("redis cache config missing")
		}
		c, err := cacheredis.New(ctx, cacheredis.Config{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			TTL:      time.Duration(cfg.Cache.Redis.TTLSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache init failed: %w", err)
		}
		return embedding.NewCached(emb, c, log), nil
	default:
		return nil, fmt.Errorf("unknown cache: %s", cfg.Cache.Type)
	}
}

func buildVectorStore(ctx context.Context, cfg *config.AppConfig) (domain.VectorStore, error) {
	switch cfg.VectorStore.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	case "pgvector":
		if cfg.VectorStore.Pgvector == nil {
			return nil, fmt.Errorf("pgvector config missing")
		}
		return pgvector.New(ctx, pgvector.Config{
			DSN:      cfg.VectorStore.Pgvector.DSN,
			Table:    cfg.VectorStore.Pgvector.Table,
			MaxConns: int32(cfg.VectorStore.Pgvector.MaxConns),
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}
}

func buildGenerator(cfg *config.AppConfig) (domain.Generator, error) {
	retry := llm.RetryPolicy{
		MaxRetries: cfg.LLM.Retry.MaxRetries,
		Delay:      time.Duration(cfg.LLM.Retry.DelaySecs * float64(time.Second)),
		MaxDelay:   time.Duration(cfg.LLM.Retry.MaxDelaySecs * float64(time.Second)),
	}
	switch cfg.LLM.Provider {
	case "anthropic", "":
		acfg := anthropic.Config{
			Model:       cfg.LLM.Model,
			MaxTokens:   int64(cfg.LLM.MaxTokens),
			Temperature: cfg.LLM.Temperature,
			Retry:       retry,
		}
		if cfg.LLM.Anthropic != nil {
			acfg.APIKeyEnv = cfg.LLM.Anthropic.APIKeyEnv
		}
		return anthropic.NewClient(acfg)
	case "openai":
		ocfg := openaichat.Config{
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Retry:       retry,
		}
		if cfg.LLM.OpenAI != nil {
			ocfg.BaseURL = cfg.LLM.OpenAI.BaseURL
			ocfg.APIKeyEnv = cfg.LLM.OpenAI.APIKeyEnv
			ocfg.Timeout = time.Duration(cfg.LLM.OpenAI.TimeoutSecs) * time.Second
		}
		return openaichat.NewClient(ocfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}
