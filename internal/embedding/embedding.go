// Package embedding provides text embedders used to index dataset
// documents and decision queries for similarity search.
package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	"verdict/internal/cache"
	"verdict/internal/domain"
)

// CachedEmbedder wraps a remote embedder with an embedding cache. Cache
// failures are logged and ignored; a cache must never fail an embed.
type CachedEmbedder struct {
	inner domain.Embedder
	cache cache.EmbeddingCache
	log   *slog.Logger
}

// NewCached wraps inner with the given cache.
func NewCached(inner domain.Embedder, c cache.EmbeddingCache, log *slog.Logger) *CachedEmbedder {
	if log == nil {
		log = slog.Default()
	}
	return &CachedEmbedder{inner: inner, cache: c, log: log}
}

func (e *CachedEmbedder) Name() string { return e.inner.Name() }

func (e *CachedEmbedder) Prepare(corpus []string) error { return e.inner.Prepare(corpus) }

func (e *CachedEmbedder) Dimension() int { return e.inner.Dimension() }

// Embed consults the cache before delegating to the wrapped embedder and
// stores fresh vectors on a miss.
func (e *CachedEmbedder) Embed(text string) ([]float64, error) {
	key := e.cacheKey(text)
	if vec, ok, err := e.cache.Get(key); err != nil {
		e.log.Warn("embedding cache get failed", "error", err)
	} else if ok {
		return vec, nil
	}
	vec, err := e.inner.Embed(text)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Put(key, vec); err != nil {
		e.log.Warn("embedding cache put failed", "error", err)
	}
	return vec, nil
}

func (e *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return e.inner.Name() + ":" + hex.EncodeToString(sum[:])
}
