// Package cache provides the embedding cache used to avoid re-embedding
// identical text through a remote embedding API.
package cache

// EmbeddingCache stores computed embedding vectors keyed by content hash.
// Cache type "none" skips the decorator entirely instead of providing a
// no-op implementation.
type EmbeddingCache interface {
	Get(key string) (vec []float64, ok bool, err error)
	Put(key string, vec []float64) error
}
