package domain

import "context"

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// VectorStore persists document vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(docs []Document, vectors [][]float64) error
	Search(vector []float64, topK int) ([]SearchResult, error)
	Clear() error
}

// Generator produces free text from a prompt via a hosted LLM.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Loader reads a dataset file into documents.
type Loader interface {
	Load(path string) ([]Document, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
