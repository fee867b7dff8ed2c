// Package index ties the embedder and the vector store together: it builds
// the similarity index over an ingested dataset and answers retrieval
// queries for the option finder.
package index

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"verdict/internal/domain"
)

// Service owns the similarity index for one dataset.
type Service struct {
	embedder domain.Embedder
	store    domain.VectorStore
	docs     []domain.Document
}

func New(embedder domain.Embedder, store domain.VectorStore) *Service {
	return &Service{embedder: embedder, store: store}
}

// Build prepares the embedder over the document corpus, initializes the
// store with the embedder dimension, and embeds and upserts every document.
func (s *Service) Build(docs []domain.Document) error {
	if len(docs) == 0 {
		return errors.New("no documents to index")
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	if err := s.embedder.Prepare(texts); err != nil {
		return fmt.Errorf("preparing embedder: %w", err)
	}

	vectors := make([][]float64, len(docs))
	for i := range docs {
		vec, err := s.embedder.Embed(docs[i].Content)
		if err != nil {
			return fmt.Errorf("embedding document %s: %w", docs[i].ID, err)
		}
		vectors[i] = vec
	}
	// Remote embedders learn their dimension from the first embed, so the
	// store is initialized after embedding. Clear drops any previous index
	// before Init recreates it.
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing vector store: %w", err)
	}
	if err := s.store.Init(s.embedder.Dimension()); err != nil {
		return fmt.Errorf("initializing vector store: %w", err)
	}
	if err := s.store.Upsert(docs, vectors); err != nil {
		return fmt.Errorf("upserting documents: %w", err)
	}
	s.docs = docs
	return nil
}

// Size returns the number of indexed documents.
func (s *Service) Size() int { return len(s.docs) }

// Search embeds the query and runs a similarity search. Queries that embed
// to a zero vector (out-of-vocabulary under TF-IDF) fall back to lexical
// token-overlap ranking over the indexed documents.
func (s *Service) Search(query string, topK int) ([]domain.SearchResult, error) {
	vec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, err
	}
	zero := true
	for _, v := range vec {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		return s.lexicalSearch(query, topK), nil
	}
	res, err := s.store.Search(vec, topK)
	if err != nil {
		return nil, err
	}
	allZero := true
	for _, r := range res {
		if r.Score > 1e-9 {
			allZero = false
			break
		}
	}
	if allZero {
		return s.lexicalSearch(query, topK), nil
	}
	return res, nil
}

var unicodeWordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

func (s *Service) lexicalSearch(query string, topK int) []domain.SearchResult {
	qset := toTokenSet(query)
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(s.docs))
	for i, d := range s.docs {
		scores[i] = pair{i, overlapOchiai(qset, d.Content)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if topK <= 0 {
		topK = 5
	}
	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		p := scores[i]
		out = append(out, domain.SearchResult{Document: s.docs[p.idx], Score: p.score})
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// overlapOchiai scores token overlap: |A∩B| / sqrt(|A||B|).
func overlapOchiai(qset map[string]struct{}, text string) float64 {
	toks := unicodeWordRe.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(toks))
	inter := 0
	for _, t := range toks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}
