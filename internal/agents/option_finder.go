// Package agents implements the three steps of the decision pipeline:
// option retrieval, per-option pros/cons analysis, and the final
// recommendation. The latter two wrap a hosted LLM; the first is pure
// retrieval.
package agents

import (
	"fmt"

	"verdict/internal/domain"
)

// Searcher is the retrieval surface the option finder needs.
type Searcher interface {
	Search(query string, topK int) ([]domain.SearchResult, error)
}

// OptionFinder retrieves candidate options for a query from the similarity
// index. It makes no LLM calls.
type OptionFinder struct {
	searcher Searcher
	topK     int
	minScore float64
}

// NewOptionFinder creates an option finder. minScore of 0 disables the
// relevance threshold.
func NewOptionFinder(searcher Searcher, topK int, minScore float64) *OptionFinder {
	if topK <= 0 {
		topK = 5
	}
	return &OptionFinder{searcher: searcher, topK: topK, minScore: minScore}
}

// Find returns the candidate options for the query, best match first.
// Results below the relevance threshold are dropped.
func (a *OptionFinder) Find(query string) ([]domain.Option, error) {
	results, err := a.searcher.Search(query, a.topK)
	if err != nil {
		return nil, fmt.Errorf("searching options: %w", err)
	}
	options := make([]domain.Option, 0, len(results))
	for _, r := range results {
		if a.minScore > 0 && r.Score < a.minScore {
			continue
		}
		options = append(options, domain.Option{Document: r.Document, Score: r.Score})
	}
	return options, nil
}
