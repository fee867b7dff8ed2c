package domain

// Document represents a single dataset row (or text fragment) loaded into
// the system, together with the source metadata it was built from.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult represents a matching document with a relevance score.
type SearchResult struct {
	Document Document
	Score    float64
}

// Option is a candidate retrieved from the vector store for a decision query.
type Option struct {
	Document Document
	Score    float64
}

// Analysis holds the pros/cons analysis generated for one option.
type Analysis struct {
	Option Option
	Text   string
	// Failed is set when the analysis text records an LLM error rather
	// than an actual analysis.
	Failed bool
}

// Recommendation is the final output of the decision pipeline.
type Recommendation struct {
	Text string
}
