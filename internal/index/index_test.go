package index

import (
	"testing"

	"verdict/internal/domain"
	"verdict/internal/embedding/tfidf"
	"verdict/internal/vectorstore/memory"
)

func buildIndex(t *testing.T, contents ...string) *Service {
	t.Helper()
	docs := make([]domain.Document, len(contents))
	for i, c := range contents {
		docs[i] = domain.Document{ID: string(rune('a' + i)), Content: c}
	}
	s := New(tfidf.NewEmbedder(), memory.NewStorage())
	if err := s.Build(docs); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func TestBuildEmpty(t *testing.T) {
	s := New(tfidf.NewEmbedder(), memory.NewStorage())
	if err := s.Build(nil); err == nil {
		t.Fatal("expected error for empty dataset")
	}
}

func TestSearchFindsRelevantDocument(t *testing.T) {
	s := buildIndex(t,
		"Powerful gaming laptop with dedicated graphics card",
		"Ergonomic office chair with lumbar support",
		"Mechanical keyboard with tactile switches",
	)
	if s.Size() != 3 {
		t.Fatalf("Size = %d, want 3", s.Size())
	}
	res, err := s.Search("gaming laptop graphics", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) == 0 {
		t.Fatal("no results")
	}
	if res[0].Document.ID != "a" {
		t.Errorf("top result = %s, want the gaming laptop", res[0].Document.ID)
	}
	if res[0].Score <= 0 {
		t.Errorf("top score = %f, want > 0", res[0].Score)
	}
}

func TestSearchLexicalFallbackForStopwordQuery(t *testing.T) {
	// Stopword-only queries embed to the zero vector under TF-IDF; the
	// lexical fallback still returns results instead of an empty set.
	s := buildIndex(t,
		"Powerful gaming laptop",
		"Ergonomic office chair",
	)
	res, err := s.Search("the and of", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) == 0 {
		t.Fatal("lexical fallback returned no results")
	}
}

func TestSearchTopKLimit(t *testing.T) {
	s := buildIndex(t,
		"red apple fruit",
		"green apple fruit",
		"yellow banana fruit",
	)
	res, err := s.Search("apple fruit", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 2 {
		t.Errorf("got %d results, want 2", len(res))
	}
}
