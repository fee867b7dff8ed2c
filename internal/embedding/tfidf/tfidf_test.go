package tfidf

import (
	"math"
	"testing"
)

func TestEmbedRequiresPrepare(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Embed("anything"); err == nil {
		t.Fatal("expected error from unprepared embedder")
	}
}

func TestPrepareEmptyCorpus(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(nil); err == nil {
		t.Fatal("expected error for empty corpus")
	}
}

func TestEmbedNormalized(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"gaming laptop fast graphics card",
		"lightweight ultrabook long battery",
		"budget laptop decent battery",
	}
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if e.Dimension() == 0 {
		t.Fatal("expected nonzero dimension after prepare")
	}
	vec, err := e.Embed("gaming laptop")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("vector norm = %f, want 1", math.Sqrt(norm))
	}
}

func TestEmbedOutOfVocabularyIsZero(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"apples oranges pears"}); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	vec, err := e.Embed("quantum chromodynamics")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("vec[%d] = %f, want 0 for out-of-vocabulary text", i, v)
		}
	}
}

func TestSimilarTextScoresHigher(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"gaming laptop powerful graphics",
		"office chair ergonomic lumbar support",
	}
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	q, _ := e.Embed("powerful gaming laptop")
	a, _ := e.Embed(corpus[0])
	b, _ := e.Embed(corpus[1])
	if dot(q, a) <= dot(q, b) {
		t.Errorf("expected query closer to gaming laptop: %f vs %f", dot(q, a), dot(q, b))
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
