package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"verdict/internal/domain"
)

type fakeSearcher struct {
	results []domain.SearchResult
	err     error
	gotTopK int
}

func (f *fakeSearcher) Search(query string, topK int) ([]domain.SearchResult, error) {
	f.gotTopK = topK
	return f.results, f.err
}

type fakeGenerator struct {
	replies []string
	errs    []error
	prompts []string
	calls   int
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "ok", nil
}

func doc(id, content string) domain.Document {
	return domain.Document{ID: id, Content: content}
}

func TestOptionFinderFiltersByScore(t *testing.T) {
	s := &fakeSearcher{results: []domain.SearchResult{
		{Document: doc("a", "good match"), Score: 0.9},
		{Document: doc("b", "weak match"), Score: 0.3},
	}}
	f := NewOptionFinder(s, 5, 0.5)
	opts, err := f.Find("query")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(opts) != 1 || opts[0].Document.ID != "a" {
		t.Fatalf("got %v, want only document a", opts)
	}
	if s.gotTopK != 5 {
		t.Errorf("topK passed = %d, want 5", s.gotTopK)
	}
}

func TestOptionFinderZeroThresholdKeepsAll(t *testing.T) {
	s := &fakeSearcher{results: []domain.SearchResult{
		{Document: doc("a", "x"), Score: 0.9},
		{Document: doc("b", "y"), Score: 0.01},
	}}
	f := NewOptionFinder(s, 5, 0)
	opts, err := f.Find("query")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2", len(opts))
	}
}

func TestOptionFinderSearchError(t *testing.T) {
	s := &fakeSearcher{err: errors.New("index down")}
	f := NewOptionFinder(s, 5, 0)
	if _, err := f.Find("query"); err == nil {
		t.Fatal("expected search error to propagate")
	}
}

func TestProsConsAnalyzesEachOption(t *testing.T) {
	g := &fakeGenerator{replies: []string{"pros a", "pros b"}}
	pc := NewProsCons(g)
	options := []domain.Option{
		{Document: doc("a", "Laptop A")},
		{Document: doc("b", "Laptop B")},
	}
	analyses, err := pc.Analyze(context.Background(), options)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analyses) != 2 {
		t.Fatalf("got %d analyses, want 2", len(analyses))
	}
	if analyses[0].Text != "pros a" || analyses[1].Text != "pros b" {
		t.Errorf("unexpected analyses: %+v", analyses)
	}
	if !strings.Contains(g.prompts[0], "Laptop A") {
		t.Errorf("prompt missing option content: %q", g.prompts[0])
	}
	if !strings.Contains(g.prompts[0], "pros and cons") {
		t.Errorf("prompt missing instruction: %q", g.prompts[0])
	}
}

func TestProsConsRecordsFailureAndContinues(t *testing.T) {
	g := &fakeGenerator{
		replies: []string{"", "pros b"},
		errs:    []error{errors.New("model overloaded"), nil},
	}
	pc := NewProsCons(g)
	options := []domain.Option{
		{Document: doc("a", "Laptop A")},
		{Document: doc("b", "Laptop B")},
	}
	analyses, err := pc.Analyze(context.Background(), options)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analyses) != 2 {
		t.Fatalf("got %d analyses, want 2", len(analyses))
	}
	if !analyses[0].Failed {
		t.Error("first analysis should be marked failed")
	}
	if !strings.Contains(analyses[0].Text, "model overloaded") {
		t.Errorf("failed analysis should carry the error: %q", analyses[0].Text)
	}
	if analyses[1].Failed || analyses[1].Text != "pros b" {
		t.Errorf("second analysis should succeed: %+v", analyses[1])
	}
}

func TestProsConsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pc := NewProsCons(&fakeGenerator{})
	_, err := pc.Analyze(ctx, []domain.Option{{Document: doc("a", "x")}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDeciderRequiresAnalyses(t *testing.T) {
	d := NewDecider(&fakeGenerator{})
	if _, err := d.Decide(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty analyses")
	}
}

func TestDeciderPromptIncludesAllAnalyses(t *testing.T) {
	g := &fakeGenerator{replies: []string{"Pick option 2."}}
	d := NewDecider(g)
	analyses := []domain.Analysis{
		{Option: domain.Option{Document: doc("a", "Laptop A")}, Text: "solid but heavy"},
		{Option: domain.Option{Document: doc("b", "Laptop B")}, Text: "light and fast"},
	}
	rec, err := d.Decide(context.Background(), analyses)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if rec.Text != "Pick option 2." {
		t.Errorf("recommendation = %q", rec.Text)
	}
	prompt := g.prompts[0]
	for _, want := range []string{"Laptop A", "Laptop B", "solid but heavy", "light and fast", "recommend the best option"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
