package summarizer

import (
	"strings"
	"testing"
)

func TestSummarizeLimitsSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Laptops are computers. Laptops have screens. Laptops have keyboards. Chairs are furniture. Tables are furniture."
	out, err := s.Summarize(text, 2)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if n := strings.Count(out, "."); n != 2 {
		t.Errorf("summary has %d sentences, want 2: %q", n, out)
	}
}

func TestSummarizePreservesOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Alpha product is cheap. Beta product is fast. Gamma product is cheap and fast."
	out, err := s.Summarize(text, 2)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	// Selected sentences must appear in original order.
	first := strings.Index(out, "Alpha")
	second := strings.Index(out, "Beta")
	third := strings.Index(out, "Gamma")
	positions := []int{first, second, third}
	last := -1
	for _, p := range positions {
		if p == -1 {
			continue
		}
		if p < last {
			t.Errorf("summary reorders sentences: %q", out)
		}
		last = p
	}
}

func TestSummarizeNoPunctuation(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("  plain words no sentence marks  ", 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "plain words no sentence marks" {
		t.Errorf("out = %q", out)
	}
}
