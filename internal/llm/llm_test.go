package llm

import (
	"testing"
	"time"
)

func TestBackoffDoublesAndCaps(t *testing.T) {
	p := RetryPolicy{MaxRetries: 5, Delay: time.Second, MaxDelay: 5 * time.Second}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
		{10, 5 * time.Second},
		{-1, time.Second},
	}
	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestTokenTracker(t *testing.T) {
	tr := NewTokenTracker()
	tr.Add(10, 5)
	tr.Add(7, 3)
	in, out := tr.Total()
	if in != 17 || out != 8 {
		t.Errorf("Total = %d/%d, want 17/8", in, out)
	}
	if tr.Calls() != 2 {
		t.Errorf("Calls = %d, want 2", tr.Calls())
	}
}
