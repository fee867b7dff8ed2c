package chunker

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		perChunk int
		overlap  int
		text     string
		want     []string
	}{
		{
			name:     "groups sentences with overlap",
			perChunk: 2,
			overlap:  1,
			text:     "One. Two. Three. Four.",
			want:     []string{"One. Two.", "Two. Three.", "Three. Four."},
		},
		{
			name:     "no overlap",
			perChunk: 2,
			overlap:  0,
			text:     "One. Two. Three.",
			want:     []string{"One. Two.", "Three."},
		},
		{
			name:     "text without punctuation is one chunk",
			perChunk: 3,
			overlap:  0,
			text:     "  just some words  ",
			want:     []string{"just some words"},
		},
		{
			name:     "empty text",
			perChunk: 3,
			overlap:  0,
			text:     "   ",
			want:     nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewSentenceChunker(tt.perChunk, tt.overlap)
			got := c.Split(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSentenceChunkerDefaults(t *testing.T) {
	c := NewSentenceChunker(0, -1)
	if c.sentencesPerChunk != 5 {
		t.Errorf("sentencesPerChunk = %d, want 5", c.sentencesPerChunk)
	}
	if c.overlapSentences != 0 {
		t.Errorf("overlapSentences = %d, want 0", c.overlapSentences)
	}
}
