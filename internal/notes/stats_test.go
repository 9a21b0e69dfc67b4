package notes

import (
	"testing"
	"time"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		minExpected int
		maxExpected int
	}{
		{"empty string", "", 0, 0},
		{"single word", "hello", 1, 3},
		{"simple sentence", "Hello world!", 2, 5},
		{"longer text", "The quick brown fox jumps over the lazy dog.", 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EstimateTokens(tt.input)
			if result < tt.minExpected || result > tt.maxExpected {
				t.Errorf("EstimateTokens(%q) = %d, want between %d and %d",
					tt.input, result, tt.minExpected, tt.maxExpected)
			}
		})
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  time.Duration
	}{
		{0, 0},
		{1, time.Minute},
		{230, time.Minute},
		{231, 2 * time.Minute},
	}

	for _, tt := range tests {
		if got := ReadingTime(tt.words); got != tt.want {
			t.Errorf("ReadingTime(%d) = %v, want %v", tt.words, got, tt.want)
		}
	}
}

func TestDocumentCounts(t *testing.T) {
	doc := &Document{Sections: sampleForest()}
	c := doc.Counts()

	if c.Sections != 6 {
		t.Errorf("expected 6 sections, got %d", c.Sections)
	}
	if c.Blocks != 2 {
		t.Errorf("expected 2 blocks, got %d", c.Blocks)
	}
	if c.Code != 1 {
		t.Errorf("expected 1 code block, got %d", c.Code)
	}
	// Titles count as words, code bodies do not.
	// "Intro"=1 + "hello there"=2 + "Chapter 1"=2 + "Section 1.1"=2 + "Sub 1.1.1"=2 + "Section 1.2"=2 + "Chapter 2"=2
	if c.Words != 13 {
		t.Errorf("expected 13 words, got %d", c.Words)
	}

	wantTokens := 0
	for _, text := range []string{"Intro", "hello there", "Chapter 1", "Section 1.1", "Sub 1.1.1", "Section 1.2", "x := 1", "Chapter 2"} {
		wantTokens += EstimateTokens(text)
	}
	if c.Tokens != wantTokens {
		t.Errorf("expected %d tokens, got %d", wantTokens, c.Tokens)
	}
}
