package notes

import (
	"strings"
	"time"
	"unicode"
)

// wordsPerMinute is the reading speed used for ReadingTime.
const wordsPerMinute = 230

// Counts summarizes the size of a section tree.
type Counts struct {
	Sections int `json:"sections" yaml:"sections"`
	Blocks   int `json:"blocks" yaml:"blocks"`
	Code     int `json:"code_blocks" yaml:"code_blocks"`
	Words    int `json:"words" yaml:"words"`
	Tokens   int `json:"tokens" yaml:"tokens"`
}

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Sections: c.Sections + o.Sections,
		Blocks:   c.Blocks + o.Blocks,
		Code:     c.Code + o.Code,
		Words:    c.Words + o.Words,
		Tokens:   c.Tokens + o.Tokens,
	}
}

// CountWords counts whitespace-separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateTokens provides a simple token count approximation.
// Most tokenizers produce ~1.3 tokens per word, plus punctuation.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	wordCount := len(strings.Fields(text))

	punctCount := 0
	for _, r := range text {
		if unicode.IsPunct(r) {
			punctCount++
		}
	}

	return int(float64(wordCount)*1.3) + punctCount/2
}

// ReadingTime estimates how long it takes to read words words, rounded up
// to the minute.
func ReadingTime(words int) time.Duration {
	if words <= 0 {
		return 0
	}
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return time.Duration(minutes) * time.Minute
}

// SectionCounts counts s's own blocks, words and estimated tokens, excluding
// children. Code bodies count toward tokens but not words.
func SectionCounts(s *Section) Counts {
	c := Counts{Sections: 1, Blocks: len(s.Blocks)}
	c.Words = CountWords(s.Title)
	c.Tokens = EstimateTokens(s.Title)
	for _, b := range s.Blocks {
		c.Tokens += EstimateTokens(b.Text)
		if b.Kind == KindCode {
			c.Code++
			continue
		}
		c.Words += CountWords(b.Text)
	}
	return c
}

// TreeCounts counts s and all of its descendants.
func TreeCounts(s *Section) Counts {
	var total Counts
	s.Walk(func(n *Section) {
		total = total.Add(SectionCounts(n))
	})
	return total
}

// Counts totals every section of the document.
func (d *Document) Counts() Counts {
	var total Counts
	for _, s := range d.Sections {
		total = total.Add(TreeCounts(s))
	}
	return total
}
