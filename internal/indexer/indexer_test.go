package indexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsmostafa/notedex/internal/notes"
)

const cleanCodeNotes = `# Clean Code

Notes on the book.

## Meaningful Names

Use intention-revealing names.
Avoid disinformation.

` + "```go" + `
// # not a heading
var elapsedTimeInDays int
` + "```" + `

## Functions

### Small!

Functions should be small.

# Chapter Two
`

func titles(sections []*notes.Section) []string {
	var out []string
	for _, s := range notes.Flatten(sections) {
		out = append(out, s.Title)
	}
	return out
}

func TestParse_Empty(t *testing.T) {
	for _, text := range []string{"", "\n\n", "   \n\t\n"} {
		assert.Empty(t, Parse(text), "Parse(%q)", text)
	}
}

func TestParse_BodyOnly(t *testing.T) {
	text := "First paragraph\nstill first.\n\nSecond paragraph.\n\n```\ncode\n```\n"
	sections := Parse(text)

	require.Len(t, sections, 1, "expected a single root section")
	root := sections[0]
	assert.True(t, root.IsPreamble())
	assert.Equal(t, "", root.Title)
	assert.Empty(t, root.Children)
	require.Len(t, root.Blocks, 3)

	assert.Equal(t, notes.Block{Kind: notes.KindParagraph, Text: "First paragraph\nstill first.", Line: 1}, root.Blocks[0])
	assert.Equal(t, notes.Block{Kind: notes.KindParagraph, Text: "Second paragraph.", Line: 4}, root.Blocks[1])
	assert.Equal(t, notes.Block{Kind: notes.KindCode, Text: "code", Line: 6}, root.Blocks[2])
}

func TestParse_Hierarchy(t *testing.T) {
	sections := Parse(cleanCodeNotes)

	require.Len(t, sections, 2)
	assert.Equal(t, []string{"Clean Code", "Meaningful Names", "Functions", "Small!", "Chapter Two"}, titles(sections))

	book := sections[0]
	assert.Equal(t, 1, book.Level)
	assert.Equal(t, 1, book.Line)
	require.Len(t, book.Blocks, 1)
	assert.Equal(t, "Notes on the book.", book.Blocks[0].Text)

	names := book.Children[0]
	assert.Equal(t, 2, names.Level)
	require.Len(t, names.Blocks, 2)
	assert.Equal(t, notes.KindParagraph, names.Blocks[0].Kind)
	assert.Equal(t, "Use intention-revealing names.\nAvoid disinformation.", names.Blocks[0].Text)
	assert.Equal(t, notes.KindCode, names.Blocks[1].Kind)
	assert.Equal(t, "go", names.Blocks[1].Lang)
	assert.Equal(t, "// # not a heading\nvar elapsedTimeInDays int", names.Blocks[1].Text)

	small := book.Children[1].Children[0]
	assert.Equal(t, 3, small.Level)
	assert.Equal(t, "Functions should be small.", small.Blocks[0].Text)

	assert.NoError(t, notes.Validate(sections))
}

func TestParse_FlattensSkippedLevels(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		levels map[string]int
		roots  int
	}{
		{
			name:   "h1 then h3",
			text:   "# A\n### B\n## C\n",
			levels: map[string]int{"A": 1, "B": 2, "C": 2},
			roots:  1,
		},
		{
			name:   "document starts at h2",
			text:   "## A\n#### B\n## C\n",
			levels: map[string]int{"A": 1, "B": 2, "C": 1},
			roots:  2,
		},
		{
			name:   "deep skip returns to nearest ancestor",
			text:   "# A\n## B\n##### C\n### D\n",
			levels: map[string]int{"A": 1, "B": 2, "C": 3, "D": 3},
			roots:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := Parse(tt.text)
			assert.Len(t, sections, tt.roots)
			for _, s := range notes.Flatten(sections) {
				assert.Equal(t, tt.levels[s.Title], s.Level, "level of %q", s.Title)
			}
			assert.NoError(t, notes.Validate(sections))
		})
	}

	t.Run("siblings after skip", func(t *testing.T) {
		sections := Parse("# A\n### B\n## C\n")
		require.Len(t, sections, 1)
		require.Len(t, sections[0].Children, 2)
		assert.Equal(t, "B", sections[0].Children[0].Title)
		assert.Equal(t, "C", sections[0].Children[1].Title)
	})
}

func TestParse_Preamble(t *testing.T) {
	sections := Parse("Intro text.\n\n# First\nbody\n")

	require.Len(t, sections, 2)
	assert.True(t, sections[0].IsPreamble())
	assert.Equal(t, "preamble", sections[0].Anchor)
	assert.Equal(t, "First", sections[1].Title)
	assert.Equal(t, 1, sections[1].Level)
}

func TestParse_HeadingSyntax(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		title string
		ok    bool
	}{
		{"plain", "# Title", "Title", true},
		{"closing hashes", "## Title ##", "Title", true},
		{"hash in title", "# C#", "C#", true},
		{"indented three", "   # Title", "Title", true},
		{"indented four", "    # Title", "", false},
		{"no space", "#Title", "", false},
		{"seven hashes", "####### Title", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := Parse(tt.line + "\n")
			require.Len(t, sections, 1)
			if tt.ok {
				assert.Equal(t, tt.title, sections[0].Title)
				assert.False(t, sections[0].IsPreamble())
			} else {
				assert.True(t, sections[0].IsPreamble(), "%q should be body text", tt.line)
			}
		})
	}
}

func TestParse_Fences(t *testing.T) {
	t.Run("tilde fence with longer close", func(t *testing.T) {
		sections := Parse("# A\n~~~python\n# comment\n```\n~~~~\nafter\n")
		require.Len(t, sections, 1)
		blocks := sections[0].Blocks
		require.Len(t, blocks, 2)
		assert.Equal(t, "python", blocks[0].Lang)
		assert.Equal(t, "# comment\n```", blocks[0].Text)
		assert.Equal(t, "after", blocks[1].Text)
	})

	t.Run("unclosed fence runs to end", func(t *testing.T) {
		sections := Parse("# A\n```\n# B\nx\n\n")
		require.Len(t, sections, 1)
		assert.Empty(t, sections[0].Children)
		require.Len(t, sections[0].Blocks, 1)
		assert.Equal(t, "# B\nx", sections[0].Blocks[0].Text)
	})

	t.Run("crlf line endings", func(t *testing.T) {
		sections := Parse("# A\r\nline one\r\n")
		require.Len(t, sections, 1)
		assert.Equal(t, "A", sections[0].Title)
		assert.Equal(t, "line one", sections[0].Blocks[0].Text)
	})
}

func TestParse_Idempotent(t *testing.T) {
	first := Parse(cleanCodeNotes)
	second := Parse(cleanCodeNotes)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parsing twice produced different trees (-first +second):\n%s", diff)
	}
}

func TestIndex(t *testing.T) {
	doc := &notes.Document{
		Title:    "clean-code",
		Path:     "clean-code.md",
		Source:   "# Clean Code\ntext\n",
		BodyLine: 5,
	}

	indexed := Index(doc)

	assert.Nil(t, doc.Sections, "input document must not be modified")
	require.Len(t, indexed.Sections, 1)
	assert.Equal(t, 5, indexed.Sections[0].Line)
	assert.Equal(t, 6, indexed.Sections[0].Blocks[0].Line)
	assert.Equal(t, "0001", indexed.Sections[0].ID)
	assert.Equal(t, "clean-code", indexed.Sections[0].Anchor)
	assert.Equal(t, doc.Title, indexed.Title)
}

func TestIndex_EmptyDocument(t *testing.T) {
	indexed := Index(&notes.Document{Title: "empty"})
	assert.Empty(t, indexed.Sections)
}
