package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/itsmostafa/notedex/internal/indexer"
	"github.com/itsmostafa/notedex/internal/notes"
	"github.com/itsmostafa/notedex/internal/searchindex"
)

func TestFormatBuildHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatBuildHeader(&buf, Header{InputDir: "notes", OutputFile: "index.html", Format: "html"})

	out := buf.String()
	assert.Contains(t, out, "notes")
	assert.Contains(t, out, "index.html")
	assert.Contains(t, out, "╔", "double border")
}

func TestFormatBuildSummary(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		FormatBuildSummary(&buf, Summary{
			Documents: 3,
			Counts:    notes.Counts{Sections: 12, Blocks: 40, Words: 12345},
			Output:    "index.html",
			Duration:  1500 * time.Millisecond,
		})

		out := buf.String()
		assert.Contains(t, out, "Build Complete")
		assert.Contains(t, out, "12,345")
		assert.Contains(t, out, "1.5s")
		assert.Contains(t, out, "OK")
		assert.Contains(t, out, "index.html")
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		FormatBuildSummary(&buf, Summary{Err: errors.New("document not found: notes")})

		out := buf.String()
		assert.Contains(t, out, "Build Failed")
		assert.Contains(t, out, "document not found: notes")
	})
}

func TestFormatTOC(t *testing.T) {
	doc := indexer.Index(&notes.Document{
		Title:  "Clean Code",
		Path:   "clean-code.md",
		Source: "Intro.\n\n# Names\n\n## Avoid Disinformation\n\n# Functions\n",
	})

	var buf bytes.Buffer
	FormatTOC(&buf, []*notes.Document{doc}, true)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Clean Code clean-code.md",
		"  0001 (preamble)",
		"  0002 Names",
		"    0003 Avoid Disinformation",
		"  0004 Functions",
	}
	assert.Equal(t, want, lines)
}

func TestFormatSearchHits(t *testing.T) {
	t.Run("no hits", func(t *testing.T) {
		var buf bytes.Buffer
		FormatSearchHits(&buf, "missing", nil)
		assert.Contains(t, buf.String(), `No matches for "missing"`)
	})

	t.Run("hits", func(t *testing.T) {
		var buf bytes.Buffer
		FormatSearchHits(&buf, "deep", []searchindex.Hit{{
			Title:   "Deep Modules",
			Path:    "posd.md",
			Anchor:  "deep-modules",
			ID:      "0004",
			Snippet: "modules should be [deep]",
		}})

		out := buf.String()
		assert.Contains(t, out, "Deep Modules")
		assert.Contains(t, out, "posd.md#deep-modules")
		assert.Contains(t, out, "modules should be deep")
		assert.NotContains(t, out, "[deep]")
	})
}

func TestHighlightSnippet(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"a [b] c", "a b c"},
		{"[x] and [y]", "x and y"},
		{"unclosed [bracket", "unclosed [bracket"},
		{"line\nbreak", "line break"},
	}

	for _, tt := range tests {
		if got := highlightSnippet(tt.input); got != tt.want {
			t.Errorf("highlightSnippet(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("# Deep Modules\n\nKeep interfaces **simple**.\n", 60, "notty")
	assert.Contains(t, out, "Deep Modules")
	assert.Contains(t, out, "simple")

	// Unknown styles fall back to the raw markdown
	assert.Equal(t, "plain *text*", RenderMarkdown("plain *text*", 60, "no-such-style"))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
