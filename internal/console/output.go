// Package console formats command output for the terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/notedex/internal/notes"
	"github.com/itsmostafa/notedex/internal/searchindex"
)

var (
	// titleStyle for bold red headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// headerBoxStyle for the header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("160")).
			Padding(0, 1)

	// idStyle for section IDs in outlines
	idStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	// matchStyle for highlighted search terms
	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)
)

// Header describes a build before it starts.
type Header struct {
	InputDir   string
	OutputFile string
	Format     string
}

// Summary describes a finished build.
type Summary struct {
	Documents int
	Counts    notes.Counts
	Output    string
	Duration  time.Duration
	Err       error
}

// FormatBuildHeader renders the build header with configuration info
func FormatBuildHeader(w io.Writer, h Header) {
	content := fmt.Sprintf("%s %s  %s %s\n%s %s",
		dimStyle.Render("Input:"), titleStyle.Render(h.InputDir),
		dimStyle.Render("Format:"), titleStyle.Render(h.Format),
		dimStyle.Render("Output:"), h.OutputFile,
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatBuildSummary renders the build summary box
func FormatBuildSummary(w io.Writer, s Summary) {
	var status string
	if s.Err != nil {
		status = errorStyle.Render("ERROR")
	} else {
		status = successStyle.Render("OK")
	}

	line1 := fmt.Sprintf("%s %d  %s %s  %s %s",
		dimStyle.Render("Documents:"), s.Documents,
		dimStyle.Render("Sections:"), formatNumber(s.Counts.Sections),
		dimStyle.Render("Blocks:"), formatNumber(s.Counts.Blocks),
	)
	line2 := fmt.Sprintf("%s %s  %s %.1fs  %s",
		dimStyle.Render("Words:"), formatNumber(s.Counts.Words),
		dimStyle.Render("Duration:"), s.Duration.Seconds(),
		status,
	)

	content := titleStyle.Render("Build Complete") + "\n" + line1 + "\n" + line2
	if s.Err != nil {
		content = titleStyle.Render("Build Failed") + "\n" + errorStyle.Render(s.Err.Error())
	} else if s.Output != "" {
		content += "\n" + dimStyle.Render("Wrote:") + " " + s.Output
	}
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatTOC renders the outline of each document as an indented tree.
// With showIDs set, each entry is prefixed with its section ID.
func FormatTOC(w io.Writer, docs []*notes.Document, showIDs bool) {
	for i, doc := range docs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render(doc.Title), dimStyle.Render(doc.Path))
		fmt.Fprint(w, notes.Outline(doc.Sections, 1, func(s *notes.Section) string {
			title := s.Title
			if s.IsPreamble() {
				title = dimStyle.Render("(preamble)")
			}
			if showIDs {
				title = idStyle.Render(s.ID) + " " + title
			}
			return title
		}))
	}
}

// FormatSearchHits renders search results, one hit per block.
func FormatSearchHits(w io.Writer, query string, hits []searchindex.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("No matches for %q", query)))
		return
	}

	for i, h := range hits {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s %s\n",
			titleStyle.Render(h.Title),
			dimStyle.Render(h.Path+"#"+h.Anchor),
			idStyle.Render(h.ID),
		)
		fmt.Fprintln(w, "  "+highlightSnippet(h.Snippet))
	}
}

// highlightSnippet replaces the [match] markers from the search index with
// styled text.
func highlightSnippet(snippet string) string {
	var sb strings.Builder
	for {
		start := strings.IndexByte(snippet, '[')
		if start < 0 {
			break
		}
		end := strings.IndexByte(snippet[start:], ']')
		if end < 0 {
			break
		}
		sb.WriteString(snippet[:start])
		sb.WriteString(matchStyle.Render(snippet[start+1 : start+end]))
		snippet = snippet[start+end+1:]
	}
	sb.WriteString(snippet)
	return strings.ReplaceAll(sb.String(), "\n", " ")
}

// RenderMarkdown renders markdown for the terminal with glamour. An empty
// style picks one based on the terminal background. If glamour fails the
// markdown is returned unchanged.
func RenderMarkdown(md string, width int, style string) string {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// formatNumber adds commas to large numbers for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
