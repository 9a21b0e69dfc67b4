package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/notedex/internal/notes"
)

// Markdown writes Documents back to markdown. Re-indexing the output yields
// the same titles, order and tree shape as the input.
type Markdown struct {
	// FrontMatter writes the document title and metadata as a YAML header
	FrontMatter bool
}

// Document writes a whole document.
func (m *Markdown) Document(w io.Writer, doc *notes.Document) error {
	bw := bufio.NewWriter(w)

	if m.FrontMatter {
		meta := doc.Meta
		meta.Title = doc.Title
		header, err := yaml.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to encode front matter: %w", err)
		}
		bw.WriteString("---\n")
		bw.Write(header)
		bw.WriteString("---\n")
	}

	first := !m.FrontMatter
	for _, s := range doc.Sections {
		s.Walk(func(n *notes.Section) {
			writeSection(bw, n, &first)
		})
	}

	return bw.Flush()
}

// Section writes s and its descendants.
func (m *Markdown) Section(w io.Writer, s *notes.Section) error {
	bw := bufio.NewWriter(w)
	first := true
	s.Walk(func(n *notes.Section) {
		writeSection(bw, n, &first)
	})
	return bw.Flush()
}

// SectionString is a convenience wrapper around Section.
func (m *Markdown) SectionString(s *notes.Section) string {
	var sb strings.Builder
	_ = m.Section(&sb, s)
	return sb.String()
}

func writeSection(w *bufio.Writer, s *notes.Section, first *bool) {
	separate := func() {
		if !*first {
			w.WriteString("\n")
		}
		*first = false
	}

	if !s.IsPreamble() {
		separate()
		w.WriteString(strings.Repeat("#", s.Level))
		w.WriteString(" ")
		w.WriteString(s.Title)
		// A closing sequence keeps a trailing "#" in the title.
		if strings.HasSuffix(s.Title, "#") {
			w.WriteString(" #")
		}
		w.WriteString("\n")
	}

	for _, b := range s.Blocks {
		separate()
		if b.Kind == notes.KindCode {
			fence := codeFence(b.Text)
			w.WriteString(fence + b.Lang + "\n")
			if b.Text != "" {
				w.WriteString(b.Text + "\n")
			}
			w.WriteString(fence + "\n")
			continue
		}
		w.WriteString(b.Text)
		w.WriteString("\n")
	}
}

// codeFence returns a backtick fence longer than any backtick run in text.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
