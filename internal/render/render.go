// Package render turns indexed Documents into output files.
//
// Every renderer walks the section trees in document order (pre-order) and
// depends only on its input: rendering the same Documents twice produces
// the same bytes.
package render

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/notedex/internal/notes"
)

// Renderer writes a set of Documents in one output format.
type Renderer interface {
	// Name returns the format name (e.g., "json", "html")
	Name() string

	// Render writes docs to w.
	Render(w io.Writer, docs []*notes.Document) error
}

// Options controls what renderers include in their output.
type Options struct {
	// BaseDir makes document paths relative to it in the output
	BaseDir string

	// IncludeBody adds section blocks to index formats
	IncludeBody bool

	// Title is the page title for html output
	Title string

	// Style is the chroma style used to highlight code in html output
	Style string
}

// Formats lists the names accepted by ByName.
var Formats = []string{"html", "json", "yaml"}

// ByName returns the renderer for a format name.
func ByName(name string, opts Options) (Renderer, error) {
	switch strings.ToLower(name) {
	case "json":
		return &JSON{Options: opts}, nil
	case "yaml", "yml":
		return &YAML{Options: opts}, nil
	case "html":
		return NewHTML(opts), nil
	default:
		return nil, fmt.Errorf("unknown format: %q (valid options: %s)", name, strings.Join(Formats, ", "))
	}
}

// Index is the table-of-contents view of a corpus shared by the json and
// yaml formats.
type Index struct {
	Documents []IndexDocument `json:"documents" yaml:"documents"`
	Totals    notes.Counts    `json:"totals" yaml:"totals"`
}

// IndexDocument is one document in an Index.
type IndexDocument struct {
	Title          string         `json:"title" yaml:"title"`
	Path           string         `json:"path" yaml:"path"`
	Author         string         `json:"author,omitempty" yaml:"author,omitempty"`
	Tags           []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	Counts         notes.Counts   `json:"counts" yaml:"counts"`
	ReadingMinutes int            `json:"reading_minutes" yaml:"reading_minutes"`
	Sections       []IndexSection `json:"sections" yaml:"sections"`
}

// IndexSection is one section in an Index.
type IndexSection struct {
	ID       string         `json:"id" yaml:"id"`
	Anchor   string         `json:"anchor" yaml:"anchor"`
	Title    string         `json:"title" yaml:"title"`
	Level    int            `json:"level" yaml:"level"`
	Line     int            `json:"line,omitempty" yaml:"line,omitempty"`
	Words    int            `json:"words" yaml:"words"`
	Blocks   []notes.Block  `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Sections []IndexSection `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// BuildIndex converts docs into an Index, visiting sections in pre-order.
func BuildIndex(docs []*notes.Document, opts Options) Index {
	idx := Index{Documents: make([]IndexDocument, 0, len(docs))}

	for _, doc := range docs {
		counts := doc.Counts()
		idx.Totals = idx.Totals.Add(counts)

		idx.Documents = append(idx.Documents, IndexDocument{
			Title:          doc.Title,
			Path:           displayPath(doc.Path, opts.BaseDir),
			Author:         doc.Meta.Author,
			Tags:           doc.Meta.Tags,
			Counts:         counts,
			ReadingMinutes: int(notes.ReadingTime(counts.Words).Minutes()),
			Sections:       indexSections(doc.Sections, opts),
		})
	}

	return idx
}

func indexSections(sections []*notes.Section, opts Options) []IndexSection {
	out := make([]IndexSection, 0, len(sections))
	for _, s := range sections {
		entry := IndexSection{
			ID:     s.ID,
			Anchor: s.Anchor,
			Title:  s.Title,
			Level:  s.Level,
			Line:   s.Line,
			Words:  notes.SectionCounts(s).Words,
		}
		if opts.IncludeBody {
			entry.Blocks = s.Blocks
		}
		if len(s.Children) > 0 {
			entry.Sections = indexSections(s.Children, opts)
		}
		out = append(out, entry)
	}
	return out
}

// displayPath returns path relative to base with forward slashes, or path
// unchanged when it is not under base.
func displayPath(path, base string) string {
	if base == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
