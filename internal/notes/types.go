// Package notes defines the parsed form of a notes file: a Document made of
// a forest of hierarchically nested Sections, each holding body Blocks.
//
// Trees are built once by the indexer and treated as immutable afterwards.
// Helpers that need a modified tree work on a Clone.
package notes

import (
	"encoding/json"
)

// BlockKind tags the content of a Block.
type BlockKind string

const (
	// KindParagraph is a run of consecutive non-blank lines.
	KindParagraph BlockKind = "paragraph"
	// KindCode is the body of a fenced code block.
	KindCode BlockKind = "code"
)

// Block is a unit of body content within a Section.
type Block struct {
	Kind BlockKind `json:"kind" yaml:"kind"`
	Text string    `json:"text" yaml:"text"`
	Lang string    `json:"lang,omitempty" yaml:"lang,omitempty"` // Info string of a code fence
	Line int       `json:"line,omitempty" yaml:"line,omitempty"` // 1-indexed source line
}

// Section is a titled subdivision of a Document.
// Level is the depth in the tree (1 for top-level headings). The untitled
// preamble that holds text before the first heading has Level 0.
type Section struct {
	ID       string     `json:"id" yaml:"id"`
	Anchor   string     `json:"anchor" yaml:"anchor"`
	Title    string     `json:"title" yaml:"title"`
	Level    int        `json:"level" yaml:"level"`
	Line     int        `json:"line,omitempty" yaml:"line,omitempty"`
	Blocks   []Block    `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Children []*Section `json:"sections,omitempty" yaml:"sections,omitempty"`
}

// Meta holds the optional YAML front matter of a notes file.
type Meta struct {
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Author string   `json:"author,omitempty" yaml:"author,omitempty"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Document is one parsed notes file.
type Document struct {
	Title    string     `json:"title"`
	Path     string     `json:"path"`
	Meta     Meta       `json:"meta,omitempty"`
	Source   string     `json:"-"`
	BodyLine int        `json:"-"` // Line number of Source's first line in the file
	Sections []*Section `json:"sections"`
}

// IsPreamble reports whether s holds the text that precedes the first heading.
func (s *Section) IsPreamble() bool {
	return s.Level == 0
}

// String returns a JSON representation of the Section for debugging.
func (s *Section) String() string {
	b, _ := json.MarshalIndent(s, "", "  ")
	return string(b)
}

// String returns a JSON representation of the Document.
func (d *Document) String() string {
	b, _ := json.MarshalIndent(d, "", "  ")
	return string(b)
}

// Clone creates a deep copy of the Section.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	clone := &Section{
		ID:     s.ID,
		Anchor: s.Anchor,
		Title:  s.Title,
		Level:  s.Level,
		Line:   s.Line,
	}
	if s.Blocks != nil {
		clone.Blocks = make([]Block, len(s.Blocks))
		copy(clone.Blocks, s.Blocks)
	}
	if s.Children != nil {
		clone.Children = make([]*Section, len(s.Children))
		for i, child := range s.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}

// Clone creates a deep copy of the Document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Meta.Tags != nil {
		clone.Meta.Tags = append([]string(nil), d.Meta.Tags...)
	}
	clone.Sections = CloneAll(d.Sections)
	return &clone
}

// CloneAll deep-copies a section forest.
func CloneAll(sections []*Section) []*Section {
	if sections == nil {
		return nil
	}
	out := make([]*Section, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}

// Walk traverses the tree in pre-order, calling fn for each section.
func (s *Section) Walk(fn func(*Section)) {
	if s == nil {
		return
	}
	fn(s)
	for _, child := range s.Children {
		child.Walk(fn)
	}
}

// Walk traverses every section of the document in document order.
func (d *Document) Walk(fn func(*Section)) {
	for _, s := range d.Sections {
		s.Walk(fn)
	}
}
