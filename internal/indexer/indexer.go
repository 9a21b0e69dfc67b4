// Package indexer builds the section tree of a notes document from its
// heading markers.
package indexer

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/itsmostafa/notedex/internal/notes"
)

var (
	headerPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	fencePattern  = regexp.MustCompile("^(`{3,}|~{3,})[ \t]*([^ \t`]*)")
)

// maxHeadingIndent is how far a heading marker may be indented before the
// line stops counting as a heading.
const maxHeadingIndent = 3

// Index returns a copy of doc with its Sections parsed from doc.Source.
// doc itself is not modified.
func Index(doc *notes.Document) *notes.Document {
	out := doc.Clone()
	firstLine := doc.BodyLine
	if firstLine < 1 {
		firstLine = 1
	}
	out.Sections = parse(doc.Source, firstLine-1)

	log.Debug().
		Str("path", doc.Path).
		Int("sections", len(notes.Flatten(out.Sections))).
		Msg("indexed document")

	return out
}

// Parse builds the section forest for text. Line numbers start at 1.
func Parse(text string) []*notes.Section {
	return parse(text, 0)
}

type stackEntry struct {
	node *notes.Section
	raw  int // Number of # characters in the heading
}

// scanner accumulates blocks and sections while walking the lines of a
// document once.
type scanner struct {
	roots   []*notes.Section
	stack   []stackEntry
	current *notes.Section

	para     []string
	paraLine int

	inCode    bool
	fenceChar byte
	fenceLen  int
	codeLang  string
	codeLine  int
	code      []string
}

func parse(text string, lineOffset int) []*notes.Section {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sc := &scanner{}
	for i, line := range strings.Split(text, "\n") {
		sc.scanLine(strings.TrimSuffix(line, "\r"), i+1+lineOffset)
	}
	sc.finish()

	notes.AssignIDs(sc.roots)
	assignAnchors(sc.roots)
	return sc.roots
}

func (sc *scanner) scanLine(line string, lineNum int) {
	trimmed := strings.TrimSpace(line)

	if sc.inCode {
		if sc.isClosingFence(trimmed) {
			sc.closeCode()
			return
		}
		sc.code = append(sc.code, line)
		return
	}

	if m := fencePattern.FindStringSubmatch(trimmed); m != nil && indentOf(line) <= maxHeadingIndent {
		sc.flushParagraph()
		sc.inCode = true
		sc.fenceChar = m[1][0]
		sc.fenceLen = len(m[1])
		sc.codeLang = m[2]
		sc.codeLine = lineNum
		sc.code = nil
		return
	}

	if trimmed == "" {
		sc.flushParagraph()
		return
	}

	if indentOf(line) <= maxHeadingIndent {
		if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
			sc.flushParagraph()
			sc.openSection(len(m[1]), strings.TrimSpace(m[2]), lineNum)
			return
		}
	}

	if len(sc.para) == 0 {
		sc.paraLine = lineNum
	}
	sc.para = append(sc.para, line)
}

// openSection attaches a heading to the nearest open section with a lower
// raw level. Skipped levels are flattened: the new section always sits one
// level below its parent.
func (sc *scanner) openSection(raw int, title string, lineNum int) {
	for len(sc.stack) > 0 && sc.stack[len(sc.stack)-1].raw >= raw {
		sc.stack = sc.stack[:len(sc.stack)-1]
	}

	node := &notes.Section{Title: title, Level: 1, Line: lineNum}
	if len(sc.stack) == 0 {
		sc.roots = append(sc.roots, node)
	} else {
		parent := sc.stack[len(sc.stack)-1].node
		node.Level = parent.Level + 1
		parent.Children = append(parent.Children, node)
	}

	sc.stack = append(sc.stack, stackEntry{node: node, raw: raw})
	sc.current = node
}

func (sc *scanner) addBlock(b notes.Block) {
	if sc.current == nil {
		// Text before the first heading
		sc.current = &notes.Section{Level: 0, Line: b.Line}
		sc.roots = append(sc.roots, sc.current)
	}
	sc.current.Blocks = append(sc.current.Blocks, b)
}

func (sc *scanner) flushParagraph() {
	if len(sc.para) == 0 {
		return
	}
	sc.addBlock(notes.Block{
		Kind: notes.KindParagraph,
		Text: strings.Join(sc.para, "\n"),
		Line: sc.paraLine,
	})
	sc.para = nil
}

func (sc *scanner) isClosingFence(trimmed string) bool {
	if len(trimmed) < sc.fenceLen {
		return false
	}
	run := 0
	for run < len(trimmed) && trimmed[run] == sc.fenceChar {
		run++
	}
	return run >= sc.fenceLen && strings.TrimSpace(trimmed[run:]) == ""
}

func (sc *scanner) closeCode() {
	sc.addBlock(notes.Block{
		Kind: notes.KindCode,
		Text: strings.Join(sc.code, "\n"),
		Lang: sc.codeLang,
		Line: sc.codeLine,
	})
	sc.inCode = false
	sc.code = nil
}

func (sc *scanner) finish() {
	if sc.inCode {
		// An unclosed fence runs to the end of the document
		for len(sc.code) > 0 && strings.TrimSpace(sc.code[len(sc.code)-1]) == "" {
			sc.code = sc.code[:len(sc.code)-1]
		}
		sc.closeCode()
	}
	sc.flushParagraph()
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}
