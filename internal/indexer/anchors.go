package indexer

import "github.com/itsmostafa/notedex/internal/notes"

const preambleAnchor = "preamble"

// assignAnchors gives every section an anchor that is unique within the
// forest.
func assignAnchors(sections []*notes.Section) {
	var slugs notes.Slugger
	for _, s := range notes.Flatten(sections) {
		if s.IsPreamble() {
			s.Anchor = slugs.Unique(preambleAnchor)
			continue
		}
		s.Anchor = slugs.Unique(notes.Slugify(s.Title))
	}
}
