package notes

import (
	"fmt"
	"strings"
)

// Flatten returns all sections of the forest as a flat slice in pre-order.
func Flatten(sections []*Section) []*Section {
	var result []*Section

	var walk func([]*Section)
	walk = func(children []*Section) {
		for _, s := range children {
			result = append(result, s)
			if s.Children != nil {
				walk(s.Children)
			}
		}
	}

	walk(sections)
	return result
}

// AssignIDs gives every section a sequential zero-padded ID in pre-order and
// returns the number of sections numbered.
func AssignIDs(sections []*Section) int {
	counter := 1
	var assign func([]*Section)
	assign = func(children []*Section) {
		for _, s := range children {
			s.ID = fmt.Sprintf("%04d", counter)
			counter++
			if s.Children != nil {
				assign(s.Children)
			}
		}
	}
	assign(sections)
	return counter - 1
}

// Find looks a section up by ID, anchor or title, in that order of
// preference. Title matching is case-insensitive.
func (d *Document) Find(key string) (*Section, bool) {
	all := Flatten(d.Sections)
	for _, s := range all {
		if s.ID == key {
			return s, true
		}
	}
	for _, s := range all {
		if s.Anchor == key {
			return s, true
		}
	}
	for _, s := range all {
		if strings.EqualFold(s.Title, key) {
			return s, true
		}
	}
	return nil, false
}

// Validate checks that every child sits exactly one level below its parent.
func Validate(sections []*Section) error {
	var check func(children []*Section, parentLevel int) error
	check = func(children []*Section, parentLevel int) error {
		for _, s := range children {
			if parentLevel >= 0 && s.Level != parentLevel+1 {
				return fmt.Errorf("section %q: level %d under parent level %d", s.Title, s.Level, parentLevel)
			}
			if err := check(s.Children, s.Level); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range sections {
		if s.Level > 1 {
			return fmt.Errorf("section %q: top-level section has level %d", s.Title, s.Level)
		}
		if err := check(s.Children, s.Level); err != nil {
			return err
		}
	}
	return nil
}

// Outline returns the forest as an indented table of contents, one entry per
// line, two spaces per depth starting at indent. label renders each entry;
// with a nil label titles are listed and the preamble shows as "(preamble)".
func Outline(sections []*Section, indent int, label func(*Section) string) string {
	if label == nil {
		label = func(s *Section) string {
			if s.IsPreamble() {
				return "(preamble)"
			}
			return s.Title
		}
	}

	var sb strings.Builder
	var write func([]*Section, int)
	write = func(children []*Section, depth int) {
		for _, s := range children {
			sb.WriteString(strings.Repeat("  ", depth))
			sb.WriteString(label(s))
			sb.WriteString("\n")
			if len(s.Children) > 0 {
				write(s.Children, depth+1)
			}
		}
	}
	write(sections, indent)
	return sb.String()
}
