package notes

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a title into a lowercase, URL-safe anchor.
// Diacritics are stripped ("Café" becomes "cafe") and any run of characters
// that is not a letter or digit collapses into a single hyphen.
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pendingDash = false
			sb.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}

// Slugger hands out slugs that are unique among those it has returned.
// Repeats get "-2", "-3", ... suffixes in call order.
type Slugger struct {
	used map[string]bool
}

// Unique returns base, or base with the lowest free numeric suffix.
func (s *Slugger) Unique(base string) string {
	if s.used == nil {
		s.used = make(map[string]bool)
	}
	slug := base
	for n := 2; s.used[slug]; n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	s.used[slug] = true
	return slug
}
