package loader

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/notedex/internal/notes"
)

const frontMatterDelim = "---"

// splitFrontMatter separates a leading YAML front matter block from the body.
// It returns the parsed metadata, the body, and the 1-indexed file line on
// which the body starts. Text without a closed block, or whose block is not a
// YAML mapping of known fields, is returned unchanged as the body: a leading
// "---" is also a markdown thematic break.
func splitFrontMatter(text string) (notes.Meta, string, int) {
	var meta notes.Meta

	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return meta, text, 1
	}

	lines := strings.Split(text, "\n")
	closing := -1
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimRight(lines[i], " \t")
		if trimmed == frontMatterDelim || trimmed == "..." {
			closing = i
			break
		}
	}
	if closing < 0 {
		return meta, text, 1
	}

	var root yaml.Node
	header := strings.Join(lines[1:closing], "\n")
	if err := yaml.Unmarshal([]byte(header), &root); err != nil {
		return meta, text, 1
	}
	if len(root.Content) != 1 || root.Content[0].Kind != yaml.MappingNode {
		return meta, text, 1
	}
	if err := root.Content[0].Decode(&meta); err != nil {
		return notes.Meta{}, text, 1
	}

	body := strings.Join(lines[closing+1:], "\n")
	return meta, body, closing + 2
}
