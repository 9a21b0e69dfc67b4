package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/notedex/internal/notes"
)

// JSON renders the table-of-contents Index as indented JSON.
type JSON struct {
	Options Options
}

func (r *JSON) Name() string { return "json" }

func (r *JSON) Render(w io.Writer, docs []*notes.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(BuildIndex(docs, r.Options)); err != nil {
		return fmt.Errorf("failed to encode json index: %w", err)
	}
	return nil
}

// YAML renders the table-of-contents Index as YAML.
type YAML struct {
	Options Options
}

func (r *YAML) Name() string { return "yaml" }

func (r *YAML) Render(w io.Writer, docs []*notes.Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildIndex(docs, r.Options)); err != nil {
		return fmt.Errorf("failed to encode yaml index: %w", err)
	}
	return enc.Close()
}
