package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/notedex/internal/console"
	"github.com/itsmostafa/notedex/internal/notes"
	"github.com/itsmostafa/notedex/internal/pipeline"
	"github.com/itsmostafa/notedex/internal/render"
)

var showWidth int
var showStyle string
var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show DOCUMENT [SECTION]",
	Short: "Render a document or one of its sections in the terminal",
	Long: `Render a document, or a single section of it, as formatted markdown.

DOCUMENT matches a document title, file name or path relative to the input
directory. SECTION matches a section ID, anchor or title.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := pipeline.Index(cmd.Context(), cfg.Input.Dir, cfg.Input.Extensions, cfg.Jobs)
		if err != nil {
			return err
		}

		doc, err := findDocument(docs, cfg.Input.Dir, args[0])
		if err != nil {
			return err
		}

		var md string
		if len(args) == 2 {
			section, ok := doc.Find(args[1])
			if !ok {
				return fmt.Errorf("section %q not found in %s", args[1], doc.Title)
			}
			md = (&render.Markdown{}).SectionString(section)
		} else {
			var buf bytes.Buffer
			if err := (&render.Markdown{}).Document(&buf, doc); err != nil {
				return err
			}
			md = buf.String()
		}

		if !showRaw {
			md = console.RenderMarkdown(md, showWidth, showStyle)
		}
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	},
}

// findDocument matches key against document titles, then file names and
// relative paths. Matching is case-insensitive.
func findDocument(docs []*notes.Document, baseDir, key string) (*notes.Document, error) {
	for _, doc := range docs {
		if strings.EqualFold(doc.Title, key) {
			return doc, nil
		}
	}
	for _, doc := range docs {
		base := filepath.Base(doc.Path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		rel, err := filepath.Rel(baseDir, doc.Path)
		if err != nil {
			rel = doc.Path
		}
		if strings.EqualFold(base, key) || strings.EqualFold(name, key) || strings.EqualFold(filepath.ToSlash(rel), key) {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("document %q not found in %s", key, baseDir)
}

func init() {
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 80, "Word wrap width")
	showCmd.Flags().StringVar(&showStyle, "style", "", "Glamour style (dark, light, notty, ...; default: detect)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print markdown without terminal formatting")
	rootCmd.AddCommand(showCmd)
}
