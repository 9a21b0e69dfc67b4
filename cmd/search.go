package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/notedex/internal/console"
	"github.com/itsmostafa/notedex/internal/pipeline"
	"github.com/itsmostafa/notedex/internal/searchindex"
)

var searchIndex string
var searchLimit int
var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search a sqlite index built with --format sqlite",
	Long: `Search section titles and bodies in a sqlite index. Every word of the
query must match. Results are ranked by relevance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := searchIndex
		if path == "" {
			if cfg.ResolvedFormat() != pipeline.FormatSQLite {
				return fmt.Errorf("no search index configured: pass --index or build with --format sqlite")
			}
			path = cfg.Output.File
		}

		// Open creates missing databases, so check first
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("search index not found: %s (run notedex build --format sqlite)", path)
			}
			return err
		}

		store, err := searchindex.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		query := strings.Join(args, " ")
		hits, err := store.Search(cmd.Context(), query, searchLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			if hits == nil {
				hits = []searchindex.Hit{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(hits)
		}
		console.FormatSearchHits(out, query, hits)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchIndex, "index", "", "Search index file (default: the configured sqlite output file)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(searchCmd)
}
