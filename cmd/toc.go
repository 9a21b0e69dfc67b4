package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itsmostafa/notedex/internal/console"
	"github.com/itsmostafa/notedex/internal/pipeline"
)

var tocShowIDs bool

var tocCmd = &cobra.Command{
	Use:   "toc",
	Short: "Print the table of contents of every document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := pipeline.Index(cmd.Context(), cfg.Input.Dir, cfg.Input.Extensions, cfg.Jobs)
		if err != nil {
			return err
		}
		console.FormatTOC(cmd.OutOrStdout(), docs, tocShowIDs)
		return nil
	},
}

func init() {
	tocCmd.Flags().BoolVar(&tocShowIDs, "ids", false, "Prefix each section with its ID")
	rootCmd.AddCommand(tocCmd)
}
