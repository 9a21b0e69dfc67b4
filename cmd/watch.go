package cmd

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/notedex/internal/console"
	"github.com/itsmostafa/notedex/internal/loader"
	"github.com/itsmostafa/notedex/internal/pipeline"
	"github.com/itsmostafa/notedex/internal/watch"
)

var watchDebounce int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the notes index whenever a notes file changes",
	Long: `Build the index once, then watch the input directory and rebuild after
notes files are created, modified or removed. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		opts := buildOptions(cfg)
		out := cmd.OutOrStdout()

		rebuild := rebuilder(out, opts)

		console.FormatBuildHeader(out, console.Header{
			InputDir:   opts.InputDir,
			OutputFile: opts.OutputFile,
			Format:     opts.Format,
		})

		// A broken file should not stop the watcher, a missing directory should
		if err := rebuild(cmd.Context()); err != nil {
			var notFound *loader.NotFoundError
			if errors.As(err, &notFound) {
				return err
			}
			log.Error().Err(err).Msg("initial build failed")
		}

		l := loader.New()
		l.Extensions = cfg.Input.Extensions

		w, err := watch.New(opts.InputDir, l.IsNotesFile, time.Duration(watchDebounce)*time.Millisecond)
		if err != nil {
			return err
		}

		log.Info().Str("dir", opts.InputDir).Msg("watching for changes")
		return w.Run(cmd.Context(), rebuild)
	},
}

// rebuilder returns the watch callback. Failed builds are reported in the
// summary box and returned so the watcher logs them.
func rebuilder(out io.Writer, opts pipeline.Options) func(context.Context) error {
	return func(ctx context.Context) error {
		result, err := pipeline.Build(ctx, opts)
		if err != nil {
			console.FormatBuildSummary(out, console.Summary{Err: err})
			return err
		}
		console.FormatBuildSummary(out, summary(result))
		return nil
	}
}

func init() {
	addOutputFlags(watchCmd.Flags())
	watchCmd.Flags().IntVar(&watchDebounce, "debounce", 300, "Milliseconds to wait for changes to settle before rebuilding")
	rootCmd.AddCommand(watchCmd)
}
