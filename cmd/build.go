package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/itsmostafa/notedex/internal/config"
	"github.com/itsmostafa/notedex/internal/console"
	"github.com/itsmostafa/notedex/internal/pipeline"
	"github.com/itsmostafa/notedex/internal/render"
)

var buildQuiet bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the notes index",
	Long: `Load every notes file under the input directory, index its sections and
write the result to the output file.

The format is taken from --format, or inferred from the output file
extension (.json, .yaml, .db) and defaults to html.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		opts := buildOptions(cfg)
		out := cmd.OutOrStdout()

		if !buildQuiet {
			console.FormatBuildHeader(out, console.Header{
				InputDir:   opts.InputDir,
				OutputFile: opts.OutputFile,
				Format:     opts.Format,
			})
		}

		result, err := pipeline.Build(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if !buildQuiet {
			console.FormatBuildSummary(out, summary(result))
		}
		return nil
	},
}

// addOutputFlags registers the flags shared by build and watch.
func addOutputFlags(fs *pflag.FlagSet) {
	fs.StringP("output-file", "o", "", "Output file (default: index.html)")
	fs.StringP("format", "f", "", "Output format (html, json, yaml, sqlite)")
	fs.Bool("include-body", false, "Include section bodies in json and yaml output")
	fs.IntP("jobs", "j", 0, "Maximum number of files read in parallel (0 = number of CPUs)")
	fs.String("html-title", "", "Page title for html output")
}

func buildOptions(c *config.Config) pipeline.Options {
	return pipeline.Options{
		InputDir:   c.Input.Dir,
		OutputFile: c.Output.File,
		Format:     c.ResolvedFormat(),
		Extensions: c.Input.Extensions,
		Jobs:       c.Jobs,
		Render: render.Options{
			BaseDir:     c.Input.Dir,
			IncludeBody: c.Output.IncludeBody,
			Title:       c.HTML.Title,
			Style:       c.HTML.Style,
		},
	}
}

func summary(r *pipeline.Result) console.Summary {
	return console.Summary{
		Documents: r.Documents,
		Counts:    r.Counts,
		Output:    r.Output,
		Duration:  r.Duration,
	}
}

func init() {
	addOutputFlags(buildCmd.Flags())
	buildCmd.Flags().BoolVarP(&buildQuiet, "quiet", "q", false, "Only print errors")
	rootCmd.AddCommand(buildCmd)
}
