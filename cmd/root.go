package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/notedex/internal/config"
	"github.com/itsmostafa/notedex/internal/logging"
	"github.com/itsmostafa/notedex/internal/version"
)

var cfgFile string

// cfg is loaded before every command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "notedex",
	Short: "Index and render a directory of markdown notes",
	Long: `notedex reads a directory of markdown notes (one file per book), parses each
file's heading hierarchy into a section tree and renders the result as an
HTML page, a JSON or YAML table of contents, or a searchable SQLite index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		_, err = logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
		return err
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("notedex %s\n", version.String()))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./notedex.yaml or ~/.config/notedex/notedex.yaml)")
	rootCmd.PersistentFlags().String("input-dir", "", "Directory containing notes files")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console, json)")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
