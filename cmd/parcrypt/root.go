package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/parcrypt/cmd/parcrypt/commands"
	"github.com/walteh/parcrypt/cmd/parcrypt/opts"
)

// newRootCmd builds the root command with all subcommands attached
func newRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "parcrypt",
		Short: "Batch file cipher with pluggable execution strategies",
		Long: `parcrypt applies a character-shift cipher to batches of files, processing
them sequentially, across a pool of goroutines, or across a pool of child
processes, and reports how the strategies compare.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(rootOpts.Debug)
		},
	}

	addRootFlags(cmd, rootOpts)

	cmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewCompareCmd(rootOpts),
		commands.NewFetchCmd(rootOpts),
		commands.NewVerifyCmd(rootOpts),
		commands.NewShardWorkerCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".parcrypt.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags. Diagnostic logs go to
// stderr so the shard-worker's stdout stays a clean message channel.
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
