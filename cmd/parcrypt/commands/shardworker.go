package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/parcrypt/pkg/executor"
)

// NewShardWorkerCmd creates the hidden shard-worker command. The processpool
// executor re-executes this binary with it: one JSON shard request on stdin,
// one JSON shard response on stdout. Stdout carries nothing else, so all
// logging in this mode goes to stderr.
func NewShardWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "shard-worker",
		Hidden: true,
		Short:  "Process one shard of file jobs from stdin (internal)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return executor.RunShardWorker(cmd.Context(), os.Stdin, os.Stdout)
		},
	}

	return cmd
}
