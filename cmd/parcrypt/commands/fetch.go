package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/parcrypt/cmd/parcrypt/opts"
	"gitlab.com/tozd/go/errors"
)

// NewFetchCmd creates a new fetch command
func NewFetchCmd(o *opts.RootOpts) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "fetch <original-name>",
		Short: "Retrieve a processed output by its original file name",
		Long: `Fetch looks an original file name up in the lock file, resolves it to the
generated output name from the most recent batch that processed it, and
writes the output's content to stdout (or to --out).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "fetch").Logger().WithContext(ctx)

			rt, err := o.Load(ctx)
			if err != nil {
				return err
			}

			record, err := rt.Manifest.Lookup(args[0])
			if err != nil {
				return err
			}

			data, err := rt.Manifest.Fetch(ctx, record.OutputRef)
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, data, 0644); err != nil {
					return errors.Errorf("writing %s: %w", outPath, err)
				}
				rt.UserLogger.Successf("wrote %s (%d bytes) to %s", record.OutputRef, len(data), outPath)
				return nil
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the output to a file instead of stdout")

	return cmd
}
