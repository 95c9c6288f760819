package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/parcrypt/cmd/parcrypt/opts"
)

// NewVerifyCmd creates a new verify command
func NewVerifyCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every output the lock file records is still intact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "verify").Logger().WithContext(ctx)

			rt, err := o.Load(ctx)
			if err != nil {
				return err
			}

			if err := rt.Manifest.Verify(ctx); err != nil {
				return err
			}

			rt.UserLogger.Success("all recorded outputs are present and intact")
			return nil
		},
	}

	return cmd
}
