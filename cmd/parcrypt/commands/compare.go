package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/parcrypt/cmd/parcrypt/opts"
	"github.com/walteh/parcrypt/pkg/batch"
	"github.com/walteh/parcrypt/pkg/executor"
	"github.com/walteh/parcrypt/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// NewCompareCmd creates a new compare command
func NewCompareCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the batch under every strategy and compare timings",
		Long: `Compare processes the same batch three times, once per execution strategy
(sequential, threadpool, processpool), and prints a side-by-side table of
elapsed wall-clock times. Outputs from every run land in the output
directory; the manifest records all three.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "compare").Logger().WithContext(ctx)

			rt, err := o.Load(ctx)
			if err != nil {
				return err
			}

			jobs, err := collectJobs(ctx, rt)
			if err != nil {
				return err
			}

			rt.UserLogger.Header("comparing execution strategies")

			var outcomes []*batch.BatchOutcome
			for _, strategy := range []executor.Strategy{executor.Sequential, executor.ThreadPool, executor.ProcessPool} {
				outcome, err := runBatch(ctx, rt, strategy, jobs)
				if err != nil {
					return errors.Errorf("running %s batch: %w", strategy, err)
				}
				rt.Manifest.PutOutcome(ctx, outcome)
				outcomes = append(outcomes, outcome)
			}

			if err := rt.Manifest.Save(ctx); err != nil {
				return errors.Errorf("saving manifest: %w", err)
			}

			rt.UserLogger.LogNewline()
			return report.RenderComparison(ctx, outcomes)
		},
	}

	return cmd
}
