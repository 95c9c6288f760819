package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/parcrypt/cmd/parcrypt/opts"
	"github.com/walteh/parcrypt/pkg/batch"
	"github.com/walteh/parcrypt/pkg/executor"
	"github.com/walteh/parcrypt/pkg/log"
	"github.com/walteh/parcrypt/pkg/report"
	"github.com/walteh/parcrypt/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// NewRunCmd creates a new run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	var strategyFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process the configured batch of files",
		Long: `Run collects the configured source files, applies the cipher to each one
under the configured execution strategy, and writes the outputs plus a lock
file into the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "run").Logger().WithContext(ctx)

			rt, err := o.Load(ctx)
			if err != nil {
				return err
			}
			if strategyFlag != "" {
				rt.Config.Strategy = strategyFlag
			}

			strategy, err := executor.ParseStrategy(rt.Config.Strategy)
			if err != nil {
				return err
			}

			jobs, err := collectJobs(ctx, rt)
			if err != nil {
				return err
			}

			rt.UserLogger.Header("processing batch files")
			outcome, err := runBatch(ctx, rt, strategy, jobs)
			if err != nil {
				return err
			}

			rt.Manifest.PutOutcome(ctx, outcome)
			if err := rt.Manifest.Save(ctx); err != nil {
				return errors.Errorf("saving manifest: %w", err)
			}

			report.RenderOutcome(ctx, outcome)
			if len(outcome.Failures) > 0 {
				rt.UserLogger.Warningf("%d of %d files failed", len(outcome.Failures), outcome.Len())
			} else {
				rt.UserLogger.Successf("processed %d files", len(outcome.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "", "override the configured execution strategy")

	return cmd
}

// collectJobs resolves the configured source into a list of file jobs
func collectJobs(ctx context.Context, rt *opts.Runtime) ([]batch.FileJob, error) {
	provider, err := source.Get(ctx, rt.Config.Source.Provider)
	if err != nil {
		return nil, err
	}

	files, err := provider.Collect(ctx, rt.Config.Source, rt.Config.StagingDir)
	if err != nil {
		return nil, errors.Errorf("collecting source files: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no files matched the configured source patterns")
	}

	direction, err := batch.ParseDirection(rt.Config.Direction)
	if err != nil {
		return nil, err
	}

	return source.Jobs(files, direction, rt.Config.Shift), nil
}

// runBatch executes one batch under one strategy, tracking the outcome in the
// report manager and echoing per-file lines to the console
func runBatch(ctx context.Context, rt *opts.Runtime, strategy executor.Strategy, jobs []batch.FileJob) (*batch.BatchOutcome, error) {
	ex, err := executor.New(strategy, executor.Options{
		OutputDir:   rt.Config.OutputDir,
		Parallelism: rt.Config.Parallelism,
		JoinTimeout: rt.Config.JoinTimeoutOrDefault(),
	})
	if err != nil {
		return nil, err
	}

	rt.UserLogger.StartBatchOperation(ctx, log.BatchOperation{
		Strategy:  string(strategy),
		JobCount:  len(jobs),
		OutputDir: rt.Config.OutputDir,
	})

	outcome, err := ex.Execute(ctx, jobs)
	if err != nil {
		return nil, errors.Errorf("executing batch: %w", err)
	}

	for _, r := range outcome.Results {
		rt.UserLogger.LogJobOperation(ctx, log.JobOperation{
			Name:      r.OriginalName,
			OutputRef: r.OutputRef,
			Direction: string(r.Direction),
			Status:    "done",
			ByteSize:  r.ByteSize,
		})
	}
	for _, f := range outcome.Failures {
		rt.UserLogger.LogJobOperation(ctx, log.JobOperation{
			Name:      f.OriginalName,
			Status:    "failed",
			Failed:    true,
			ErrorKind: string(f.Kind),
		})
	}

	rt.UserLogger.EndBatchOperation(ctx, outcome.ElapsedMillis)
	rt.Reporter.Track(ctx, outcome)

	return outcome, nil
}
