// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package executor

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"github.com/walteh/parcrypt/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Strategy selects the concurrency substrate for a batch. The set is
// closed: exactly these three implementations exist, selected at call time.
type Strategy string

const (
	Sequential  Strategy = "sequential"
	ThreadPool  Strategy = "threadpool"
	ProcessPool Strategy = "processpool"
)

var (
	// ErrInvalidStrategy is returned for a strategy name outside the closed set
	ErrInvalidStrategy = errors.Base("invalid strategy")
	// ErrEmptyBatch is returned when no jobs are submitted
	ErrEmptyBatch = errors.Base("empty batch")
)

// 🔍 ParseStrategy parses a strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Sequential, ThreadPool, ProcessPool:
		return Strategy(s), nil
	default:
		return "", errors.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// 🎮 Executor runs a batch of file jobs to completion and reports the
// aggregate outcome. All three strategies share this contract: for the same
// input they produce set-equivalent outcomes, differing only in elapsed time
// and execution substrate.
type Executor interface {
	// Strategy returns the strategy this executor implements
	Strategy() Strategy
	// Execute processes every job and returns the aggregate outcome.
	// The caller always receives a BatchOutcome as long as the batch is
	// non-empty: individual file failures are entries, not an aborted batch.
	Execute(ctx context.Context, jobs []batch.FileJob) (*batch.BatchOutcome, error)
}

// 🔧 Options contains configuration shared by all executor strategies
type Options struct {
	// OutputDir is the directory processed files are written to
	OutputDir string
	// Parallelism caps the worker pool size (defaults to runtime.NumCPU)
	Parallelism int
	// JoinTimeout bounds the wait for dispatched shards; shards that have
	// not reported by then are recorded as crashed (defaults to 10m)
	JoinTimeout time.Duration
	// Command builds the child process for one ProcessPool shard. The
	// default re-executes the current binary's hidden shard-worker
	// subcommand; tests substitute their own.
	Command func(ctx context.Context) (*exec.Cmd, error)
}

// 🛠️ withDefaults fills in unset options
func (o Options) withDefaults() Options {
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.NumCPU()
	}
	if o.JoinTimeout <= 0 {
		o.JoinTimeout = 10 * time.Minute
	}
	if o.Command == nil {
		o.Command = defaultShardCommand
	}
	return o
}

// 🏭 New creates the executor for the given strategy
func New(strategy Strategy, opts Options) (Executor, error) {
	if opts.OutputDir == "" {
		return nil, errors.Errorf("output dir is required")
	}
	opts = opts.withDefaults()

	switch strategy {
	case Sequential:
		return &sequentialExecutor{opts: opts}, nil
	case ThreadPool:
		return &threadPoolExecutor{opts: opts}, nil
	case ProcessPool:
		return &processPoolExecutor{opts: opts}, nil
	default:
		return nil, errors.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
}

// 📬 shardOutcome is one worker's report at the join point
type shardOutcome struct {
	index    int
	results  []batch.FileResult
	failures []batch.Failure
	err      error // set when the worker terminated before reporting
}

// 💥 crashShard converts an unreported shard into wholesale failures.
// Partial shard progress is not observable across the worker boundary
// without more protocol, so the conservative policy is that the whole
// shard fails.
func crashShard(shard batch.Shard, msg string) []batch.Failure {
	failures := make([]batch.Failure, 0, len(shard))
	for _, job := range shard {
		failures = append(failures, batch.Failure{
			OriginalName: job.OriginalName,
			Kind:         batch.ErrKindWorkerCrashed,
			Message:      msg,
		})
	}
	return failures
}

// 🔗 joinShardOutcomes waits for every dispatched shard to report, bounded
// by timeout. It is the single suspension point visible to the caller: a
// hung worker cannot block the process indefinitely. Shards that miss the
// deadline are recorded as crashed.
func joinShardOutcomes(ctx context.Context, ch <-chan shardOutcome, shards []batch.Shard, timeout time.Duration) ([]batch.FileResult, []batch.Failure) {
	var results []batch.FileResult
	var failures []batch.Failure

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	reported := make([]bool, len(shards))
	pending := len(shards)

	for pending > 0 {
		select {
		case out := <-ch:
			reported[out.index] = true
			pending--
			if out.err != nil {
				failures = append(failures, crashShard(shards[out.index], out.err.Error())...)
				continue
			}
			results = append(results, out.results...)
			failures = append(failures, out.failures...)

		case <-timer.C:
			for i, ok := range reported {
				if !ok {
					failures = append(failures, crashShard(shards[i], "worker did not report before join timeout")...)
				}
			}
			return results, failures
		}
	}

	return results, failures
}

// ⏱️ elapsedMillis measures elapsed wall-clock time on the monotonic clock
func elapsedMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
