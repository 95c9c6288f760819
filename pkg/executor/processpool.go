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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// 🔀 processPoolExecutor has the same partitioning and join semantics as the
// thread pool, but each shard runs in an isolated child process with no
// shared address space. The serialization boundary is the only difference:
// shard in as one JSON message on stdin, results back as one JSON message on
// stdout. A child exiting non-zero is a shard-level failure, never an
// aborted batch.
type processPoolExecutor struct {
	opts Options
}

func (e *processPoolExecutor) Strategy() Strategy {
	return ProcessPool
}

func (e *processPoolExecutor) Execute(ctx context.Context, jobs []batch.FileJob) (*batch.BatchOutcome, error) {
	logger := zerolog.Ctx(ctx)

	if len(jobs) == 0 {
		return nil, errors.Errorf("%w: no jobs submitted", ErrEmptyBatch)
	}

	start := time.Now()

	workerCount := batch.WorkerCount(e.opts.Parallelism, len(jobs))
	shards := batch.Partition(jobs, workerCount)

	logger.Debug().
		Int("jobs", len(jobs)).
		Int("workers", workerCount).
		Int("shards", len(shards)).
		Msg("fanning out batch to child processes")

	// Children are killed at the join ceiling so a hung child cannot
	// outlive the batch
	cctx, cancel := context.WithTimeout(ctx, e.opts.JoinTimeout)
	defer cancel()

	ch := make(chan shardOutcome, len(shards))
	for i, shard := range shards {
		go e.runShard(cctx, i, shard, ch)
	}

	results, failures := joinShardOutcomes(ctx, ch, shards, e.opts.JoinTimeout)

	return &batch.BatchOutcome{
		Strategy:      string(ProcessPool),
		ElapsedMillis: elapsedMillis(start),
		Results:       results,
		Failures:      failures,
	}, nil
}

// 🏃 runShard ships one shard to a child process and reports its single
// result message to the join.
func (e *processPoolExecutor) runShard(ctx context.Context, index int, shard batch.Shard, ch chan<- shardOutcome) {
	cmd, err := e.opts.Command(ctx)
	if err != nil {
		ch <- shardOutcome{index: index, err: errors.Errorf("building shard command: %w", err)}
		return
	}

	payload, err := json.Marshal(shardRequest{OutputDir: e.opts.OutputDir, Jobs: shard})
	if err != nil {
		ch <- shardOutcome{index: index, err: errors.Errorf("encoding shard request: %w", err)}
		return
	}

	var stdout bytes.Buffer
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		ch <- shardOutcome{index: index, err: errors.Errorf("shard child process: %w", err)}
		return
	}

	// The child's stdout is only honored if the single result message
	// decodes completely
	var resp shardResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		ch <- shardOutcome{index: index, err: errors.Errorf("decoding shard response: %w", err)}
		return
	}

	ch <- shardOutcome{index: index, results: resp.Results, failures: resp.Failures}
}

// 🧰 defaultShardCommand re-executes the current binary's hidden
// shard-worker subcommand.
func defaultShardCommand(ctx context.Context) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.Errorf("locating executable: %w", err)
	}
	return exec.CommandContext(ctx, exe, "shard-worker"), nil
}
