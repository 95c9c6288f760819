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
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/batch"
	"github.com/walteh/parcrypt/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

// 🧵 threadPoolExecutor fans shards out to one goroutine per shard in the
// shared address space and joins on all of them. A panicking worker must not
// hang the join: its shard is reported as crashed while the remaining
// workers are still observed to completion.
type threadPoolExecutor struct {
	opts Options
}

func (e *threadPoolExecutor) Strategy() Strategy {
	return ThreadPool
}

func (e *threadPoolExecutor) Execute(ctx context.Context, jobs []batch.FileJob) (*batch.BatchOutcome, error) {
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
		Msg("fanning out batch to goroutines")

	ch := make(chan shardOutcome, len(shards))
	for i, shard := range shards {
		go e.runShard(ctx, i, shard, ch)
	}

	results, failures := joinShardOutcomes(ctx, ch, shards, e.opts.JoinTimeout)

	return &batch.BatchOutcome{
		Strategy:      string(ThreadPool),
		ElapsedMillis: elapsedMillis(start),
		Results:       results,
		Failures:      failures,
	}, nil
}

// 🏃 runShard executes one shard and always signals the join, even when the
// worker's goroutine dies unexpectedly.
func (e *threadPoolExecutor) runShard(ctx context.Context, index int, shard batch.Shard, ch chan<- shardOutcome) {
	defer func() {
		if r := recover(); r != nil {
			ch <- shardOutcome{index: index, err: errors.Errorf("worker panicked: %v", r)}
		}
	}()

	w, err := worker.New(worker.Options{OutputDir: e.opts.OutputDir, ID: index})
	if err != nil {
		ch <- shardOutcome{index: index, err: errors.Errorf("creating worker: %w", err)}
		return
	}

	results, failures := w.Run(ctx, shard)
	ch <- shardOutcome{index: index, results: results, failures: failures}
}
