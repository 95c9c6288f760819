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

// ➡️ sequentialExecutor runs the whole batch as a single shard in the
// caller's own goroutine. No concurrency, no partitioning overhead: the
// baseline the parallel strategies are compared against.
type sequentialExecutor struct {
	opts Options
}

func (e *sequentialExecutor) Strategy() Strategy {
	return Sequential
}

func (e *sequentialExecutor) Execute(ctx context.Context, jobs []batch.FileJob) (*batch.BatchOutcome, error) {
	logger := zerolog.Ctx(ctx)

	if len(jobs) == 0 {
		return nil, errors.Errorf("%w: no jobs submitted", ErrEmptyBatch)
	}

	start := time.Now()

	w, err := worker.New(worker.Options{OutputDir: e.opts.OutputDir})
	if err != nil {
		return nil, errors.Errorf("creating worker: %w", err)
	}

	logger.Debug().Int("jobs", len(jobs)).Msg("running batch sequentially")
	results, failures := w.Run(ctx, batch.Shard(jobs))

	return &batch.BatchOutcome{
		Strategy:      string(Sequential),
		ElapsedMillis: elapsedMillis(start),
		Results:       results,
		Failures:      failures,
	}, nil
}
