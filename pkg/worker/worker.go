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

// Package worker executes one shard of file jobs sequentially: read source,
// apply the cipher, write the output under a collision-free name. A worker
// never communicates with its siblings and shares no mutable state with
// them; the filesystem is the only shared resource and output names are
// unique by construction, so no locking is needed.
package worker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/batch"
	"github.com/walteh/parcrypt/pkg/cipher"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for a worker
type Options struct {
	// OutputDir is the directory processed files are written to
	OutputDir string
	// ID distinguishes this worker in logs
	ID int
}

// 👷 Worker processes the jobs of one shard in submission order
type Worker struct {
	outputDir string
	id        int
}

// 🏭 New creates a new worker, ensuring the output directory exists
func New(opts Options) (*Worker, error) {
	if opts.OutputDir == "" {
		return nil, errors.Errorf("output dir is required")
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Errorf("creating output dir: %w", err)
	}
	return &Worker{
		outputDir: filepath.Clean(opts.OutputDir),
		id:        opts.ID,
	}, nil
}

// 🏃 Run processes every job in the shard, in order, fully synchronously.
// One bad file never aborts the shard: per-job failures are recorded and the
// worker moves on to the next job. Every submitted job ends up in exactly
// one of the returned lists.
func (w *Worker) Run(ctx context.Context, shard batch.Shard) ([]batch.FileResult, []batch.Failure) {
	logger := zerolog.Ctx(ctx)

	results := make([]batch.FileResult, 0, len(shard))
	var failures []batch.Failure

	for _, job := range shard {
		result, failure := w.processJob(ctx, job)
		if failure != nil {
			logger.Debug().
				Int("worker", w.id).
				Str("file", job.OriginalName).
				Str("kind", string(failure.Kind)).
				Msg("job failed")
			failures = append(failures, *failure)
			continue
		}

		logger.Debug().
			Int("worker", w.id).
			Str("file", job.OriginalName).
			Str("output", result.OutputRef).
			Int64("bytes", result.ByteSize).
			Msg("job processed")
		results = append(results, *result)
	}

	return results, failures
}

// 📄 processJob runs one job: read, transform, write
func (w *Worker) processJob(ctx context.Context, job batch.FileJob) (*batch.FileResult, *batch.Failure) {
	content, err := os.ReadFile(job.SourceRef)
	if err != nil {
		return nil, &batch.Failure{
			OriginalName: job.OriginalName,
			Kind:         batch.ErrKindSourceUnreadable,
			Message:      err.Error(),
		}
	}

	transformed := cipher.Apply(content, job.Shift, job.Direction == batch.Decrypt)

	outputName := OutputName(job.Direction, job.OriginalName)
	outputPath := filepath.Join(w.outputDir, outputName)
	if err := os.WriteFile(outputPath, transformed, 0644); err != nil {
		return nil, &batch.Failure{
			OriginalName: job.OriginalName,
			Kind:         batch.ErrKindDestWriteFailure,
			Message:      err.Error(),
		}
	}

	return &batch.FileResult{
		OriginalName: job.OriginalName,
		OutputRef:    outputName,
		ByteSize:     int64(len(transformed)),
		Direction:    job.Direction,
	}, nil
}
