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
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/batch"
	"github.com/walteh/parcrypt/pkg/worker"
	"gitlab.com/tozd/go/errors"
)

// 📨 shardRequest is the self-contained message a ProcessPool parent
// serializes to a child's stdin. No pointers or handles cross the process
// boundary: the child receives everything it needs in one value.
type shardRequest struct {
	OutputDir string          `json:"output_dir"`
	Jobs      []batch.FileJob `json:"jobs"`
}

// 📬 shardResponse is the single message a child emits on stdout once its
// whole shard is done. Emitting exactly one self-contained message means a
// parent never reads partial or interleaved output.
type shardResponse struct {
	Results  []batch.FileResult `json:"results"`
	Failures []batch.Failure    `json:"failures"`
}

// 👶 RunShardWorker is the child-process entry point for the ProcessPool
// strategy: it decodes one shard request from stdin, runs the shard to
// completion, and encodes one shard response to stdout. Anything the child
// logs goes to stderr; stdout carries only the result message.
func RunShardWorker(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	logger := zerolog.Ctx(ctx)

	var req shardRequest
	if err := json.NewDecoder(stdin).Decode(&req); err != nil {
		return errors.Errorf("decoding shard request: %w", err)
	}

	logger.Debug().Int("jobs", len(req.Jobs)).Msg("shard worker received shard")

	w, err := worker.New(worker.Options{OutputDir: req.OutputDir})
	if err != nil {
		return errors.Errorf("creating worker: %w", err)
	}

	results, failures := w.Run(ctx, batch.Shard(req.Jobs))

	resp := shardResponse{Results: results, Failures: failures}
	if err := json.NewEncoder(stdout).Encode(resp); err != nil {
		return errors.Errorf("encoding shard response: %w", err)
	}

	return nil
}
