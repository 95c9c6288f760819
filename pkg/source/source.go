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

// Package source collects the files a batch will process. A provider turns a
// configured source (a local directory, a GitHub repo path) into staged files
// on the local filesystem, so every job's SourceRef is a readable local path
// before any executor runs.
package source

import (
	"context"

	"github.com/walteh/parcrypt/pkg/batch"
	"github.com/walteh/parcrypt/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 📄 StagedFile is one collected input, readable at Path
type StagedFile struct {
	Path string // Local filesystem path
	Name string // Original name, unique within the batch
}

// 🔌 Provider is the interface for batch input sources
type Provider interface {
	// 📂 Collect resolves the configured source into staged local files.
	// Providers that fetch remote content write it under stagingDir first.
	Collect(ctx context.Context, args config.SourceArgs, stagingDir string) ([]StagedFile, error)
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context) (Provider, error)

var providers = make(map[string]Factory)

// 📝 Register registers a provider factory
func Register(name string, factory Factory) {
	providers[name] = factory
}

// 🎯 Get returns a provider by name
func Get(ctx context.Context, name string) (Provider, error) {
	factory, ok := providers[name]
	if !ok {
		return nil, errors.Errorf("no source provider registered for %q", name)
	}

	p, err := factory(ctx)
	if err != nil {
		return nil, errors.Errorf("creating %s provider: %w", name, err)
	}
	return p, nil
}

// 🔨 Jobs turns staged files into file jobs sharing one direction and shift
func Jobs(files []StagedFile, direction batch.Direction, shift int) []batch.FileJob {
	jobs := make([]batch.FileJob, 0, len(files))
	for _, f := range files {
		jobs = append(jobs, batch.FileJob{
			SourceRef:    f.Path,
			OriginalName: f.Name,
			Direction:    direction,
			Shift:        shift,
		})
	}
	return jobs
}
