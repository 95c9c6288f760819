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

// Package manifest persists batch outcomes to a .parcrypt.lock file next to
// the processed outputs, so a later invocation can retrieve an output by its
// original name or generated filename, and verify that everything the lock
// file records is still on disk.
package manifest

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/batch"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// LockFileName is the manifest's filename inside the output directory
const LockFileName = ".parcrypt.lock"

// ErrNotFound is returned when a requested output is not recorded or not on disk
var ErrNotFound = errors.Base("output not found")

// 📄 FileRecord tracks one successfully processed file
type FileRecord struct {
	OriginalName string `yaml:"original_name"`
	OutputRef    string `yaml:"output_ref"`
	ByteSize     int64  `yaml:"byte_size"`
	Direction    string `yaml:"direction"`
}

// ❌ FailureRecord tracks one failed file
type FailureRecord struct {
	OriginalName string `yaml:"original_name"`
	Kind         string `yaml:"kind"`
	Message      string `yaml:"message,omitempty"`
}

// 📦 BatchRecord tracks one batch invocation
type BatchRecord struct {
	Strategy      string          `yaml:"strategy"`
	ElapsedMillis int64           `yaml:"elapsed_millis"`
	RanAt         time.Time       `yaml:"ran_at"`
	Files         []FileRecord    `yaml:"files,omitempty"`
	Failures      []FailureRecord `yaml:"failures,omitempty"`
}

// 🗃️ Manifest is the top-level lock file structure
type Manifest struct {
	LastUpdated time.Time     `yaml:"last_updated"`
	Batches     []BatchRecord `yaml:"batches,omitempty"`
}

// 🔧 Manager loads, mutates, and saves the manifest for one output directory
type Manager struct {
	outputDir string
	lockPath  string

	mu       sync.Mutex
	manifest Manifest
}

// 🏭 New creates a manifest manager rooted at the output directory
func New(outputDir string) (*Manager, error) {
	if outputDir == "" {
		return nil, errors.Errorf("output dir is required")
	}
	outputDir = filepath.Clean(outputDir)
	return &Manager{
		outputDir: outputDir,
		lockPath:  filepath.Join(outputDir, LockFileName),
	}, nil
}

// 📥 Load reads the lock file from disk. A missing lock file is an empty
// manifest, not an error.
func (m *Manager) Load(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", m.lockPath).Msg("loading manifest")

	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.manifest = Manifest{}
			return nil
		}
		return errors.Errorf("reading lock file: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return errors.Errorf("parsing lock file: %w", err)
	}

	m.manifest = manifest
	return nil
}

// 💾 Save writes the lock file atomically (temp file plus rename), so a
// crashed save never leaves a half-written manifest behind.
func (m *Manager) Save(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", m.lockPath).Msg("saving manifest")

	m.mu.Lock()
	defer m.mu.Unlock()

	m.manifest.LastUpdated = time.Now().UTC()

	data, err := yaml.Marshal(&m.manifest)
	if err != nil {
		return errors.Errorf("encoding manifest: %w", err)
	}

	if err := os.MkdirAll(m.outputDir, 0755); err != nil {
		return errors.Errorf("creating output dir: %w", err)
	}

	tempPath := m.lockPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp lock file: %w", err)
	}
	if err := os.Rename(tempPath, m.lockPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp lock file: %w", err)
	}

	return nil
}

// 📝 PutOutcome appends one batch outcome to the manifest
func (m *Manager) PutOutcome(ctx context.Context, outcome *batch.BatchOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := BatchRecord{
		Strategy:      outcome.Strategy,
		ElapsedMillis: outcome.ElapsedMillis,
		RanAt:         time.Now().UTC(),
	}
	for _, r := range outcome.Results {
		record.Files = append(record.Files, FileRecord{
			OriginalName: r.OriginalName,
			OutputRef:    r.OutputRef,
			ByteSize:     r.ByteSize,
			Direction:    string(r.Direction),
		})
	}
	for _, f := range outcome.Failures {
		record.Failures = append(record.Failures, FailureRecord{
			OriginalName: f.OriginalName,
			Kind:         string(f.Kind),
			Message:      f.Message,
		})
	}

	m.manifest.Batches = append(m.manifest.Batches, record)
}

// 🔍 Lookup returns the most recent file record for an original name
func (m *Manager) Lookup(name string) (FileRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.manifest.Batches) - 1; i >= 0; i-- {
		for _, f := range m.manifest.Batches[i].Files {
			if f.OriginalName == name {
				return f, nil
			}
		}
	}
	return FileRecord{}, errors.Errorf("%w: no output recorded for %q", ErrNotFound, name)
}

// 📤 Fetch reads a processed output by its generated filename. The generated
// name is the sole retrieval key; an unrecorded or missing name is NotFound.
func (m *Manager) Fetch(ctx context.Context, outputRef string) ([]byte, error) {
	m.mu.Lock()
	recorded := false
	for _, b := range m.manifest.Batches {
		for _, f := range b.Files {
			if f.OutputRef == outputRef {
				recorded = true
				break
			}
		}
	}
	m.mu.Unlock()

	if !recorded {
		return nil, errors.Errorf("%w: %q", ErrNotFound, outputRef)
	}

	data, err := os.ReadFile(filepath.Join(m.outputDir, outputRef))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("%w: %q", ErrNotFound, outputRef)
		}
		return nil, errors.Errorf("reading output: %w", err)
	}
	return data, nil
}

// ✅ Verify concurrently re-checks every recorded output: it must exist and
// its size must match the record
func (m *Manager) Verify(ctx context.Context) error {
	m.mu.Lock()
	var files []FileRecord
	for _, b := range m.manifest.Batches {
		files = append(files, b.Files...)
	}
	m.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, f := range files {
		f := f
		g.Go(func() error {
			info, err := os.Stat(filepath.Join(m.outputDir, f.OutputRef))
			if err != nil {
				return errors.Errorf("verifying %s: %w", f.OutputRef, err)
			}
			if info.Size() != f.ByteSize {
				return errors.Errorf("verifying %s: size %d does not match recorded %d", f.OutputRef, info.Size(), f.ByteSize)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("manifest verification: %w", err)
	}
	return nil
}

// 🔢 BatchCount returns how many batch invocations the manifest records
func (m *Manager) BatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.manifest.Batches)
}
