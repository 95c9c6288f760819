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

// Package report consumes batch outcomes and exposes originalName->outputRef
// lookups for later retrieval by name, plus console rendering of per-file
// results and multi-strategy timing comparisons.
package report

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/parcrypt/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned when no processed output exists for a name
var ErrNotFound = errors.Base("output not found")

// 📄 Entry is the tracked state of one submitted file
type Entry struct {
	OriginalName string
	OutputRef    string // Empty when the job failed
	ByteSize     int64
	Direction    batch.Direction
	Failed       bool
	ErrorKind    batch.ErrorKind
	Message      string
}

// 🔧 Manager tracks batch outcomes and reports progress. Safe for
// concurrent use.
type Manager struct {
	mu       sync.RWMutex
	entries  map[string]Entry
	outcomes []batch.BatchOutcome

	// Progress tracking
	total     int
	processed int
}

// 🏭 NewManager creates a new report manager
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]Entry),
	}
}

// 📥 Track records one batch outcome. A later outcome for the same original
// name replaces the earlier entry: the freshest output wins the lookup.
func (m *Manager) Track(ctx context.Context, outcome *batch.BatchOutcome) {
	logger := zerolog.Ctx(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.outcomes = append(m.outcomes, *outcome)

	for _, r := range outcome.Results {
		m.entries[r.OriginalName] = Entry{
			OriginalName: r.OriginalName,
			OutputRef:    r.OutputRef,
			ByteSize:     r.ByteSize,
			Direction:    r.Direction,
		}
	}
	for _, f := range outcome.Failures {
		m.entries[f.OriginalName] = Entry{
			OriginalName: f.OriginalName,
			Failed:       true,
			ErrorKind:    f.Kind,
			Message:      f.Message,
		}
	}

	logger.Debug().
		Str("strategy", outcome.Strategy).
		Int("results", len(outcome.Results)).
		Int("failures", len(outcome.Failures)).
		Int64("elapsed_ms", outcome.ElapsedMillis).
		Msg("tracked batch outcome")
}

// 🔍 Lookup returns the tracked entry for an original name
func (m *Manager) Lookup(name string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[name]
	if !ok {
		return Entry{}, errors.Errorf("%w: %q", ErrNotFound, name)
	}
	return entry, nil
}

// 📜 List returns all tracked entries, sorted by original name
func (m *Manager) List() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OriginalName < entries[j].OriginalName
	})
	return entries
}

// 📈 StartOperation begins progress tracking for a batch
func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
	m.processed = 0
}

// 📈 UpdateProgress records how many jobs have completed
func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = processed
}

// 📈 FinishOperation ends progress tracking
func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = 0
	m.processed = 0
}

// 📈 Progress returns the current progress counters
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}

// 📊 ComparisonData builds the table rows for a multi-strategy comparison.
// Row order follows the outcomes given.
func ComparisonData(outcomes []*batch.BatchOutcome) pterm.TableData {
	data := pterm.TableData{
		{"STRATEGY", "ELAPSED (MS)", "RESULTS", "FAILURES"},
	}
	for _, o := range outcomes {
		data = append(data, []string{
			o.Strategy,
			fmt.Sprintf("%d", o.ElapsedMillis),
			fmt.Sprintf("%d", len(o.Results)),
			fmt.Sprintf("%d", len(o.Failures)),
		})
	}
	return data
}

// 🖨️ RenderComparison prints a side-by-side timing table for the same batch
// run under several strategies
func RenderComparison(ctx context.Context, outcomes []*batch.BatchOutcome) error {
	if err := pterm.DefaultTable.WithHasHeader().WithData(ComparisonData(outcomes)).Render(); err != nil {
		return errors.Errorf("rendering comparison table: %w", err)
	}
	return nil
}

// 🖨️ RenderOutcome prints one outcome's per-file lines with pterm prefixes
func RenderOutcome(ctx context.Context, outcome *batch.BatchOutcome) {
	for _, r := range outcome.Results {
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✓"}).
			Printfln("%s -> %s (%d bytes)", r.OriginalName, r.OutputRef, r.ByteSize)
	}
	for _, f := range outcome.Failures {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "✗"}).
			Printfln("%s: %s", f.OriginalName, f.Kind)
	}
	pterm.Info.WithPrefix(pterm.Prefix{Text: "⏱"}).
		Printfln("%s finished in %d ms (%d ok, %d failed)",
			outcome.Strategy, outcome.ElapsedMillis, len(outcome.Results), len(outcome.Failures))
}
