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

package worker

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/parcrypt/pkg/batch"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestWorkerRun(t *testing.T) {
	ctx := zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())

	t.Run("encrypts_shard_in_order", func(t *testing.T) {
		srcDir := t.TempDir()
		outDir := t.TempDir()

		shard := batch.Shard{
			{SourceRef: writeSource(t, srcDir, "a.txt", "Hello"), OriginalName: "a.txt", Direction: batch.Encrypt, Shift: 3},
			{SourceRef: writeSource(t, srcDir, "b.txt", "World"), OriginalName: "b.txt", Direction: batch.Encrypt, Shift: 3},
		}

		w, err := New(Options{OutputDir: outDir})
		require.NoError(t, err)

		results, failures := w.Run(ctx, shard)
		require.Empty(t, failures)
		require.Len(t, results, 2)

		// Within-shard order equals submission order
		assert.Equal(t, "a.txt", results[0].OriginalName)
		assert.Equal(t, "b.txt", results[1].OriginalName)

		content, err := os.ReadFile(filepath.Join(outDir, results[0].OutputRef))
		require.NoError(t, err)
		assert.Equal(t, "Khoor", string(content), "Hello shifted by 3 should be Khoor")

		assert.Equal(t, int64(5), results[0].ByteSize)
		assert.Equal(t, batch.Encrypt, results[0].Direction)
	})

	t.Run("decrypt_restores_original", func(t *testing.T) {
		srcDir := t.TempDir()
		outDir := t.TempDir()

		shard := batch.Shard{
			{SourceRef: writeSource(t, srcDir, "enc.txt", "Khoor"), OriginalName: "enc.txt", Direction: batch.Decrypt, Shift: 3},
		}

		w, err := New(Options{OutputDir: outDir})
		require.NoError(t, err)

		results, failures := w.Run(ctx, shard)
		require.Empty(t, failures)
		require.Len(t, results, 1)

		content, err := os.ReadFile(filepath.Join(outDir, results[0].OutputRef))
		require.NoError(t, err)
		assert.Equal(t, "Hello", string(content))
	})

	t.Run("bad_file_does_not_abort_shard", func(t *testing.T) {
		srcDir := t.TempDir()
		outDir := t.TempDir()

		shard := batch.Shard{
			{SourceRef: writeSource(t, srcDir, "ok1.txt", "one"), OriginalName: "ok1.txt", Direction: batch.Encrypt, Shift: 1},
			{SourceRef: filepath.Join(srcDir, "missing.txt"), OriginalName: "missing.txt", Direction: batch.Encrypt, Shift: 1},
			{SourceRef: writeSource(t, srcDir, "ok2.txt", "two"), OriginalName: "ok2.txt", Direction: batch.Encrypt, Shift: 1},
		}

		w, err := New(Options{OutputDir: outDir})
		require.NoError(t, err)

		results, failures := w.Run(ctx, shard)
		require.Len(t, results, 2, "readable jobs should still be processed")
		require.Len(t, failures, 1)

		assert.Equal(t, "missing.txt", failures[0].OriginalName)
		assert.Equal(t, batch.ErrKindSourceUnreadable, failures[0].Kind)
		assert.NotEmpty(t, failures[0].Message)

		// Accounting: every job in exactly one list
		assert.Equal(t, len(shard), len(results)+len(failures))
	})

	t.Run("empty_shard", func(t *testing.T) {
		w, err := New(Options{OutputDir: t.TempDir()})
		require.NoError(t, err)

		results, failures := w.Run(ctx, nil)
		assert.Empty(t, results)
		assert.Empty(t, failures)
	})
}

func TestNew_RequiresOutputDir(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output dir")
}

func TestOutputName(t *testing.T) {
	pattern := regexp.MustCompile(`^encrypt_\d+_[0-9a-f]{8}_notes\.txt$`)

	name := OutputName(batch.Encrypt, "notes.txt")
	assert.Regexp(t, pattern, name)

	decName := OutputName(batch.Decrypt, "notes.txt")
	assert.Regexp(t, regexp.MustCompile(`^decrypt_\d+_[0-9a-f]{8}_notes\.txt$`), decName)

	// Collision resistance: repeated names for the same job must differ
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := OutputName(batch.Encrypt, "notes.txt")
		require.False(t, seen[n], "output names must be unique across invocations")
		seen[n] = true
	}
}
