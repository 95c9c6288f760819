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

package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/parcrypt/pkg/batch"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled).WithContext(context.Background())
}

func stageOutput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func sampleOutcome() *batch.BatchOutcome {
	return &batch.BatchOutcome{
		Strategy:      "threadpool",
		ElapsedMillis: 18,
		Results: []batch.FileResult{
			{OriginalName: "a.txt", OutputRef: "encrypt_1700000000000_ab12cd34_a.txt", ByteSize: 5, Direction: batch.Encrypt},
			{OriginalName: "b.txt", OutputRef: "encrypt_1700000000001_cd34ef56_b.txt", ByteSize: 7, Direction: batch.Encrypt},
		},
		Failures: []batch.Failure{
			{OriginalName: "c.txt", Kind: batch.ErrKindSourceUnreadable, Message: "no such file"},
		},
	}
}

func TestNew_RequiresOutputDir(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestLoad_MissingLockFileIsEmpty(t *testing.T) {
	mgr, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, mgr.Load(testContext()))
	assert.Equal(t, 0, mgr.BatchCount())
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	ctx := testContext()
	dir := t.TempDir()

	mgr, err := New(dir)
	require.NoError(t, err)
	mgr.PutOutcome(ctx, sampleOutcome())
	require.NoError(t, mgr.Save(ctx))

	// A fresh manager sees what the first one persisted
	reloaded, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, 1, reloaded.BatchCount())

	record, err := reloaded.Lookup("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "encrypt_1700000000000_ab12cd34_a.txt", record.OutputRef)
	assert.Equal(t, int64(5), record.ByteSize)
}

func TestSave_CreatesOutputDir(t *testing.T) {
	ctx := testContext()
	dir := filepath.Join(t.TempDir(), "nested", "out")

	mgr, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, mgr.Save(ctx))

	_, err = os.Stat(filepath.Join(dir, LockFileName))
	require.NoError(t, err)
}

func TestLookup_LatestBatchWins(t *testing.T) {
	ctx := testContext()
	mgr, err := New(t.TempDir())
	require.NoError(t, err)

	mgr.PutOutcome(ctx, sampleOutcome())
	mgr.PutOutcome(ctx, &batch.BatchOutcome{
		Strategy: "sequential",
		Results: []batch.FileResult{
			{OriginalName: "a.txt", OutputRef: "encrypt_1700000001000_99aabbcc_a.txt", ByteSize: 5, Direction: batch.Encrypt},
		},
	})

	record, err := mgr.Lookup("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "encrypt_1700000001000_99aabbcc_a.txt", record.OutputRef)
}

func TestLookup_MissingNameIsNotFound(t *testing.T) {
	mgr, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = mgr.Lookup("never-processed.txt")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetch(t *testing.T) {
	ctx := testContext()
	dir := t.TempDir()

	mgr, err := New(dir)
	require.NoError(t, err)
	mgr.PutOutcome(ctx, sampleOutcome())
	stageOutput(t, dir, "encrypt_1700000000000_ab12cd34_a.txt", "Khoor")

	t.Run("recorded_and_on_disk", func(t *testing.T) {
		data, err := mgr.Fetch(ctx, "encrypt_1700000000000_ab12cd34_a.txt")
		require.NoError(t, err)
		assert.Equal(t, "Khoor", string(data))
	})

	t.Run("unrecorded_name_is_not_found", func(t *testing.T) {
		_, err := mgr.Fetch(ctx, "encrypt_0_deadbeef_ghost.txt")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("recorded_but_deleted_is_not_found", func(t *testing.T) {
		_, err := mgr.Fetch(ctx, "encrypt_1700000000001_cd34ef56_b.txt")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestVerify(t *testing.T) {
	ctx := testContext()

	t.Run("all_outputs_intact", func(t *testing.T) {
		dir := t.TempDir()
		mgr, err := New(dir)
		require.NoError(t, err)
		mgr.PutOutcome(ctx, sampleOutcome())
		stageOutput(t, dir, "encrypt_1700000000000_ab12cd34_a.txt", "Khoor")
		stageOutput(t, dir, "encrypt_1700000000001_cd34ef56_b.txt", "Zruog56")

		require.NoError(t, mgr.Verify(ctx))
	})

	t.Run("missing_output_fails", func(t *testing.T) {
		dir := t.TempDir()
		mgr, err := New(dir)
		require.NoError(t, err)
		mgr.PutOutcome(ctx, sampleOutcome())
		stageOutput(t, dir, "encrypt_1700000000000_ab12cd34_a.txt", "Khoor")

		err = mgr.Verify(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cd34ef56_b.txt")
	})

	t.Run("size_mismatch_fails", func(t *testing.T) {
		dir := t.TempDir()
		mgr, err := New(dir)
		require.NoError(t, err)
		mgr.PutOutcome(ctx, sampleOutcome())
		stageOutput(t, dir, "encrypt_1700000000000_ab12cd34_a.txt", "Khoor")
		stageOutput(t, dir, "encrypt_1700000000001_cd34ef56_b.txt", "truncated content grew")

		err = mgr.Verify(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match recorded")
	})
}
