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

package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJobs(n int) []FileJob {
	jobs := make([]FileJob, n)
	for i := range jobs {
		jobs[i] = FileJob{
			SourceRef:    fmt.Sprintf("/tmp/in/file%d.txt", i),
			OriginalName: fmt.Sprintf("file%d.txt", i),
			Direction:    Encrypt,
			Shift:        3,
		}
	}
	return jobs
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name        string
		jobCount    int
		workerCount int
		wantSizes   []int
	}{
		{
			name:        "five_jobs_four_workers",
			jobCount:    5,
			workerCount: 4,
			wantSizes:   []int{2, 1, 1, 1},
		},
		{
			name:        "even_split",
			jobCount:    8,
			workerCount: 4,
			wantSizes:   []int{2, 2, 2, 2},
		},
		{
			name:        "single_worker",
			jobCount:    5,
			workerCount: 1,
			wantSizes:   []int{5},
		},
		{
			name:        "more_workers_than_jobs",
			jobCount:    3,
			workerCount: 8,
			wantSizes:   []int{1, 1, 1},
		},
		{
			name:        "single_job",
			jobCount:    1,
			workerCount: 4,
			wantSizes:   []int{1},
		},
		{
			name:        "remainder_spread_across_front_shards",
			jobCount:    7,
			workerCount: 6,
			wantSizes:   []int{2, 1, 1, 1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := makeJobs(tt.jobCount)
			shards := Partition(jobs, tt.workerCount)

			sizes := make([]int, len(shards))
			for i, s := range shards {
				sizes[i] = len(s)
			}
			assert.Equal(t, tt.wantSizes, sizes, "shard sizes should match front-loaded split")

			// Concatenation reconstructs the original list
			var flat []FileJob
			for _, s := range shards {
				flat = append(flat, s...)
			}
			require.Equal(t, jobs, flat, "shards should partition the job list in order")
		})
	}
}

func TestPartition_Empty(t *testing.T) {
	assert.Nil(t, Partition(nil, 4), "empty job list should produce no shards")
	assert.Nil(t, Partition([]FileJob{}, 4), "empty job list should produce no shards")
}

func TestPartition_NonEmptyShards(t *testing.T) {
	// No dispatched shard may be empty, for any L and K
	for jobCount := 1; jobCount <= 32; jobCount++ {
		for workerCount := 1; workerCount <= 8; workerCount++ {
			shards := Partition(makeJobs(jobCount), workerCount)
			require.LessOrEqual(t, len(shards), workerCount)

			total := 0
			for _, s := range shards {
				require.NotEmpty(t, s, "jobs=%d workers=%d produced an empty shard", jobCount, workerCount)
				total += len(s)
			}
			require.Equal(t, jobCount, total, "jobs=%d workers=%d lost or duplicated jobs", jobCount, workerCount)
		}
	}
}

func TestWorkerCount(t *testing.T) {
	tests := []struct {
		name        string
		parallelism int
		jobCount    int
		want        int
	}{
		{name: "clamped_by_jobs", parallelism: 8, jobCount: 3, want: 3},
		{name: "clamped_by_parallelism", parallelism: 4, jobCount: 100, want: 4},
		{name: "never_below_one", parallelism: 4, jobCount: 0, want: 1},
		{name: "equal", parallelism: 4, jobCount: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorkerCount(tt.parallelism, tt.jobCount))
		})
	}
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("encrypt")
	require.NoError(t, err)
	assert.Equal(t, Encrypt, d)

	d, err = ParseDirection("decrypt")
	require.NoError(t, err)
	assert.Equal(t, Decrypt, d)

	_, err = ParseDirection("rot13")
	require.Error(t, err, "unknown direction should be rejected")
}
