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

// 🧩 Shard is a contiguous, non-overlapping sub-list of the submitted jobs,
// owned exclusively by one worker for its lifetime.
type Shard []FileJob

// 🔢 WorkerCount clamps the worker pool size to max(1, min(parallelism, jobs))
func WorkerCount(parallelism, jobCount int) int {
	n := parallelism
	if jobCount < n {
		n = jobCount
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ✂️ Partition splits jobs into at most workerCount contiguous shards.
// The first len(jobs) mod workerCount shards carry the ceiling of
// len(jobs)/workerCount jobs, the rest carry the floor, so no dispatched
// shard is ever empty and the earlier shards are the larger ones.
// Front-loading is fixed policy, not round-robin: within-shard order equals
// submission order and shards concatenated in order reconstruct the input.
func Partition(jobs []FileJob, workerCount int) []Shard {
	if len(jobs) == 0 {
		return nil
	}
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}

	base := len(jobs) / workerCount
	extra := len(jobs) % workerCount

	shards := make([]Shard, 0, workerCount)
	start := 0
	for i := 0; i < workerCount; i++ {
		size := base
		if i < extra {
			size++
		}
		shards = append(shards, Shard(jobs[start:start+size]))
		start += size
	}

	return shards
}
