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

// Package batch defines the data model for a parcrypt batch: the per-file
// unit of work (FileJob), its successful outcome (FileResult), its error
// outcome (Failure), and the aggregate returned to the caller (BatchOutcome).
//
// It also owns the partitioner, which splits a job list into contiguous
// shards for the executors. The rest of the system moves these values around
// but never mutates them: a FileJob is consumed by exactly one worker, a
// shard is owned by exactly one worker for its lifetime, and results transfer
// ownership upward to the executor's aggregate and then to the reporter.
//
// The accounting invariant every executor must uphold: for every FileJob
// submitted, exactly one of {FileResult, Failure} with a matching
// OriginalName appears in the BatchOutcome. No job is silently dropped.
package batch
