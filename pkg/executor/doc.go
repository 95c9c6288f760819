/*
Package executor implements the task-partitioning and parallel-execution
engine at the heart of parcrypt.

	+-----------+     +-------------+     +----------+
	|  FileJobs | --> | Partitioner | --> |  Shards  |
	+-----------+     +-------------+     +----+-----+
	                                           |
	                  +------------------------+------------------------+
	                  |                        |                        |
	           +------+-----+          +------+-----+           +------+-----+
	           | sequential |          | threadpool |           | processpool|
	           | (1 worker) |          | goroutines |           | child procs|
	           +------+-----+          +------+-----+           +------+-----+
	                  |                        |                        |
	                  +------------------------+------------------------+
	                                           |
	                                    +------+------+
	                                    |    Join     |
	                                    |   & Merge   |
	                                    +-------------+

🎯 Purpose:
- Splits N independent file-transform jobs across a bounded worker pool
- Executes every shard to completion under one of three strategies
- Collects all per-file results and failures into one BatchOutcome
- Measures wall-clock elapsed time per strategy for comparison

🔄 Flow:
1. Reject EmptyBatch / InvalidStrategy before any partitioning
2. Partition jobs into contiguous shards (pkg/batch)
3. Dispatch shards to workers on the chosen substrate
4. Join: wait (bounded) for every shard to report
5. Merge shard outcomes and stamp the elapsed time

⚡ Key Responsibilities:
- Identical external contract across all three strategies: same input,
  set-equivalent results, only elapsed time and substrate differ
- Partial-failure isolation: a crashed worker fails its shard, never the batch
- Bounded join: a hung worker cannot block the caller forever

🤝 Interfaces:
- Executor: the single call signature shared by the closed strategy set
- Worker: shard execution (pkg/worker)
- shardRequest/shardResponse: the ProcessPool serialization boundary

📝 Design Philosophy:
The strategy set is deliberately closed: three implementers behind one
interface, selected by an enum at call time, not open-ended plugin dispatch.
Process-based workers share nothing with the parent; everything crosses the
boundary as one self-contained message each way. Completion signaling is a
join primitive with a deterministic, bounded contract, not an event
subscription.

🔍 Example:

	exec, err := executor.New(executor.ThreadPool, executor.Options{
		OutputDir: "processed",
	})
	outcome, err := exec.Execute(ctx, jobs)
*/
package executor
