// Package coordinator fans a batch of MCCFR iterations out across a worker
// pool, each worker training against its own private regret-store copy, and
// merges every worker's delta back into a shared master store once it
// finishes (spec §4.8). Grounded on the teacher's sdk/solver/trainer.go
// goroutine-per-table pattern, generalized from a single shared table to
// delta-merged per-worker tables so no lock is held across the traversal's
// hot path.
package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/internal/solverconfig"
)

// WorkerResult reports one worker's contribution to a distributed run.
type WorkerResult struct {
	WorkerIndex   int
	Iterations    int
	Stats         mccfr.TraversalStats
	Err           error
}

// Batches splits total iterations across workers as evenly as possible: the
// first `total % workers` workers get one extra iteration, matching the
// spec's exact batch-size/remainder distribution (E1/E2).
func Batches(total, workers int) []int {
	if workers <= 0 {
		workers = 1
	}
	batches := make([]int, workers)
	base := total / workers
	remainder := total % workers
	for i := range batches {
		batches[i] = base
		if i < remainder {
			batches[i]++
		}
	}
	return batches
}

// RunDistributed runs totalIterations MCCFR iterations across `workers`
// goroutines, each training into its own private DenseStore restored from a
// snapshot of master taken before any worker starts, then merges every
// worker's delta back into master by summation. Each worker merges its own
// delta as soon as its batch finishes, concurrently with workers still
// running; MergeDelta locks per shard and per record, and summation makes
// the merge order irrelevant to the result (spec §4.8 step 4).
func RunDistributed(ctx context.Context, master *regretstore.DenseStore, cfg solverconfig.RunConfig, bucket *abstraction.Bucketer, totalIterations, workers int, progress func(WorkerResult)) error {
	if workers <= 0 {
		workers = 1
	}
	batches := Batches(totalIterations, workers)
	baseline := master.Snapshot()

	results := make(chan WorkerResult, workers)
	var wg sync.WaitGroup

	for i, n := range batches {
		if n == 0 {
			results <- WorkerResult{WorkerIndex: i}
			continue
		}
		i, n := i, n
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerCfg := cfg
			workerCfg.Training.Seed = cfg.Training.Seed + int64(i)*104729 + 1

			local := regretstore.NewDenseStore()
			local.Restore(baseline)

			trainer, err := mccfr.NewTrainer(workerCfg, bucket, local)
			if err != nil {
				results <- WorkerResult{WorkerIndex: i, Err: fmt.Errorf("coordinator: worker %d: %w", i, err)}
				return
			}
			if err := trainer.Run(ctx, n, nil); err != nil {
				results <- WorkerResult{WorkerIndex: i, Err: fmt.Errorf("coordinator: worker %d: %w", i, err)}
				return
			}

			delta := regretstore.Delta(baseline, local.Snapshot())
			master.MergeDelta(delta)
			results <- WorkerResult{WorkerIndex: i, Iterations: n, Stats: trainer.Stats()}
		}()
	}

	// Queue-drain-while-running: workers finish and push results
	// concurrently with the merges above; closing the channel only after
	// every goroutine has returned avoids a goroutine blocking forever on a
	// full, unread channel (the channel is sized to `workers` so this can't
	// actually deadlock, but draining eagerly keeps memory bounded for very
	// large worker counts too).
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.Err != nil && firstErr == nil {
			firstErr = r.Err
		}
		if progress != nil {
			progress(r)
		}
	}
	return firstErr
}
