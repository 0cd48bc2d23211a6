package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/internal/solverconfig"
)

func TestBatchesDistributesRemainderToEarliestWorkers(t *testing.T) {
	batches := Batches(10, 3)
	require.Len(t, batches, 3)
	sum := 0
	for _, b := range batches {
		sum += b
	}
	assert.Equal(t, 10, sum)
	assert.Equal(t, []int{4, 3, 3}, batches)
}

func TestBatchesExactDivisionIsEven(t *testing.T) {
	batches := Batches(12, 4)
	for _, b := range batches {
		assert.Equal(t, 3, b)
	}
}

func TestRunDistributedMergesAllWorkerContributions(t *testing.T) {
	bucketCfg := abstraction.DefaultBucketConfig()
	bucketCfg.NumSamplingHands = 20
	bucketCfg.NumPlayers = 2
	bucket, err := abstraction.Fit(bucketCfg)
	require.NoError(t, err)

	trainCfg := solverconfig.DefaultTrainingConfig()
	trainCfg.Players = 2
	trainCfg.Iterations = 4
	trainCfg.ParallelTables = 1
	trainCfg.StartingStack = 400
	trainCfg.SmallBlind = 25
	trainCfg.BigBlind = 50

	cfg := solverconfig.RunConfig{
		Training: trainCfg,
		Menu:     actionabs.DefaultMenuConfig(),
		Bucket:   bucketCfg,
	}

	master := regretstore.NewDenseStore()
	err = RunDistributed(context.Background(), master, cfg, bucket, 4, 2, nil)
	require.NoError(t, err)
	assert.NotZero(t, master.Size())
}
