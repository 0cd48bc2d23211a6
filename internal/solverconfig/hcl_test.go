package solverconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	bucket, training, err := LoadFile(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTrainingConfig().Iterations, training.Iterations)
	assert.NotZero(t, bucket.PreflopBuckets)
}

func TestLoadFileAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.hcl")
	contents := `
abstraction {
  preflop_buckets = 10
  flop_buckets    = 20
  turn_buckets    = 20
  river_buckets   = 20
  num_players     = 3
}

training {
  iterations       = 5000
  players          = 3
  small_blind      = 10
  big_blind        = 20
  starting_stack   = 2000
  discount         = "dcfr"
  epsilon          = 0.1
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	bucket, training, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, bucket.PreflopBuckets)
	assert.Equal(t, 3, bucket.NumPlayers)
	assert.Equal(t, 5000, training.Iterations)
	assert.Equal(t, 3, training.Players)
	assert.Equal(t, DiscountDCFR, training.Discount)
	assert.Equal(t, 0.1, training.Epsilon)
}

func TestLoadFileRejectsUnknownDiscount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solver.hcl")
	contents := `
training {
  discount = "bogus"
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, _, err := LoadFile(path)
	assert.Error(t, err)
}
