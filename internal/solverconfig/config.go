// Package solverconfig aggregates the parameters that control one MCCFR
// training run: table stakes, iteration and worker counts, and the
// discounting/pruning/exploration schedule (spec §4.7, §9).
package solverconfig

import (
	"errors"
	"time"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/abstraction"
)

// DiscountMode selects which regret-discounting schedule a run applies.
type DiscountMode uint8

const (
	DiscountNone DiscountMode = iota
	DiscountCFRPlus
	DiscountDCFR
)

func (m DiscountMode) String() string {
	switch m {
	case DiscountCFRPlus:
		return "cfr-plus"
	case DiscountDCFR:
		return "dcfr"
	default:
		return "none"
	}
}

// TrainingConfig aggregates parameters that control MCCFR execution.
type TrainingConfig struct {
	Iterations      int
	Players         int
	Seed            int64
	ParallelTables  int
	CheckpointEvery time.Duration
	CheckpointPath  string
	ProgressEvery   int

	SmallBlind    int
	BigBlind      int
	StartingStack int

	Discount DiscountMode
	// LinearWeightingAlpha is the exponent on t/(t+1) in the DCFR regret
	// discount. Strategy-sum contributions are not weighted by iteration
	// number; this value does not affect them.
	LinearWeightingAlpha float64

	// PruneThreshold is the regret floor below which an action is
	// considered for negative-regret pruning (Pluribus-style, spec
	// invariant 7). Expressed as a negative number, e.g. -3e8.
	PruneThreshold      float64
	PruneAfterIteration int

	// Epsilon is the exploration probability applied to pruned branches so
	// the regret store keeps correcting them (spec invariant 7, 9).
	Epsilon float64

	EquitySamplesPerBucket int
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("solverconfig: iterations must be > 0")
	}
	if c.Players < 2 {
		return errors.New("solverconfig: players must be >= 2")
	}
	if c.ParallelTables <= 0 {
		return errors.New("solverconfig: parallel tables must be > 0")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("solverconfig: checkpoint interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("solverconfig: progress interval cannot be negative")
	}
	if c.SmallBlind <= 0 {
		return errors.New("solverconfig: small blind must be > 0")
	}
	if c.BigBlind <= c.SmallBlind {
		return errors.New("solverconfig: big blind must be greater than small blind")
	}
	if c.StartingStack <= 0 {
		return errors.New("solverconfig: starting stack must be > 0")
	}
	if c.PruneThreshold > 0 {
		return errors.New("solverconfig: prune threshold must be <= 0")
	}
	if c.Epsilon < 0 || c.Epsilon >= 1 {
		return errors.New("solverconfig: epsilon must be in [0, 1)")
	}
	return nil
}

// DefaultTrainingConfig returns a minimal configuration suitable for smoke
// tests: few iterations, one worker, CFR+ discounting, Pluribus-style
// pruning held off until iteration 200, which a 200-iteration smoke run
// never reaches.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:             1000,
		Players:                6,
		Seed:                   1,
		ParallelTables:         1,
		CheckpointEvery:        5 * time.Minute,
		ProgressEvery:          0,
		SmallBlind:             50,
		BigBlind:               100,
		StartingStack:          10000,
		Discount:               DiscountCFRPlus,
		LinearWeightingAlpha:   1.5,
		PruneThreshold:         -3e8,
		PruneAfterIteration:    200,
		Epsilon:                0.05,
		EquitySamplesPerBucket: 150,
	}
}

// RunConfig bundles everything a Trainer needs besides the regret store
// itself: the fitted card abstraction, the action-abstraction menu shape,
// and the training schedule.
type RunConfig struct {
	Training TrainingConfig
	Menu     actionabs.MenuConfig
	Bucket   abstraction.BucketConfig
}
