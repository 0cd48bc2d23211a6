package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/blueprint"
	"github.com/lox/holdem-solver/internal/checkpoint"
	"github.com/lox/holdem-solver/internal/epsilon"
	"github.com/lox/holdem-solver/internal/mccfr"
	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/internal/solverconfig"
)

// TrainCmd runs MCCFR blueprint training, fresh or resumed from a
// checkpoint, and writes a blueprint pack on completion.
type TrainCmd struct {
	Abstraction string `help:"path to a bucket file written by build-abstraction" required:""`
	Out         string `help:"path to write the blueprint JSON" required:""`
	Config      string `help:"solver.hcl config file providing the training block"`

	Iterations      int    `help:"total iterations to run (0 keeps config/default)"`
	Players         int    `help:"number of players in self-play (0 keeps config/default)"`
	Parallel        int    `help:"concurrent tables per iteration (0 keeps config/default)"`
	Seed            int64  `help:"random seed (0 keeps config/default)"`
	CheckpointPath  string `help:"directory to write periodic checkpoints"`
	CheckpointMins  int    `help:"checkpoint interval in minutes (0 disables)"`
	ProgressEvery   int    `help:"log progress every N iterations (0 keeps config/default)"`
	Smoke           bool   `help:"apply smoke preset: tiny stack/blinds, few iterations"`
	ResumeFrom      string `help:"resume training from a checkpoint directory"`
	CPUProfile      string `help:"write a CPU profile to this path"`
}

func (cmd *TrainCmd) Run() error {
	if cmd.CPUProfile != "" {
		f, err := os.Create(cmd.CPUProfile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", cmd.CPUProfile).Msg("CPU profiling enabled")
	}

	bucket, err := abstraction.Load(cmd.Abstraction)
	if err != nil {
		return fmt.Errorf("load abstraction: %w", err)
	}
	abstractionHash := fmt.Sprintf("%x", bucket.Hash())

	train, err := cmd.resolveConfig()
	if err != nil {
		return err
	}

	runCfg := solverconfig.RunConfig{
		Training: train,
		Menu:     actionabs.DefaultMenuConfig(),
		Bucket:   bucket.Config,
	}

	store := regretstore.NewDenseStore()
	var startIteration int64

	if cmd.ResumeFrom != "" {
		meta, snap, _, err := checkpoint.Load(cmd.ResumeFrom, abstractionHash, train.Players)
		if err != nil {
			return fmt.Errorf("resume from checkpoint: %w", err)
		}
		store.Restore(snap)
		startIteration = meta.Iteration
		log.Info().Int64("resume_iteration", startIteration).Str("checkpoint", cmd.ResumeFrom).Msg("resumed training run")
	}

	trainer, err := mccfr.NewTrainer(runCfg, bucket, store)
	if err != nil {
		return fmt.Errorf("construct trainer: %w", err)
	}

	sched := epsilon.NewScheduler(train.Epsilon, nil, epsilon.DefaultRatios(), 0, 0)

	remaining := train.Iterations - int(startIteration)
	if remaining < 0 {
		remaining = 0
	}

	log.Info().
		Int("iterations", remaining).
		Int("players", train.Players).
		Int("parallel", train.ParallelTables).
		Str("discount", train.Discount.String()).
		Msg("starting training run")

	start := time.Now()
	lastCheckpoint := time.Now()
	progress := func(p mccfr.Progress) {
		eps := sched.Update(p.Iteration, epsilon.Observation{
			IPS:           float64(p.Iteration) / time.Since(start).Seconds(),
			GrowthPer1000: float64(p.StoreSize) / (float64(p.Iteration) / 1000),
		})
		trainer.SetEpsilon(eps)

		log.Info().
			Int("iteration", p.Iteration).
			Int("infosets", p.StoreSize).
			Int64("nodes", p.Stats.NodesVisited).
			Int64("terminals", p.Stats.TerminalNodes).
			Dur("iter_time", p.Stats.IterationTime).
			Float64("epsilon", eps).
			Msg("progress")

		if cmd.CheckpointPath != "" && cmd.CheckpointMins > 0 && time.Since(lastCheckpoint) >= time.Duration(cmd.CheckpointMins)*time.Minute {
			if err := cmd.writeCheckpoint(store, train, abstractionHash, int64(p.Iteration)); err != nil {
				log.Warn().Err(err).Msg("checkpoint write failed")
			} else {
				lastCheckpoint = time.Now()
				log.Info().Str("path", cmd.CheckpointPath).Msg("checkpoint written")
			}
		}
	}

	if err := trainer.Run(context.Background(), remaining, progress); err != nil {
		return fmt.Errorf("training run: %w", err)
	}

	duration := time.Since(start)
	bp := blueprint.Build(store, trainer.Iteration(), abstractionHash, train.Players)
	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	log.Info().Dur("duration", duration).Int("infosets", len(bp.Strategies)).Str("path", cmd.Out).Msg("training completed")

	// Perfect-hash the finished infoset set into a compact, read-only lookup
	// table. Not served over the CLI yet, but freezing it here exercises the
	// build path against a real end-of-run snapshot rather than only in
	// unit tests.
	if compact, err := regretstore.Freeze(store.Snapshot()); err != nil {
		log.Warn().Err(err).Msg("compact store freeze failed")
	} else {
		log.Info().Int("compact_size", compact.Size()).Msg("compact store built")
	}
	return nil
}

func (cmd *TrainCmd) resolveConfig() (solverconfig.TrainingConfig, error) {
	train := solverconfig.DefaultTrainingConfig()
	if cmd.Config != "" {
		_, loadedTrain, err := solverconfig.LoadFile(cmd.Config)
		if err != nil {
			return train, fmt.Errorf("load config: %w", err)
		}
		train = loadedTrain
	}

	if cmd.Smoke {
		train.SmallBlind = 1
		train.BigBlind = 2
		train.StartingStack = 50
		train.Iterations = 200
		log.Info().Msg("applying smoke preset (stack=50, small_blind=1, big_blind=2, iterations=200)")
	}
	if cmd.Iterations > 0 {
		train.Iterations = cmd.Iterations
	}
	if cmd.Players > 0 {
		train.Players = cmd.Players
	}
	if cmd.Parallel > 0 {
		train.ParallelTables = cmd.Parallel
	}
	if cmd.Seed != 0 {
		train.Seed = cmd.Seed
	}
	if cmd.ProgressEvery > 0 {
		train.ProgressEvery = cmd.ProgressEvery
	}
	if cmd.CheckpointPath != "" {
		train.CheckpointPath = cmd.CheckpointPath
	}
	if err := train.Validate(); err != nil {
		return train, err
	}
	return train, nil
}

func (cmd *TrainCmd) writeCheckpoint(store *regretstore.DenseStore, train solverconfig.TrainingConfig, abstractionHash string, iteration int64) error {
	meta := checkpoint.Metadata{
		Iteration:       iteration,
		AbstractionHash: abstractionHash,
		NumPlayers:      train.Players,
		Training:        train,
	}
	stats := checkpoint.Stats{}
	return checkpoint.Save(cmd.CheckpointPath, meta, store.Snapshot(), stats)
}
