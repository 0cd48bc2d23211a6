package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/solverconfig"
	"github.com/lox/holdem-solver/poker"
)

// BuildAbstractionCmd fits a card abstraction (preflop table + per-street
// K-means) and writes it, along with its abstraction hash, to disk.
type BuildAbstractionCmd struct {
	Out              string `help:"path to write the bucket file (.gz for gzip)" required:""`
	Config           string `help:"solver.hcl config file providing the abstraction block"`
	PreflopBuckets   int    `help:"preflop bucket count (0 keeps config/default)"`
	FlopBuckets      int    `help:"flop cluster count (0 keeps config/default)"`
	TurnBuckets      int    `help:"turn cluster count (0 keeps config/default)"`
	RiverBuckets     int    `help:"river cluster count (0 keeps config/default)"`
	Players          int    `help:"number of players this abstraction targets (0 keeps config/default)"`
	Seed             int64  `help:"build seed (0 keeps config/default)"`
	NumSamplingHands int    `help:"feature vectors sampled per street before clustering (0 keeps config/default)"`
}

func (cmd *BuildAbstractionCmd) Run() error {
	cfg := abstraction.DefaultBucketConfig()
	if cmd.Config != "" {
		loaded, _, err := solverconfig.LoadFile(cmd.Config)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.PreflopBuckets > 0 {
		cfg.PreflopBuckets = cmd.PreflopBuckets
	}
	if cmd.FlopBuckets > 0 {
		cfg.FlopBuckets = cmd.FlopBuckets
	}
	if cmd.TurnBuckets > 0 {
		cfg.TurnBuckets = cmd.TurnBuckets
	}
	if cmd.RiverBuckets > 0 {
		cfg.RiverBuckets = cmd.RiverBuckets
	}
	if cmd.Players > 0 {
		cfg.NumPlayers = cmd.Players
	}
	if cmd.Seed != 0 {
		cfg.BuildSeed = cmd.Seed
	}
	if cmd.NumSamplingHands > 0 {
		cfg.NumSamplingHands = cmd.NumSamplingHands
	}

	log.Info().
		Int("preflop_buckets", cfg.PreflopBuckets).
		Int("flop_buckets", cfg.FlopBuckets).
		Int("turn_buckets", cfg.TurnBuckets).
		Int("river_buckets", cfg.RiverBuckets).
		Int("players", cfg.NumPlayers).
		Int64("seed", cfg.BuildSeed).
		Msg("fitting card abstraction")

	bucket, err := abstraction.Fit(cfg)
	if err != nil {
		return fmt.Errorf("fit abstraction: %w", err)
	}

	if err := abstraction.Save(bucket, cmd.Out); err != nil {
		return fmt.Errorf("save bucket file: %w", err)
	}

	hash := bucket.Hash()
	log.Info().Str("path", cmd.Out).Str("abstraction_hash", fmt.Sprintf("%x", hash)).Msg("abstraction saved")

	// Sanity-check the fitted table against hand-reading intuition: premium
	// combos should dominate the top bucket, not be scattered by a scoring bug.
	topBucket := bucket.Preflop.TopBucketCategoryCounts()
	log.Info().
		Int("premium", topBucket[poker.CategoryPremium]).
		Int("strong", topBucket[poker.CategoryStrong]).
		Int("medium", topBucket[poker.CategoryMedium]).
		Int("weak", topBucket[poker.CategoryWeak]).
		Int("trash", topBucket[poker.CategoryTrash]).
		Msg("preflop top-bucket category distribution")
	return nil
}
