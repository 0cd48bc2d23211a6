package solverconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-solver/internal/abstraction"
)

// File is the on-disk HCL shape for a solver.hcl config file: one
// abstraction block and one training block, both optional (defaults fill
// in anything omitted).
type File struct {
	Abstraction *AbstractionBlock `hcl:"abstraction,block"`
	Training    *TrainingBlock    `hcl:"training,block"`
}

// AbstractionBlock mirrors abstraction.BucketConfig's fields as HCL
// attributes.
type AbstractionBlock struct {
	PreflopBuckets   int   `hcl:"preflop_buckets,optional"`
	FlopBuckets      int   `hcl:"flop_buckets,optional"`
	TurnBuckets      int   `hcl:"turn_buckets,optional"`
	RiverBuckets     int   `hcl:"river_buckets,optional"`
	NumPlayers       int   `hcl:"num_players,optional"`
	BuildSeed        int64 `hcl:"build_seed,optional"`
	NumSamplingHands int   `hcl:"num_sampling_hands,optional"`
}

// TrainingBlock mirrors TrainingConfig's fields as HCL attributes.
// CheckpointEvery is expressed in minutes in the file, matching the
// teacher's --checkpoint-mins CLI flag convention.
type TrainingBlock struct {
	Iterations          int     `hcl:"iterations,optional"`
	Players             int     `hcl:"players,optional"`
	Seed                int64   `hcl:"seed,optional"`
	ParallelTables      int     `hcl:"parallel_tables,optional"`
	CheckpointMinutes   int     `hcl:"checkpoint_minutes,optional"`
	CheckpointPath      string  `hcl:"checkpoint_path,optional"`
	ProgressEvery       int     `hcl:"progress_every,optional"`
	SmallBlind          int     `hcl:"small_blind,optional"`
	BigBlind            int     `hcl:"big_blind,optional"`
	StartingStack       int     `hcl:"starting_stack,optional"`
	Discount            string  `hcl:"discount,optional"`
	LinearWeightingAlpha float64 `hcl:"linear_weighting_alpha,optional"`
	PruneThreshold      float64 `hcl:"prune_threshold,optional"`
	PruneAfterIteration int     `hcl:"prune_after_iteration,optional"`
	Epsilon             float64 `hcl:"epsilon,optional"`
}

// LoadFile parses a solver.hcl file into a BucketConfig/TrainingConfig pair
// layered over the package defaults. A missing file is not an error:
// callers get the defaults back, matching the teacher server config's
// "file absent means defaults" convention.
func LoadFile(path string) (abstraction.BucketConfig, TrainingConfig, error) {
	bucket := abstraction.DefaultBucketConfig()
	training := DefaultTrainingConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return bucket, training, nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return bucket, training, fmt.Errorf("solverconfig: parsing %s: %s", path, diags.Error())
	}

	var parsed File
	diags = gohcl.DecodeBody(f.Body, nil, &parsed)
	if diags.HasErrors() {
		return bucket, training, fmt.Errorf("solverconfig: decoding %s: %s", path, diags.Error())
	}

	if parsed.Abstraction != nil {
		applyAbstractionOverrides(&bucket, parsed.Abstraction)
	}
	if parsed.Training != nil {
		if err := applyTrainingOverrides(&training, parsed.Training); err != nil {
			return bucket, training, err
		}
	}

	return bucket, training, nil
}

func applyAbstractionOverrides(c *abstraction.BucketConfig, b *AbstractionBlock) {
	if b.PreflopBuckets > 0 {
		c.PreflopBuckets = b.PreflopBuckets
	}
	if b.FlopBuckets > 0 {
		c.FlopBuckets = b.FlopBuckets
	}
	if b.TurnBuckets > 0 {
		c.TurnBuckets = b.TurnBuckets
	}
	if b.RiverBuckets > 0 {
		c.RiverBuckets = b.RiverBuckets
	}
	if b.NumPlayers > 0 {
		c.NumPlayers = b.NumPlayers
	}
	if b.BuildSeed != 0 {
		c.BuildSeed = b.BuildSeed
	}
	if b.NumSamplingHands > 0 {
		c.NumSamplingHands = b.NumSamplingHands
	}
}

func applyTrainingOverrides(t *TrainingConfig, b *TrainingBlock) error {
	if b.Iterations > 0 {
		t.Iterations = b.Iterations
	}
	if b.Players > 0 {
		t.Players = b.Players
	}
	if b.Seed != 0 {
		t.Seed = b.Seed
	}
	if b.ParallelTables > 0 {
		t.ParallelTables = b.ParallelTables
	}
	if b.CheckpointMinutes > 0 {
		t.CheckpointEvery = time.Duration(b.CheckpointMinutes) * time.Minute
	}
	if b.CheckpointPath != "" {
		t.CheckpointPath = b.CheckpointPath
	}
	if b.ProgressEvery > 0 {
		t.ProgressEvery = b.ProgressEvery
	}
	if b.SmallBlind > 0 {
		t.SmallBlind = b.SmallBlind
	}
	if b.BigBlind > 0 {
		t.BigBlind = b.BigBlind
	}
	if b.StartingStack > 0 {
		t.StartingStack = b.StartingStack
	}
	if b.Discount != "" {
		switch b.Discount {
		case "none":
			t.Discount = DiscountNone
		case "cfr_plus":
			t.Discount = DiscountCFRPlus
		case "dcfr":
			t.Discount = DiscountDCFR
		default:
			return fmt.Errorf("solverconfig: unknown discount mode %q", b.Discount)
		}
	}
	if b.LinearWeightingAlpha > 0 {
		t.LinearWeightingAlpha = b.LinearWeightingAlpha
	}
	if b.PruneThreshold != 0 {
		t.PruneThreshold = b.PruneThreshold
	}
	if b.PruneAfterIteration > 0 {
		t.PruneAfterIteration = b.PruneAfterIteration
	}
	if b.Epsilon > 0 {
		t.Epsilon = b.Epsilon
	}
	return nil
}
