package resolve

import (
	"context"
	"math/rand"
	"testing"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/blueprint"
	"github.com/lox/holdem-solver/internal/gametree"
	"github.com/lox/holdem-solver/internal/infoset"
	"github.com/lox/holdem-solver/poker"
)

func buildTestResolver(t *testing.T) *Resolver {
	t.Helper()
	cfg := abstraction.DefaultBucketConfig()
	cfg.NumSamplingHands = 10
	cfg.NumPlayers = 2
	bucket, err := abstraction.Fit(cfg)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	bp := &blueprint.Blueprint{
		Actions:    map[string]actionabs.Menu{},
		Strategies: map[string][]float64{},
	}
	return NewResolver(bp, bucket, actionabs.DefaultMenuConfig())
}

func TestResolveReturnsProbsSummingToOne(t *testing.T) {
	r := buildTestResolver(t)
	rng := rand.New(rand.NewSource(7))
	deck := poker.NewDeck(rng)
	root := gametree.NewHand(2, 2000, 25, 50, 0, deck)

	cfg := DefaultConfig()
	cfg.TimeBudgetMs = 5
	cfg.MinIterations = 10
	cfg.LookaheadStreets = 1

	res, err := r.Resolve(context.Background(), root, infoset.ByStreet{}, root.ActivePlayer(), cfg, rng)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Probs) != len(res.Actions) {
		t.Fatalf("probs/actions length mismatch: %d vs %d", len(res.Probs), len(res.Actions))
	}
	var sum float64
	for _, p := range res.Probs {
		sum += p
	}
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("probs sum to %v, want ~1.0", sum)
	}
}

func TestResolveFallsBackWhenMinIterationsUnreachable(t *testing.T) {
	r := buildTestResolver(t)
	rng := rand.New(rand.NewSource(9))
	deck := poker.NewDeck(rng)
	root := gametree.NewHand(2, 2000, 25, 50, 0, deck)

	cfg := DefaultConfig()
	cfg.MinIterations = 1000000
	cfg.TimeBudgetMs = 0

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already expired: the resolver should stop after zero iterations

	res, err := r.Resolve(ctx, root, infoset.ByStreet{}, root.ActivePlayer(), cfg, rng)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Fallback {
		t.Error("expected fallback when the deadline expires before min-iterations is reached")
	}
}
