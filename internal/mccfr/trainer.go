// Package mccfr implements the external-sampling Monte-Carlo CFR solver
// core: depth-first traversal of an abstracted hand, regret-matching+
// strategy computation, and the linear-weighting/CFR+/DCFR discount and
// Pluribus-style negative-regret pruning schedule (spec §4.7, invariants
// 6-9). Grounded on the teacher's sdk/solver/trainer.go and traversal.go,
// generalized from the teacher's placeholder updates to a full MCCFR
// traversal over internal/gametree.
package mccfr

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/game"
	"github.com/lox/holdem-solver/internal/gametree"
	"github.com/lox/holdem-solver/internal/infoset"
	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/internal/solverconfig"
	"github.com/lox/holdem-solver/poker"
)

// TraversalStats captures instrumentation metrics for a single MCCFR
// iteration, across however many parallel tables it ran over.
type TraversalStats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
	IterationTime time.Duration
}

// Progress is emitted periodically during Run so a caller can render a
// progress bar or log a line.
type Progress struct {
	Iteration  int
	StoreSize  int
	Stats      TraversalStats
	PrunedKeys int
}

// Trainer orchestrates Monte-Carlo CFR iterations over an abstracted table.
type Trainer struct {
	cfg     solverconfig.RunConfig
	bucket  *abstraction.Bucketer
	store   regretstore.Store
	rng     *rand.Rand
	iter    atomic.Int64
	statsMu sync.Mutex
	stats   TraversalStats
	epsilon atomic.Value // float64, overrides cfg.Training.Epsilon once set
}

// NewTrainer constructs a trainer from a fitted card abstraction and a run
// configuration. The regret store is supplied separately so callers can
// resume training into a store restored from a checkpoint.
func NewTrainer(cfg solverconfig.RunConfig, bucket *abstraction.Bucketer, store regretstore.Store) (*Trainer, error) {
	if err := cfg.Training.Validate(); err != nil {
		return nil, err
	}
	if bucket == nil {
		return nil, fmt.Errorf("mccfr: bucket abstraction is required")
	}
	seed := cfg.Training.Seed
	if seed == 0 {
		seed = 1
	}
	return &Trainer{
		cfg:    cfg,
		bucket: bucket,
		store:  store,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Store returns the regret store backing this trainer, for checkpointing.
func (t *Trainer) Store() regretstore.Store { return t.store }

// Iteration returns the number of completed iterations.
func (t *Trainer) Iteration() int64 { return t.iter.Load() }

// SetEpsilon overrides the exploration probability used for pruned-branch
// sampling, letting a caller drive it from an internal/epsilon.Scheduler as
// training progresses instead of the fixed config value.
func (t *Trainer) SetEpsilon(e float64) { t.epsilon.Store(e) }

func (t *Trainer) currentEpsilon() float64 {
	if v, ok := t.epsilon.Load().(float64); ok {
		return v
	}
	return t.cfg.Training.Epsilon
}

// Stats returns the most recently completed iteration's traversal stats.
func (t *Trainer) Stats() TraversalStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

// Run executes up to n further iterations (crossing parallel tables per
// iteration), calling progress after every ProgressEvery iterations.
func (t *Trainer) Run(ctx context.Context, n int, progress func(Progress)) error {
	batch := t.cfg.Training.ProgressEvery
	if batch <= 0 {
		batch = 100
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		stats, err := t.singleIteration()
		if err != nil {
			return err
		}
		stats.IterationTime = time.Since(start)
		t.setStats(stats)
		iter := t.iter.Add(1)

		t.applyDiscountSchedule(iter)

		if progress != nil && iter%int64(batch) == 0 {
			progress(Progress{Iteration: int(iter), StoreSize: t.store.Size(), Stats: stats})
		}
	}
	return nil
}

func (t *Trainer) setStats(s TraversalStats) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats = s
}

// applyDiscountSchedule runs every iteration. Under CFR+ it applies no
// discount (both factors are 1); regrets are not reset to zero, and the
// only floor on them is RegretFloor in Record. Under linear discounted CFR
// (DCFR) regrets are scaled by (t/(t+1))^alpha, with alpha taken from
// LinearWeightingAlpha, and the strategy sum by t/(t+1); no separate
// exponent is applied to the strategy-sum factor. Early, noisier
// iterations thus contribute less to both the eventual strategy and future
// regret updates.
func (t *Trainer) applyDiscountSchedule(iter int64) {
	switch t.cfg.Training.Discount {
	case solverconfig.DiscountCFRPlus:
		t.store.Discount(1.0, 1.0)
	case solverconfig.DiscountDCFR:
		x := float64(iter) / float64(iter+1)
		alpha := t.cfg.Training.LinearWeightingAlpha
		t.store.Discount(math.Pow(x, alpha), x)
	}
}

func (t *Trainer) singleIteration() (TraversalStats, error) {
	parallel := t.cfg.Training.ParallelTables
	if parallel <= 0 {
		parallel = 1
	}
	players := t.cfg.Training.Players

	type seed struct {
		deck   int64
		sample int64
		button int
	}
	seeds := make([]seed, parallel)
	for i := range seeds {
		seeds[i] = seed{
			deck:   t.rng.Int63(),
			sample: t.rng.Int63(),
			button: t.rng.Intn(players),
		}
	}

	statsSlice := make([]TraversalStats, parallel)
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for w := 0; w < parallel; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			deckRNG := rand.New(rand.NewSource(seeds[w].deck))
			sampler := rand.New(rand.NewSource(seeds[w].sample))
			deck := poker.NewDeck(deckRNG)
			root := gametree.NewHand(players, t.cfg.Training.StartingStack, t.cfg.Training.SmallBlind, t.cfg.Training.BigBlind, seeds[w].button, deck)

			for target := 0; target < players; target++ {
				errMu.Lock()
				if firstErr != nil {
					errMu.Unlock()
					return
				}
				errMu.Unlock()

				tc := &traversalCtx{
					trainer: t,
					sampler: sampler,
					stats:   &statsSlice[w],
				}
				if _, err := tc.traverse(root, infoset.ByStreet{}, target, 0, 1.0, 1.0); err != nil {
					errMu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					errMu.Unlock()
					return
				}
			}
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return TraversalStats{}, firstErr
	}

	var agg TraversalStats
	for _, s := range statsSlice {
		agg.NodesVisited += s.NodesVisited
		agg.TerminalNodes += s.TerminalNodes
		if s.MaxDepth > agg.MaxDepth {
			agg.MaxDepth = s.MaxDepth
		}
	}
	return agg, nil
}

// traversalCtx holds the per-goroutine mutable state a single traversal
// needs: its own sampler RNG (for opponent action sampling and equity
// estimation during bucket lookups) and stats accumulator. Traversal itself
// is otherwise a pure function of (state, history, target), matching the
// "stateless beyond the thread RNG and the regret store" traversal
// invariant.
type traversalCtx struct {
	trainer *Trainer
	sampler *rand.Rand
	stats   *TraversalStats
}

func (tc *traversalCtx) traverse(s gametree.State, history infoset.ByStreet, target, depth int, reachTarget, reachOthers float64) (float64, error) {
	tc.stats.NodesVisited++
	if depth > tc.stats.MaxDepth {
		tc.stats.MaxDepth = depth
	}

	if s.IsComplete() {
		tc.stats.TerminalNodes++
		return gametree.UtilityForPlayer(s, target), nil
	}

	if s.ActivePlayer() == -1 {
		if s.Street.IsLast() {
			tc.stats.TerminalNodes++
			return gametree.UtilityForPlayer(s, target), nil
		}
		next := s.NextStreet(tc.sampler)
		if _, ok := history[next.Street]; !ok {
			history = cloneHistory(history)
			history[next.Street] = actionabs.History{}
		}
		return tc.traverse(next, history, target, depth+1, reachTarget, reachOthers)
	}

	current := s.ActivePlayer()
	geometry := s.Geometry(current)
	menu := actionabs.BuildMenu(tc.trainer.cfg.Menu, geometry)
	if len(menu) == 0 {
		tc.stats.TerminalNodes++
		return gametree.UtilityForPlayer(s, target), nil
	}

	key, err := tc.infosetKey(s, current, history)
	if err != nil {
		return 0, err
	}

	menu = tc.trainer.store.RecordActions(key, menu)
	strategy := tc.trainer.store.GetStrategy(key, menu)

	if current == target {
		util := make([]float64, len(menu))
		nodeUtil := 0.0
		for i, a := range menu {
			u, err := tc.traverse(s.Apply(tc.trainer.cfg.Menu, a), appendHistory(history, s.Street, a), target, depth+1, reachTarget*strategy[i], reachOthers)
			if err != nil {
				return 0, err
			}
			util[i] = u
			nodeUtil += strategy[i] * u
		}

		pruned := tc.trainer.shouldPrune(key)
		for i, a := range menu {
			regret := util[i] - nodeUtil
			if pruned && regret < 0 && tc.sampler.Float64() >= tc.trainer.currentEpsilon() {
				continue
			}
			tc.trainer.store.UpdateRegret(key, menu, a, regret, reachOthers)
		}
		for i, a := range menu {
			tc.trainer.store.AddStrategy(key, menu, a, strategy[i], reachTarget)
		}
		return nodeUtil, nil
	}

	idx := sampleIndex(strategy, tc.sampler)
	a := menu[idx]
	return tc.traverse(s.Apply(tc.trainer.cfg.Menu, a), appendHistory(history, s.Street, a), target, depth+1, reachTarget, reachOthers*strategy[idx])
}

func (t *Trainer) shouldPrune(key string) bool {
	if t.iter.Load() < int64(t.cfg.Training.PruneAfterIteration) {
		return false
	}
	return t.store.IsPruned(key, t.cfg.Training.PruneThreshold)
}

func (tc *traversalCtx) infosetKey(s gametree.State, seat int, history infoset.ByStreet) (string, error) {
	hole := s.Hole[seat]
	inPosition := game.IsInPosition(len(s.Players), seat, priorActorSeat(s, seat))
	bucket, err := tc.trainer.bucket.BucketOf(s.Street, hole, s.Board, abstraction.PostflopInputs{
		InPosition:    inPosition,
		SPR:           sprFor(s, seat),
		RNG:           tc.sampler,
		EquitySamples: tc.trainer.cfg.Training.EquitySamplesPerBucket,
	})
	if err != nil {
		return "", err
	}
	return infoset.Encode(s.Street, bucket, history), nil
}

func priorActorSeat(s gametree.State, seat int) int {
	n := len(s.Players)
	return (seat - 1 + n) % n
}

func sprFor(s gametree.State, seat int) float64 {
	if s.Pot == 0 {
		return 0
	}
	return float64(s.EffectiveStack(seat)) / float64(s.Pot)
}

func cloneHistory(h infoset.ByStreet) infoset.ByStreet {
	out := make(infoset.ByStreet, len(h)+1)
	for k, v := range h {
		out[k] = v
	}
	return out
}

func appendHistory(h infoset.ByStreet, street game.Street, a actionabs.Action) infoset.ByStreet {
	out := cloneHistory(h)
	out[street] = append(append(actionabs.History{}, out[street]...), a)
	return out
}

// sampleIndex draws an action index from a (possibly unnormalized)
// probability vector, falling back to a uniform draw if the vector sums to
// zero or less.
func sampleIndex(strategy []float64, rng *rand.Rand) int {
	total := 0.0
	for _, p := range strategy {
		if p > 0 {
			total += p
		}
	}
	if total <= 0 {
		return rng.Intn(len(strategy))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, p := range strategy {
		if p <= 0 {
			continue
		}
		acc += p
		if r <= acc {
			return i
		}
	}
	return len(strategy) - 1
}
