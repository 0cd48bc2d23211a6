// Package resolve implements the real-time subgame resolver: given a live
// decision point, it builds a depth-limited subgame rooted at that node,
// warm-starts it from the blueprint's regret-matching+ probabilities, and
// runs CFR for a wall-clock time budget with a KL-to-blueprint
// regularization term that keeps the refined strategy from drifting too far
// from blueprint play (spec §4.11). Grounded on the teacher's
// sdk/solver/traversal.go traversal shape; the KL penalty and wall-clock
// loop are new, since no subgame resolver exists anywhere in the teacher.
package resolve

import (
	"context"
	"math"
	"math/rand"

	"github.com/coder/quartz"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/blueprint"
	"github.com/lox/holdem-solver/internal/game"
	"github.com/lox/holdem-solver/internal/gametree"
	"github.com/lox/holdem-solver/internal/infoset"
	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/poker"
)

// LambdaByStreet are the default KL-penalty weights per street (spec
// §4.11 step 3: 0.30/0.50/0.70 for flop/turn/river; a preflop resolve uses
// the flop weight).
var LambdaByStreet = map[game.Street]float64{
	game.Preflop: 0.30,
	game.Flop:    0.30,
	game.Turn:    0.50,
	game.River:   0.70,
}

// Config bundles the resolver's tunables.
type Config struct {
	LookaheadStreets int
	TimeBudgetMs     int
	MinIterations    int
	OOPBonus         float64
	ClipMin          float64
	SampleBoards     bool
	EquitySamples    int
}

// DefaultConfig matches the spec's worked defaults.
func DefaultConfig() Config {
	return Config{
		LookaheadStreets: 1,
		TimeBudgetMs:     200,
		MinIterations:    50,
		OOPBonus:         0.10,
		ClipMin:          1e-6,
		SampleBoards:     false,
		EquitySamples:    200,
	}
}

// Result is the resolver's output for the decision point at the root.
type Result struct {
	Actions      actionabs.Menu
	Probs        []float64
	Iterations   int
	Fallback     bool
	KLDivergence float64
}

// Resolver holds the blueprint and card abstraction a live solve warm-starts
// from.
type Resolver struct {
	Blueprint *blueprint.Blueprint
	Bucket    *abstraction.Bucketer
	MenuCfg   actionabs.MenuConfig
	Clock     quartz.Clock
}

// NewResolver constructs a Resolver using the real wall clock.
func NewResolver(bp *blueprint.Blueprint, bucket *abstraction.Bucketer, menuCfg actionabs.MenuConfig) *Resolver {
	return &Resolver{Blueprint: bp, Bucket: bucket, MenuCfg: menuCfg, Clock: quartz.NewReal()}
}

// Resolve runs a depth-limited, KL-regularized CFR solve rooted at root for
// the target seat, returning a refined action-probability distribution.
func (r *Resolver) Resolve(ctx context.Context, root gametree.State, history infoset.ByStreet, target int, cfg Config, rng *rand.Rand) (Result, error) {
	store := regretstore.NewDenseStore()
	rootStreet := root.Street
	rootKey, err := r.keyFor(root, target, history)
	if err != nil {
		return Result{}, err
	}
	menu := actionabs.BuildMenu(r.MenuCfg, root.Geometry(target))
	if bpMenu, bpProbs, ok := r.Blueprint.Strategy(rootKey); ok {
		r.warmStart(store, rootKey, bpMenu, bpProbs)
		menu = bpMenu
	}

	res := &resolveCtx{
		resolver:   r,
		store:      store,
		target:     target,
		maxStreet:  clampStreet(rootStreet, cfg.LookaheadStreets),
		cfg:        cfg,
		rng:        rng,
	}

	start := r.Clock.Now()
	iterations := 0
	var klSum float64
loop:
	for {
		elapsedMs := r.Clock.Now().Sub(start).Milliseconds()
		if iterations >= cfg.MinIterations && elapsedMs >= int64(cfg.TimeBudgetMs) {
			break
		}
		select {
		case <-ctx.Done():
			// The caller's deadline fired before MinIterations was reached;
			// the result below falls back to the blueprint rather than
			// returning an under-trained subgame strategy.
			break loop
		default:
		}
		kl, err := res.iterate(root, history, target, 0, 1.0, 1.0)
		if err != nil {
			return Result{}, err
		}
		klSum += kl
		iterations++
	}

	fallback := iterations < cfg.MinIterations
	probs := store.AverageStrategy(rootKey)
	if fallback || probs == nil {
		if bpMenu, bpProbs, ok := r.Blueprint.Strategy(rootKey); ok {
			return Result{Actions: bpMenu, Probs: bpProbs, Iterations: iterations, Fallback: true}, nil
		}
		uniform := make([]float64, len(menu))
		for i := range uniform {
			uniform[i] = 1.0 / float64(len(menu))
		}
		return Result{Actions: menu, Probs: uniform, Iterations: iterations, Fallback: true}, nil
	}

	avgKL := 0.0
	if iterations > 0 {
		avgKL = klSum / float64(iterations)
	}
	return Result{
		Actions:      store.RecordActions(rootKey, menu),
		Probs:        probs,
		Iterations:   iterations,
		Fallback:     false,
		KLDivergence: avgKL,
	}, nil
}

func clampStreet(root game.Street, lookahead int) game.Street {
	s := root
	for i := 0; i < lookahead; i++ {
		if s.IsLast() {
			break
		}
		s = s.Next()
	}
	return s
}

// warmStart seeds RegretSum with the blueprint's average-strategy
// probabilities. Regret-matching+ normalizes positive regrets
// proportionally, so a record whose regrets already sit in blueprint
// proportions reproduces the blueprint strategy on the very first read,
// satisfying the "copy blueprint probabilities into the initial regret
// arrays" warm-start requirement without needing a separate seeding API on
// Store.
func (r *Resolver) warmStart(store *regretstore.DenseStore, key string, menu actionabs.Menu, probs []float64) {
	for i, a := range menu {
		p := 0.0
		if i < len(probs) {
			p = probs[i]
		}
		if p > 0 {
			store.UpdateRegret(key, menu, a, p*1000, 1.0)
		}
	}
}

type resolveCtx struct {
	resolver  *Resolver
	store     *regretstore.DenseStore
	target    int
	maxStreet game.Street
	cfg       Config
	rng       *rand.Rand
}

func (r *Resolver) keyFor(s gametree.State, seat int, history infoset.ByStreet) (string, error) {
	hole := s.Hole[seat]
	bucket, err := r.Bucket.BucketOf(s.Street, hole, s.Board, abstraction.PostflopInputs{
		InPosition: game.IsInPosition(len(s.Players), seat, (seat-1+len(s.Players))%len(s.Players)),
		SPR:        sprFor(s, seat),
	})
	if err != nil {
		return "", err
	}
	return infoset.Encode(s.Street, bucket, history), nil
}

func sprFor(s gametree.State, seat int) float64 {
	if s.Pot == 0 {
		return 0
	}
	return float64(s.EffectiveStack(seat)) / float64(s.Pot)
}

// iterate runs one CFR pass over the subgame, returning the KL-to-blueprint
// penalty accumulated at the root decision node (for reporting only; the
// penalty is subtracted from every visited node's utility internally).
func (rc *resolveCtx) iterate(s gametree.State, history infoset.ByStreet, target, depth int, reachTarget, reachOthers float64) (float64, error) {
	if s.IsComplete() || pastLookahead(s.Street, rc.maxStreet) {
		return 0, nil
	}

	if s.ActivePlayer() == -1 {
		if s.Street.IsLast() {
			return 0, nil
		}
		next := s.NextStreet(rc.rng)
		return rc.iterate(next, withStreet(history, next.Street), target, depth+1, reachTarget, reachOthers)
	}

	current := s.ActivePlayer()
	geometry := s.Geometry(current)
	menu := actionabs.BuildMenu(rc.resolver.MenuCfg, geometry)
	if len(menu) == 0 {
		return 0, nil
	}

	key, err := rc.resolver.keyFor(s, current, history)
	if err != nil {
		return 0, err
	}
	menu = rc.store.RecordActions(key, menu)
	strategy := rc.store.GetStrategy(key, menu)

	klPenalty := rc.klPenalty(s.Street, key, menu, strategy, current)

	if current == target {
		util := make([]float64, len(menu))
		nodeUtil := 0.0
		for i, a := range menu {
			next := s.Apply(rc.resolver.MenuCfg, a)
			var u float64
			if next.IsComplete() || pastLookahead(next.Street, rc.maxStreet) {
				u = rc.leafUtility(next, target)
			} else {
				_, err := rc.iterate(next, appendHist(history, s.Street, a), target, depth+1, reachTarget*strategy[i], reachOthers)
				if err != nil {
					return 0, err
				}
				u = rc.leafUtility(next, target)
			}
			util[i] = u - klPenalty
			nodeUtil += strategy[i] * util[i]
		}
		for i, a := range menu {
			regret := util[i] - nodeUtil
			rc.store.UpdateRegret(key, menu, a, regret, reachOthers)
			rc.store.AddStrategy(key, menu, a, strategy[i], reachTarget)
		}
		return klPenalty, nil
	}

	idx := sampleIndex(strategy, rc.rng)
	a := menu[idx]
	next := s.Apply(rc.resolver.MenuCfg, a)
	if next.IsComplete() || pastLookahead(next.Street, rc.maxStreet) {
		return klPenalty, nil
	}
	return rc.iterate(next, appendHist(history, s.Street, a), target, depth+1, reachTarget, reachOthers*strategy[idx])
}

// leafUtility evaluates a node at or past the lookahead depth limit using a
// Monte-Carlo equity estimate scaled to the pot, standing in for "averaged
// blueprint utilities" when no dedicated leaf evaluator is supplied (spec
// §4.11 step 1, option (a)/(b)).
func (rc *resolveCtx) leafUtility(s gametree.State, target int) float64 {
	if s.IsComplete() {
		return gametree.UtilityForPlayer(s, target)
	}
	samples := rc.cfg.EquitySamples
	if samples <= 0 {
		samples = 200
	}
	equity := poker.EstimateEquity(s.Hole[target], s.Board, poker.UniformRange{}, samples, rc.rng)
	return equity*float64(s.Pot) - float64(s.Players[target].TotalBet)
}

// klPenalty computes L_KL(K) = lambda(S, inPosition) * sum_a pi(a|K) *
// log((pi(a|K)+eps0) / (max(pi_blueprint(a|K), clip_min)+eps0)).
func (rc *resolveCtx) klPenalty(street game.Street, key string, menu actionabs.Menu, strategy []float64, seat int) float64 {
	bpMenu, bpProbs, ok := rc.resolver.Blueprint.Strategy(key)
	if !ok {
		return 0
	}
	lambda := LambdaByStreet[street]
	if !rc.isInPosition(seat) {
		lambda += rc.cfg.OOPBonus
	}

	const eps0 = 1e-9
	clipMin := rc.cfg.ClipMin
	if clipMin <= 0 {
		clipMin = 1e-6
	}

	var kl float64
	for i, a := range menu {
		p := strategy[i]
		if p <= 0 {
			continue
		}
		bp := lookupProb(bpMenu, bpProbs, a)
		if bp < clipMin {
			bp = clipMin
		}
		kl += p * math.Log((p+eps0)/(bp+eps0))
	}
	return lambda * kl
}

func (rc *resolveCtx) isInPosition(seat int) bool {
	// Coarse heuristic: every seat other than seat 0 counts as in position
	// (heads-up, the higher seat index). The state's Button is not consulted.
	return seat > 0
}

func lookupProb(menu actionabs.Menu, probs []float64, a actionabs.Action) float64 {
	for i, m := range menu {
		if m.Equal(a) {
			if i < len(probs) {
				return probs[i]
			}
		}
	}
	return 0
}

func pastLookahead(street, maxStreet game.Street) bool {
	return street > maxStreet
}

func withStreet(h infoset.ByStreet, street game.Street) infoset.ByStreet {
	out := make(infoset.ByStreet, len(h)+1)
	for k, v := range h {
		out[k] = v
	}
	if _, ok := out[street]; !ok {
		out[street] = actionabs.History{}
	}
	return out
}

func appendHist(h infoset.ByStreet, street game.Street, a actionabs.Action) infoset.ByStreet {
	out := make(infoset.ByStreet, len(h)+1)
	for k, v := range h {
		out[k] = v
	}
	out[street] = append(append(actionabs.History{}, out[street]...), a)
	return out
}

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
