package regretstore

import (
	"math"
	"sync"

	"github.com/lox/holdem-solver/internal/actionabs"
)

// RegretFloor is the minimum value a regret entry may take after a lazy
// discount is applied. It is far below the negative-regret pruning
// threshold so a pruned infoset's regrets stay pruned across a discount.
const RegretFloor = -1e9

// Record is one infoset's regret/strategy-sum state: parallel arrays indexed
// by position in Actions, with lazily-applied discount bookkeeping. Actions
// are fixed in the order first observed at this key; that order is part of
// the record's identity for strategy extraction.
type Record struct {
	mu sync.Mutex

	Actions     actionabs.Menu
	RegretSum   []float64
	StrategySum []float64

	lastRegretDiscount   float64
	lastStrategyDiscount float64
}

func newRecord(actions actionabs.Menu) *Record {
	return &Record{
		Actions:              actions,
		RegretSum:            make([]float64, len(actions)),
		StrategySum:          make([]float64, len(actions)),
		lastRegretDiscount:   1,
		lastStrategyDiscount: 1,
	}
}

// syncDiscount brings the record's arrays up to date with the store's
// current cumulative discount factors, per the lazy-accounting scheme:
// multiply by (current cumulative / record's last-synced cumulative), then
// record the new baseline. Must be called with mu held.
func (r *Record) syncDiscount(rCum, sCum float64) {
	if rCum != r.lastRegretDiscount {
		ratio := rCum / r.lastRegretDiscount
		for i := range r.RegretSum {
			r.RegretSum[i] = math.Max(r.RegretSum[i]*ratio, RegretFloor)
		}
		r.lastRegretDiscount = rCum
	}
	if sCum != r.lastStrategyDiscount {
		ratio := sCum / r.lastStrategyDiscount
		for i := range r.StrategySum {
			v := r.StrategySum[i] * ratio
			if v < 0 {
				v = 0
			}
			r.StrategySum[i] = v
		}
		r.lastStrategyDiscount = sCum
	}
}

// indexOf returns the position of action a within r.Actions, appending it if
// new. Must be called with mu held.
func (r *Record) indexOf(a actionabs.Action) int {
	for i, existing := range r.Actions {
		if existing.Equal(a) {
			return i
		}
	}
	r.Actions = append(r.Actions, a)
	r.RegretSum = append(r.RegretSum, 0)
	r.StrategySum = append(r.StrategySum, 0)
	return len(r.Actions) - 1
}

// strategyLocked computes the regret-matching+ strategy: proportional to
// positive regret, uniform if all regrets are non-positive. Must be called
// with mu held and after syncDiscount.
func (r *Record) strategyLocked() []float64 {
	n := len(r.Actions)
	out := make([]float64, n)
	var total float64
	for i, reg := range r.RegretSum {
		if reg > 0 {
			out[i] = reg
			total += reg
		}
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// allRegretsBelowLocked reports whether every action's regret sum is strictly
// below threshold, used by negative-regret pruning. Must be called with mu
// held and after syncDiscount.
func (r *Record) allRegretsBelowLocked(threshold float64) bool {
	for _, reg := range r.RegretSum {
		if reg >= threshold {
			return false
		}
	}
	return true
}
