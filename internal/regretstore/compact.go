package regretstore

import (
	"fmt"

	chd "github.com/opencoff/go-chd"

	"github.com/lox/holdem-solver/internal/actionabs"
)

// CompactStore is the memory-constrained backend: once an abstraction is
// fixed and a build/training pass has discovered its finite key set, the
// keys are perfect-hashed with go-chd to dense slots holding parallel
// 32-bit action-index and 32-bit float arrays. Precision loss against the
// dense backend's float64 is empirically negligible for MCCFR, whose
// regret-matching+ strategy depends only on relative magnitudes.
//
// CompactStore is built once, from a finished DenseStore (via Freeze), and
// is read-only. It offers AverageStrategy, Actions and Size only and does
// not implement Store; the blueprint export and the resolver both read from
// a DenseStore, not from a CompactStore.
type CompactStore struct {
	hash *chd.CHD

	keys        []string
	actions     [][]int32 // action tokens encoded as (kind<<16 | potFracCenti)
	regretSum   [][]float32
	strategySum [][]float32
}

func encodeActionToken(a actionabs.Action) int32 {
	switch a.Kind {
	case actionabs.Bet:
		return int32(actionabs.Bet)<<16 | int32(a.PotFrac*100)
	default:
		return int32(a.Kind) << 16
	}
}

func decodeActionToken(tok int32) actionabs.Action {
	kind := actionabs.Kind(tok >> 16)
	if kind == actionabs.Bet {
		return actionabs.NewBet(float64(tok&0xFFFF) / 100)
	}
	switch kind {
	case actionabs.Fold:
		return actionabs.NewFold()
	case actionabs.CheckCall:
		return actionabs.NewCheckCall()
	case actionabs.AllIn:
		return actionabs.NewAllIn()
	default:
		return actionabs.NewCheckCall()
	}
}

// Freeze builds a CompactStore from a snapshot of a (presumably converged or
// checkpoint-ready) dense store.
func Freeze(snap Snapshot) (*CompactStore, error) {
	keys := make([]string, 0, len(snap.Entries))
	for k := range snap.Entries {
		keys = append(keys, k)
	}

	builder := chd.NewBuilder()
	for _, k := range keys {
		builder.Add([]byte(k))
	}
	h, err := builder.Build(0.9)
	if err != nil {
		return nil, fmt.Errorf("regretstore: building perfect hash over %d keys: %w", len(keys), err)
	}

	cs := &CompactStore{
		hash:        h,
		keys:        make([]string, len(keys)),
		actions:     make([][]int32, len(keys)),
		regretSum:   make([][]float32, len(keys)),
		strategySum: make([][]float32, len(keys)),
	}
	for _, k := range keys {
		slot := h.Find([]byte(k))
		entry := snap.Entries[k]
		cs.keys[slot] = k
		acts := make([]int32, len(entry.Actions))
		regrets := make([]float32, len(entry.RegretSum))
		strategy := make([]float32, len(entry.StrategySum))
		for i, a := range entry.Actions {
			acts[i] = encodeActionToken(a)
		}
		for i, v := range entry.RegretSum {
			regrets[i] = float32(v)
		}
		for i, v := range entry.StrategySum {
			strategy[i] = float32(v)
		}
		cs.actions[slot] = acts
		cs.regretSum[slot] = regrets
		cs.strategySum[slot] = strategy
	}
	return cs, nil
}

func (c *CompactStore) slotFor(key string) (int, bool) {
	slot := int(c.hash.Find([]byte(key)))
	if slot < 0 || slot >= len(c.keys) || c.keys[slot] != key {
		return 0, false
	}
	return slot, true
}

// AverageStrategy mirrors DenseStore.AverageStrategy, reading from the
// frozen compact arrays.
func (c *CompactStore) AverageStrategy(key string) []float64 {
	slot, ok := c.slotFor(key)
	if !ok {
		return nil
	}
	sums := c.strategySum[slot]
	out := make([]float64, len(sums))
	var total float64
	for _, v := range sums {
		total += float64(v)
	}
	if total <= 0 {
		uniform := 1.0 / float64(len(sums))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, v := range sums {
		out[i] = float64(v) / total
	}
	return out
}

// Actions returns the action menu stored for key.
func (c *CompactStore) Actions(key string) actionabs.Menu {
	slot, ok := c.slotFor(key)
	if !ok {
		return nil
	}
	menu := make(actionabs.Menu, len(c.actions[slot]))
	for i, tok := range c.actions[slot] {
		menu[i] = decodeActionToken(tok)
	}
	return menu
}

// Size returns the number of infosets in the frozen store.
func (c *CompactStore) Size() int { return len(c.keys) }
