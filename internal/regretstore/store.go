// Package regretstore implements the infoset-keyed regret/strategy-sum
// table: the mapping from infoset key to a parallel array of
// (abstract action -> cumulative regret, cumulative strategy probability).
// It supports lazy per-infoset discounting, atomic checkpoint snapshots, a
// dense backend implementing Store, and a read-only compact backend frozen
// from a snapshot, which does not implement Store (§4.5).
package regretstore

import (
	"hash/fnv"
	"sync"

	"github.com/lox/holdem-solver/internal/actionabs"
)

// Store is the contract DenseStore implements; CompactStore does not
// implement it.
type Store interface {
	// GetStrategy returns the regret-matching+ probability vector for K,
	// creating the record (with the given candidate menu) if it does not
	// yet exist.
	GetStrategy(key string, actions actionabs.Menu) []float64
	// RecordActions returns the record's action order (creating it with the
	// candidate menu if absent). Strategy vectors are indexed positionally
	// against this order, which may differ from a freshly-computed menu if
	// the record was created earlier under different call-site ordering.
	RecordActions(key string, actions actionabs.Menu) actionabs.Menu
	// UpdateRegret adds w*r to regrets[K][a].
	UpdateRegret(key string, actions actionabs.Menu, a actionabs.Action, regret, weight float64)
	// AddStrategy adds w*p to strategy_sum[K][a].
	AddStrategy(key string, actions actionabs.Menu, a actionabs.Action, prob, weight float64)
	// AverageStrategy normalizes strategy_sum[K]; uniform if the sum is zero.
	AverageStrategy(key string) []float64
	// Discount schedules a lazy per-infoset multiplication of both arrays.
	Discount(regretFactor, strategyFactor float64)
	// ResetRegrets zeros every regret array (CFR+ reset emulation).
	ResetRegrets()
	// IsPruned reports whether every action at key has regret below
	// threshold, used by negative-regret pruning. Returns false for a key
	// that has never been visited.
	IsPruned(key string, threshold float64) bool
	// Size returns the number of distinct infosets recorded.
	Size() int
	// Entries calls fn for every (key, record) pair, with all pending
	// lazy discounts fully materialized first. Used by Snapshot.
	Entries(fn func(key string, rec *Record))
}

const numShards = 64

type shard struct {
	mu      sync.RWMutex
	entries map[string]*Record
}

// DenseStore is the human-inspectable backend: per-infoset mapping from
// action to a float pair, sharded for concurrent access the way the
// traversal's worker goroutines hit it (grounded on the teacher's RegretTable
// in sdk/solver/regret.go, which is unsharded; sharding is added here).
type DenseStore struct {
	shards [numShards]shard

	discountMu sync.Mutex
	rFactorCum float64
	sFactorCum float64
}

// NewDenseStore returns an empty dense regret store.
func NewDenseStore() *DenseStore {
	s := &DenseStore{rFactorCum: 1, sFactorCum: 1}
	for i := range s.shards {
		s.shards[i].entries = make(map[string]*Record)
	}
	return s
}

func hashKey(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}

func (s *DenseStore) shardFor(key string) *shard {
	return &s.shards[hashKey(key)%numShards]
}

// getOrCreate returns the record at key, creating it with the given initial
// menu if absent, and brings it up to date with the current discount
// factors. The returned record's mutex is NOT held on return.
func (s *DenseStore) getOrCreate(key string, actions actionabs.Menu) *Record {
	sh := s.shardFor(key)

	sh.mu.RLock()
	rec, ok := sh.entries[key]
	sh.mu.RUnlock()
	if !ok {
		sh.mu.Lock()
		rec, ok = sh.entries[key]
		if !ok {
			rec = newRecord(append(actionabs.Menu{}, actions...))
			sh.entries[key] = rec
		}
		sh.mu.Unlock()
	}
	return rec
}

func (s *DenseStore) cumulativeFactors() (float64, float64) {
	s.discountMu.Lock()
	defer s.discountMu.Unlock()
	return s.rFactorCum, s.sFactorCum
}

func (s *DenseStore) GetStrategy(key string, actions actionabs.Menu) []float64 {
	rec := s.getOrCreate(key, actions)
	rCum, sCum := s.cumulativeFactors()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.syncDiscount(rCum, sCum)
	return rec.strategyLocked()
}

func (s *DenseStore) RecordActions(key string, actions actionabs.Menu) actionabs.Menu {
	rec := s.getOrCreate(key, actions)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append(actionabs.Menu{}, rec.Actions...)
}

func (s *DenseStore) UpdateRegret(key string, actions actionabs.Menu, a actionabs.Action, regret, weight float64) {
	rec := s.getOrCreate(key, actions)
	rCum, sCum := s.cumulativeFactors()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.syncDiscount(rCum, sCum)
	idx := rec.indexOf(a)
	rec.RegretSum[idx] += weight * regret
	if rec.RegretSum[idx] < RegretFloor {
		rec.RegretSum[idx] = RegretFloor
	}
}

func (s *DenseStore) AddStrategy(key string, actions actionabs.Menu, a actionabs.Action, prob, weight float64) {
	rec := s.getOrCreate(key, actions)
	rCum, sCum := s.cumulativeFactors()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.syncDiscount(rCum, sCum)
	idx := rec.indexOf(a)
	delta := weight * prob
	if delta < 0 {
		delta = 0
	}
	rec.StrategySum[idx] += delta
}

func (s *DenseStore) AverageStrategy(key string) []float64 {
	sh := s.shardFor(key)
	sh.mu.RLock()
	rec, ok := sh.entries[key]
	sh.mu.RUnlock()
	if !ok {
		return nil
	}

	rCum, sCum := s.cumulativeFactors()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.syncDiscount(rCum, sCum)

	n := len(rec.StrategySum)
	out := make([]float64, n)
	var total float64
	for _, v := range rec.StrategySum {
		total += v
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, v := range rec.StrategySum {
		out[i] = v / total
	}
	return out
}

func (s *DenseStore) Discount(regretFactor, strategyFactor float64) {
	s.discountMu.Lock()
	defer s.discountMu.Unlock()
	s.rFactorCum *= regretFactor
	s.sFactorCum *= strategyFactor
}

func (s *DenseStore) ResetRegrets() {
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for _, rec := range sh.entries {
			rec.mu.Lock()
			for j := range rec.RegretSum {
				rec.RegretSum[j] = 0
			}
			rec.mu.Unlock()
		}
		sh.mu.Unlock()
	}
}

func (s *DenseStore) IsPruned(key string, threshold float64) bool {
	sh := s.shardFor(key)
	sh.mu.RLock()
	rec, ok := sh.entries[key]
	sh.mu.RUnlock()
	if !ok {
		return false
	}
	rCum, sCum := s.cumulativeFactors()
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.syncDiscount(rCum, sCum)
	return rec.allRegretsBelowLocked(threshold)
}

func (s *DenseStore) Size() int {
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		total += len(sh.entries)
		sh.mu.RUnlock()
	}
	return total
}

// Entries materializes all pending lazy discounts (so the snapshot is
// numerically current, per §3's lifecycle rule) and then calls fn for every
// record.
func (s *DenseStore) Entries(fn func(key string, rec *Record)) {
	rCum, sCum := s.cumulativeFactors()
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		keys := make([]string, 0, len(sh.entries))
		for k := range sh.entries {
			keys = append(keys, k)
		}
		sh.mu.RUnlock()

		for _, k := range keys {
			sh.mu.RLock()
			rec := sh.entries[k]
			sh.mu.RUnlock()

			rec.mu.Lock()
			rec.syncDiscount(rCum, sCum)
			rec.mu.Unlock()

			fn(k, rec)
		}
	}
}
