package regretstore

import "github.com/lox/holdem-solver/internal/actionabs"

// EntrySnapshot is the serializable form of one infoset's record. Discounts
// are fully materialized before a snapshot is taken (see Entries), so no
// discount bookkeeping needs to round-trip.
type EntrySnapshot struct {
	Actions     actionabs.Menu `json:"actions"`
	RegretSum   []float64      `json:"regret_sum"`
	StrategySum []float64      `json:"strategy_sum"`
}

// Snapshot is the serializable form of an entire dense store.
type Snapshot struct {
	Entries map[string]EntrySnapshot `json:"entries"`
}

// Snapshot serializes the entire store, with all pending lazy discounts
// fully materialized (spec §3's checkpoint lifecycle rule).
func (s *DenseStore) Snapshot() Snapshot {
	out := Snapshot{Entries: make(map[string]EntrySnapshot)}
	s.Entries(func(key string, rec *Record) {
		out.Entries[key] = EntrySnapshot{
			Actions:     append(actionabs.Menu{}, rec.Actions...),
			RegretSum:   append([]float64{}, rec.RegretSum...),
			StrategySum: append([]float64{}, rec.StrategySum...),
		}
	})
	return out
}

// Restore replaces the store's contents with a previously-taken snapshot.
// The discount cumulative factors reset to 1 since the snapshot's values are
// already fully materialized.
func (s *DenseStore) Restore(snap Snapshot) {
	for i := range s.shards {
		s.shards[i].mu.Lock()
		s.shards[i].entries = make(map[string]*Record)
		s.shards[i].mu.Unlock()
	}
	s.discountMu.Lock()
	s.rFactorCum = 1
	s.sFactorCum = 1
	s.discountMu.Unlock()

	for key, entry := range snap.Entries {
		rec := newRecord(append(actionabs.Menu{}, entry.Actions...))
		copy(rec.RegretSum, entry.RegretSum)
		copy(rec.StrategySum, entry.StrategySum)
		sh := s.shardFor(key)
		sh.mu.Lock()
		sh.entries[key] = rec
		sh.mu.Unlock()
	}
}

// Delta computes, for every key present in after, the difference
// (after - before) of each record's RegretSum and StrategySum, entry by
// entry; a key absent from before is copied whole, and a key present only
// in before is left out. Used by the parallel coordinator: a worker snapshots before
// running its assigned iterations, then reports this delta instead of its
// full local table.
func Delta(before, after Snapshot) Snapshot {
	out := Snapshot{Entries: make(map[string]EntrySnapshot)}
	for key, afterEntry := range after.Entries {
		beforeEntry, had := before.Entries[key]
		if !had {
			out.Entries[key] = afterEntry
			continue
		}
		diff := EntrySnapshot{
			Actions:     afterEntry.Actions,
			RegretSum:   make([]float64, len(afterEntry.RegretSum)),
			StrategySum: make([]float64, len(afterEntry.StrategySum)),
		}
		for i := range afterEntry.RegretSum {
			var b float64
			if i < len(beforeEntry.RegretSum) {
				b = beforeEntry.RegretSum[i]
			}
			diff.RegretSum[i] = afterEntry.RegretSum[i] - b
		}
		for i := range afterEntry.StrategySum {
			var b float64
			if i < len(beforeEntry.StrategySum) {
				b = beforeEntry.StrategySum[i]
			}
			diff.StrategySum[i] = afterEntry.StrategySum[i] - b
		}
		out.Entries[key] = diff
	}
	return out
}

// MergeDelta adds a delta snapshot into the store by summation (not
// averaging), preserving CFR convergence properties under any merge order
// (spec §4.8 step 4).
func (s *DenseStore) MergeDelta(delta Snapshot) {
	for key, entry := range delta.Entries {
		rec := s.getOrCreate(key, entry.Actions)
		rec.mu.Lock()
		for i, a := range entry.Actions {
			idx := rec.indexOf(a)
			if i < len(entry.RegretSum) {
				rec.RegretSum[idx] += entry.RegretSum[i]
				if rec.RegretSum[idx] < RegretFloor {
					rec.RegretSum[idx] = RegretFloor
				}
			}
			if i < len(entry.StrategySum) {
				v := rec.StrategySum[idx] + entry.StrategySum[i]
				if v < 0 {
					v = 0
				}
				rec.StrategySum[idx] = v
			}
		}
		rec.mu.Unlock()
	}
}
