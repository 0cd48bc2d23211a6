package regretstore

import (
	"testing"

	"github.com/lox/holdem-solver/internal/actionabs"
)

func testMenu() actionabs.Menu {
	return actionabs.Menu{actionabs.NewFold(), actionabs.NewCheckCall(), actionabs.NewBet(0.5), actionabs.NewAllIn()}
}

func TestGetStrategyUniformWhenUnvisited(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	strategy := store.GetStrategy("k1", menu)
	if len(strategy) != len(menu) {
		t.Fatalf("expected %d actions, got %d", len(menu), len(strategy))
	}
	for _, p := range strategy {
		if p != 0.25 {
			t.Errorf("expected uniform 0.25, got %v", p)
		}
	}
}

func TestUpdateRegretMakesStrategyFollowPositiveRegret(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	store.GetStrategy("k1", menu)
	store.UpdateRegret("k1", menu, menu[2], 10, 1)
	strategy := store.GetStrategy("k1", menu)
	if strategy[2] != 1.0 {
		t.Errorf("expected all probability mass on the only positive-regret action, got %v", strategy)
	}
}

func TestStrategySumNeverNegative(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	store.AddStrategy("k1", menu, menu[0], -5, 1)
	sum := store.AverageStrategy("k1")
	for _, v := range sum {
		if v < 0 {
			t.Errorf("strategy_sum went negative: %v", sum)
		}
	}
}

func TestDiscountAppliesLazilyAcrossReads(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	store.UpdateRegret("k1", menu, menu[2], 100, 1)
	store.Discount(0.5, 1.0)
	store.UpdateRegret("k2", menu, menu[2], 100, 1) // touches a different key, must not affect k1 early
	strategy := store.GetStrategy("k1", menu)
	if strategy[2] != 1.0 {
		t.Fatalf("regret-matching+ shape should be unaffected by a uniform discount: %v", strategy)
	}

	store.Discount(0.5, 1.0)
	// The store's cumulative regret factor is now 0.5 twice over; k1 has synced
	// only the first 0.5 and picks up the second lazily on its next read.
	rCum, _ := store.cumulativeFactors()
	if rCum != 0.25 {
		t.Errorf("expected cumulative regret factor 0.25, got %v", rCum)
	}
}

func TestIsPrunedRequiresAllRegretsBelowThreshold(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	store.UpdateRegret("k1", menu, menu[0], -4e8, 1)
	store.UpdateRegret("k1", menu, menu[1], -4e8, 1)
	store.UpdateRegret("k1", menu, menu[2], -4e8, 1)
	store.UpdateRegret("k1", menu, menu[3], 1, 1) // one positive regret breaks pruning
	if store.IsPruned("k1", -3e8) {
		t.Error("should not be pruned while one action has positive regret")
	}
	store.UpdateRegret("k1", menu, menu[3], -4e8-1, 1)
	if !store.IsPruned("k1", -3e8) {
		t.Error("expected pruned once every action is below threshold")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	store.UpdateRegret("k1", menu, menu[2], 42, 1)
	store.AddStrategy("k1", menu, menu[1], 0.7, 1)

	snap := store.Snapshot()

	restored := NewDenseStore()
	restored.Restore(snap)
	if restored.Size() != 1 {
		t.Fatalf("expected 1 entry after restore, got %d", restored.Size())
	}
	got := restored.AverageStrategy("k1")
	want := store.AverageStrategy("k1")
	if len(got) != len(want) {
		t.Fatalf("strategy length mismatch")
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestDeltaAndMerge(t *testing.T) {
	store := NewDenseStore()
	menu := testMenu()
	before := store.Snapshot()

	store.UpdateRegret("k1", menu, menu[2], 10, 1)
	after := store.Snapshot()

	delta := Delta(before, after)

	target := NewDenseStore()
	target.MergeDelta(delta)
	strategy := target.GetStrategy("k1", menu)
	if strategy[2] != 1.0 {
		t.Errorf("expected delta merge to reproduce the regret update, got %v", strategy)
	}
}

func TestWorkConservationOfDeltaMergeIsOrderIndependent(t *testing.T) {
	storeA := NewDenseStore()
	storeB := NewDenseStore()
	menu := testMenu()

	beforeA := storeA.Snapshot()
	storeA.UpdateRegret("k1", menu, menu[2], 7, 1)
	deltaA := Delta(beforeA, storeA.Snapshot())

	beforeB := storeB.Snapshot()
	storeB.UpdateRegret("k1", menu, menu[2], 3, 1)
	deltaB := Delta(beforeB, storeB.Snapshot())

	merged1 := NewDenseStore()
	merged1.MergeDelta(deltaA)
	merged1.MergeDelta(deltaB)

	merged2 := NewDenseStore()
	merged2.MergeDelta(deltaB)
	merged2.MergeDelta(deltaA)

	s1 := merged1.Snapshot().Entries["k1"].RegretSum
	s2 := merged2.Snapshot().Entries["k1"].RegretSum
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Errorf("merge order dependence at index %d: %v vs %v", i, s1, s2)
		}
	}
}
