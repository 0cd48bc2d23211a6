package blueprint

import (
	"path/filepath"
	"testing"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/regretstore"
)

func TestBuildSaveLoadRoundTrip(t *testing.T) {
	store := regretstore.NewDenseStore()
	menu := actionabs.Menu{actionabs.NewFold(), actionabs.NewCheckCall()}
	store.UpdateRegret("v2:PREFLOP:0:", menu, actionabs.NewCheckCall(), 5, 1.0)
	store.AddStrategy("v2:PREFLOP:0:", menu, actionabs.NewCheckCall(), 0.8, 1.0)

	bp := Build(store, 1000, "abc123", 6)
	if len(bp.Strategies) != 1 {
		t.Fatalf("expected 1 strategy, got %d", len(bp.Strategies))
	}

	path := filepath.Join(t.TempDir(), "blueprint.json")
	if err := bp.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	actions, strategy, ok := loaded.Strategy("v2:PREFLOP:0:")
	if !ok {
		t.Fatal("expected strategy to be present")
	}
	if len(actions) != len(strategy) {
		t.Errorf("actions/strategy length mismatch: %d vs %d", len(actions), len(strategy))
	}
}

func TestStrategyMissingKeyReturnsFalse(t *testing.T) {
	bp := &Blueprint{Actions: map[string]actionabs.Menu{}, Strategies: map[string][]float64{}}
	_, _, ok := bp.Strategy("v2:RIVER:99:")
	if ok {
		t.Error("expected missing key to report not found")
	}
}
