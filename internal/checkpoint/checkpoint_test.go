package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/internal/solverconfig"
)

func buildStore() *regretstore.DenseStore {
	store := regretstore.NewDenseStore()
	menu := actionabs.Menu{actionabs.NewFold(), actionabs.NewCheckCall()}
	store.UpdateRegret("v2:PREFLOP:0:", menu, actionabs.NewCheckCall(), 12.5, 1.0)
	store.AddStrategy("v2:PREFLOP:0:", menu, actionabs.NewCheckCall(), 0.7, 1.0)
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ckpt")
	store := buildStore()
	meta := Metadata{
		Iteration:       42,
		AbstractionHash: "deadbeef",
		NumPlayers:      6,
		Training:        solverconfig.DefaultTrainingConfig(),
	}
	if err := Save(dir, meta, store.Snapshot(), Stats{NodesVisited: 100}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	gotMeta, snap, stats, err := Load(dir, "deadbeef", 6)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if gotMeta.Iteration != 42 {
		t.Errorf("Iteration = %d, want 42", gotMeta.Iteration)
	}
	if stats.NodesVisited != 100 {
		t.Errorf("NodesVisited = %d, want 100", stats.NodesVisited)
	}
	if len(snap.Entries) == 0 {
		t.Error("expected restored snapshot to have entries")
	}
}

func TestLoadRejectsAbstractionHashMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ckpt")
	store := buildStore()
	meta := Metadata{AbstractionHash: "aaaa", NumPlayers: 6}
	if err := Save(dir, meta, store.Snapshot(), Stats{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, _, _, err := Load(dir, "bbbb", 6); err == nil {
		t.Error("expected hash mismatch to be rejected")
	}
}

func TestLoadRejectsPlayerCountMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ckpt")
	store := buildStore()
	meta := Metadata{AbstractionHash: "aaaa", NumPlayers: 6}
	if err := Save(dir, meta, store.Snapshot(), Stats{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, _, _, err := Load(dir, "aaaa", 2); err == nil {
		t.Error("expected player-count mismatch to be rejected")
	}
}

func TestExistsReflectsMetadataPresence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "ckpt")
	if Exists(dir) {
		t.Error("expected no checkpoint to exist yet")
	}
	store := buildStore()
	if err := Save(dir, Metadata{AbstractionHash: "a", NumPlayers: 2}, store.Snapshot(), Stats{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(dir) {
		t.Error("expected checkpoint to exist after Save")
	}
}
