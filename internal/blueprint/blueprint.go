// Package blueprint exports and imports the averaged strategy produced by a
// completed (or checkpointed) solver run, in the compact form real-time
// resolve and any runtime consumer need: per-infoset action order plus
// average strategy. Grounded on the teacher's sdk/solver/blueprint.go,
// generalized from a single strategy vector per key to also carry the
// action menu each vector is indexed against (the dense store's per-record
// action order is not globally fixed, unlike the teacher's single static
// AbstractionConfig.BetSizing ladder).
package blueprint

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/regretstore"
)

const fileVersion = 1

// Blueprint is the exported, immutable result of a solver run.
type Blueprint struct {
	Version         int       `json:"version"`
	GeneratedAt     time.Time `json:"generated_at"`
	Iterations      int64     `json:"iterations"`
	AbstractionHash string    `json:"abstraction_hash"`
	NumPlayers      int       `json:"num_players"`

	// Actions maps infoset key -> the action order AverageStrategy's vector
	// is indexed against.
	Actions map[string]actionabs.Menu `json:"actions"`
	// Strategies maps infoset key -> average strategy, positionally aligned
	// with Actions[key].
	Strategies map[string][]float64 `json:"strategies"`
}

// Build exports every infoset currently in store into a Blueprint.
func Build(store regretstore.Store, iterations int64, abstractionHash string, numPlayers int) *Blueprint {
	bp := &Blueprint{
		Version:         fileVersion,
		GeneratedAt:      time.Now().UTC(),
		Iterations:      iterations,
		AbstractionHash: abstractionHash,
		NumPlayers:      numPlayers,
		Actions:         make(map[string]actionabs.Menu),
		Strategies:      make(map[string][]float64),
	}
	store.Entries(func(key string, rec *regretstore.Record) {
		bp.Actions[key] = rec.Actions
		bp.Strategies[key] = store.AverageStrategy(key)
	})
	return bp
}

// Save writes the blueprint to disk in JSON format.
func (b *Blueprint) Save(path string) error {
	if b == nil {
		return errors.New("blueprint: nil blueprint")
	}
	if path == "" {
		return errors.New("blueprint: destination path is required")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// Load reads a blueprint from disk.
func Load(path string) (*Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var bp Blueprint
	if err := json.NewDecoder(f).Decode(&bp); err != nil {
		return nil, err
	}
	if bp.Version != fileVersion {
		return nil, errors.New("blueprint: unsupported blueprint version")
	}
	return &bp, nil
}

// Strategy returns the stored average strategy and action order for the
// given infoset key.
func (b *Blueprint) Strategy(key string) (actionabs.Menu, []float64, bool) {
	if b == nil {
		return nil, nil, false
	}
	actions, ok := b.Actions[key]
	if !ok {
		return nil, nil, false
	}
	return actions, b.Strategies[key], true
}
