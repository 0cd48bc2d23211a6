// Package checkpoint persists and restores solver progress: a metadata
// file gating restores on abstraction hash and player count, a regret-store
// snapshot, and a small stats file, written atomically so a crash mid-save
// never leaves a corrupt checkpoint behind (spec §4.9, §7). Grounded on the
// teacher's sdk/solver/checkpoint.go temp-file-then-rename pattern,
// generalized to three files and to the sharded DenseStore this module uses
// in place of the teacher's unsharded RegretTable.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/holdem-solver/internal/regretstore"
	"github.com/lox/holdem-solver/internal/solverconfig"
)

const fileVersion = 1

const (
	metadataFile = "metadata.json"
	regretsFile  = "regrets.json"
	statsFile    = "stats.json"
)

// Metadata is the small, quickly-readable file that gates a restore: it
// must match the caller's live abstraction hash and player count before the
// (possibly large) regret file is even opened.
type Metadata struct {
	Version         int       `json:"version"`
	GeneratedAt     time.Time `json:"generated_at"`
	Iteration       int64     `json:"iteration"`
	AbstractionHash string    `json:"abstraction_hash"`
	NumPlayers      int       `json:"num_players"`
	Training        solverconfig.TrainingConfig `json:"training"`
}

// Stats is the small instrumentation file written alongside a checkpoint.
type Stats struct {
	NodesVisited  int64         `json:"nodes_visited"`
	TerminalNodes int64         `json:"terminal_nodes"`
	MaxDepth      int           `json:"max_depth"`
	IterationTime time.Duration `json:"iteration_time_ns"`
}

// Save atomically writes all three checkpoint files to dir. Each file is
// written to a temp path in the same directory, fsynced, then renamed into
// place, so a reader never observes a half-written file; the three-file set
// itself is not atomic as a whole (a crash between file renames can leave
// the regret and stats files ahead of the metadata), so Load treats a missing or unreadable regret
// file as a hard failure rather than silently falling back.
func Save(dir string, meta Metadata, snap regretstore.Snapshot, stats Stats) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: creating directory %s: %w", dir, err)
	}
	meta.Version = fileVersion
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}

	if err := writeAtomic(filepath.Join(dir, regretsFile), snap); err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(dir, statsFile), stats); err != nil {
		return err
	}
	// Metadata is written last: its presence is the signal that the other
	// two files are complete and consistent.
	if err := writeAtomic(filepath.Join(dir, metadataFile), meta); err != nil {
		return err
	}
	return nil
}

func writeAtomic(path string, payload any) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("checkpoint: creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: encoding %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("checkpoint: persisting %s: %w", path, err)
	}
	return nil
}

// Load reads the metadata file first and refuses the restore outright if it
// does not match the caller's live abstraction hash or player count — a
// checkpoint built under a different card/action abstraction is not
// comparable and loading its regrets into a live store would silently
// corrupt training (spec invariant: abstraction-hash gating).
func Load(dir string, wantAbstractionHash string, wantPlayers int) (Metadata, regretstore.Snapshot, Stats, error) {
	meta, err := readMetadata(dir)
	if err != nil {
		return Metadata{}, regretstore.Snapshot{}, Stats{}, err
	}
	if meta.Version != fileVersion {
		return Metadata{}, regretstore.Snapshot{}, Stats{}, fmt.Errorf("checkpoint: unsupported version %d", meta.Version)
	}
	if meta.AbstractionHash != wantAbstractionHash {
		return Metadata{}, regretstore.Snapshot{}, Stats{}, fmt.Errorf("checkpoint: abstraction hash mismatch: checkpoint was built with %s, live abstraction is %s", meta.AbstractionHash, wantAbstractionHash)
	}
	if meta.NumPlayers != wantPlayers {
		return Metadata{}, regretstore.Snapshot{}, Stats{}, fmt.Errorf("checkpoint: player count mismatch: checkpoint has %d, requested %d", meta.NumPlayers, wantPlayers)
	}

	var snap regretstore.Snapshot
	if err := readJSON(filepath.Join(dir, regretsFile), &snap); err != nil {
		return Metadata{}, regretstore.Snapshot{}, Stats{}, fmt.Errorf("checkpoint: reading regret file: %w", err)
	}
	var stats Stats
	if err := readJSON(filepath.Join(dir, statsFile), &stats); err != nil {
		return Metadata{}, regretstore.Snapshot{}, Stats{}, fmt.Errorf("checkpoint: reading stats file: %w", err)
	}
	return meta, snap, stats, nil
}

// LoadMetadataOnly reads a checkpoint's metadata and stats files without
// touching the (potentially large) regret snapshot, for cheap inspection
// tooling that just needs to report progress.
func LoadMetadataOnly(dir string) (Metadata, Stats, error) {
	meta, err := readMetadata(dir)
	if err != nil {
		return Metadata{}, Stats{}, err
	}
	var stats Stats
	if err := readJSON(filepath.Join(dir, statsFile), &stats); err != nil {
		return Metadata{}, Stats{}, fmt.Errorf("checkpoint: reading stats file: %w", err)
	}
	return meta, stats, nil
}

func readMetadata(dir string) (Metadata, error) {
	var meta Metadata
	if err := readJSON(filepath.Join(dir, metadataFile), &meta); err != nil {
		return Metadata{}, fmt.Errorf("checkpoint: reading metadata: %w", err)
	}
	return meta, nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

// Exists reports whether a complete-looking checkpoint (at minimum, a
// metadata file) is present at dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, metadataFile))
	return err == nil
}
