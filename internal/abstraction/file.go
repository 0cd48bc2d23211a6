package abstraction

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// bucketFile is the on-disk, JSON-serializable form of a fitted Bucketer.
type bucketFile struct {
	Config         BucketConfig `json:"config"`
	AbstractionHash string      `json:"abstraction_hash"`
	PreflopBuckets [13][13][2]int     `json:"preflop_buckets"`
	PreflopEquity  [13][13][2]float64 `json:"preflop_equity"`
	Flop           KMeansModel `json:"flop"`
	Turn           KMeansModel `json:"turn"`
	River          KMeansModel `json:"river"`
}

// Save writes the bucket file, with embedded abstraction hash, to path.
// Output is gzip-compressed when path ends in ".gz".
func Save(b *Bucketer, path string) error {
	hash := b.Hash()
	payload := bucketFile{
		Config:          b.Config,
		AbstractionHash: fmt.Sprintf("%x", hash),
		PreflopBuckets:  b.Preflop.buckets,
		PreflopEquity:   b.Preflop.equity,
		Flop:            b.Flop,
		Turn:            b.Turn,
		River:           b.River,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("abstraction: creating bucket file %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if isGzipPath(path) {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("abstraction: encoding bucket file: %w", err)
	}
	return nil
}

// Load reads a bucket file written by Save, transparently handling gzip
// compression regardless of the file extension.
func Load(path string) (*Bucketer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abstraction: opening bucket file %s: %w", path, err)
	}
	defer f.Close()

	r, err := maybeGunzip(f)
	if err != nil {
		return nil, fmt.Errorf("abstraction: reading bucket file %s: %w", path, err)
	}

	var payload bucketFile
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("abstraction: decoding bucket file %s: %w", path, err)
	}

	b := &Bucketer{
		Config: payload.Config,
		Flop:   payload.Flop,
		Turn:   payload.Turn,
		River:  payload.River,
	}
	b.Preflop.k = payload.Config.PreflopBuckets
	b.Preflop.buckets = payload.PreflopBuckets
	b.Preflop.equity = payload.PreflopEquity
	return b, nil
}

func isGzipPath(path string) bool {
	return len(path) > 3 && path[len(path)-3:] == ".gz"
}

// maybeGunzip peeks the gzip magic number and wraps r in a gzip.Reader only
// if present, so callers never need to know how a given bucket file was
// written.
func maybeGunzip(f *os.File) (io.Reader, error) {
	magic := make([]byte, 2)
	n, err := f.Read(magic)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(f)
	}
	return f, nil
}
