package abstraction

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Hash computes the SHA-256 abstraction hash over the BucketConfig's integer
// fields, player count, and the bit-exact cluster centers of every fitted
// postflop model. Stored alongside any checkpoint; a mismatch on load means
// the checkpoint and the current abstraction disagree and must be refused
// (spec §4.9, §7).
func Hash(cfg BucketConfig, flop, turn, river KMeansModel) [32]byte {
	h := sha256.New()
	writeInt(h, int64(cfg.PreflopBuckets))
	writeInt(h, int64(cfg.FlopBuckets))
	writeInt(h, int64(cfg.TurnBuckets))
	writeInt(h, int64(cfg.RiverBuckets))
	writeInt(h, int64(cfg.NumPlayers))
	writeInt(h, cfg.BuildSeed)
	writeInt(h, int64(cfg.NumSamplingHands))

	for _, m := range []KMeansModel{flop, turn, river} {
		for _, center := range m.Centers {
			for _, v := range center {
				writeFloat(h, v)
			}
		}
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func writeInt(h interface{ Write([]byte) (int, error) }, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, _ = h.Write(buf[:])
}

func writeFloat(h interface{ Write([]byte) (int, error) }, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	_, _ = h.Write(buf[:])
}
