// Package abstraction implements the card-abstraction layer (§4.2): feature
// extraction per street, K-means fitting for FLOP/TURN/RIVER, a direct
// lookup table for PREFLOP, and the abstraction hash used to gate
// checkpoint/blueprint loads against the config that produced them.
package abstraction

import (
	"errors"
	"fmt"
)

// BucketConfig is the abstraction's identity: integer cluster counts per
// street, player count, build seed, and sample count. Everything a fitted
// model needs to reproduce itself deterministically.
type BucketConfig struct {
	PreflopBuckets int
	FlopBuckets    int
	TurnBuckets    int
	RiverBuckets   int

	NumPlayers      int
	BuildSeed       int64
	NumSamplingHands int
}

// DefaultBucketConfig matches the spec's default cluster counts (24/80/80/64).
func DefaultBucketConfig() BucketConfig {
	return BucketConfig{
		PreflopBuckets:   24,
		FlopBuckets:      80,
		TurnBuckets:      80,
		RiverBuckets:     64,
		NumPlayers:       6,
		BuildSeed:        1,
		NumSamplingHands: 20000,
	}
}

// Validate checks the config is well-formed before a fit is attempted.
func (c BucketConfig) Validate() error {
	if c.PreflopBuckets <= 0 || c.PreflopBuckets > 169 {
		return errors.New("abstraction: preflop bucket count must be in (0, 169]")
	}
	if c.FlopBuckets <= 0 || c.TurnBuckets <= 0 || c.RiverBuckets <= 0 {
		return errors.New("abstraction: postflop bucket counts must be > 0")
	}
	if c.NumPlayers < 2 || c.NumPlayers > 6 {
		return fmt.Errorf("abstraction: num players must be in [2,6], got %d", c.NumPlayers)
	}
	if c.NumSamplingHands <= 0 {
		return errors.New("abstraction: num sampling hands must be > 0")
	}
	return nil
}

// BucketsForStreet returns the configured cluster count for a given street.
func (c BucketConfig) BucketsForStreet(streetCardCount int) int {
	switch streetCardCount {
	case 0:
		return c.PreflopBuckets
	case 3:
		return c.FlopBuckets
	case 4:
		return c.TurnBuckets
	case 5:
		return c.RiverBuckets
	default:
		return c.RiverBuckets
	}
}
