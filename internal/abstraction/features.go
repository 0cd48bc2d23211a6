package abstraction

import (
	"math/rand"

	"github.com/lox/holdem-solver/internal/classification"
	"github.com/lox/holdem-solver/poker"
)

// PreflopFeatureCount is the dimensionality of the preflop feature vector
// (hand strength, suitedness, connectivity, high-card rank, pair flag, gap,
// plus low-card rank, two interaction terms (pair x high rank, suited x
// connectivity) and a bias term — 10 total per spec §4.2).
const PreflopFeatureCount = 10

// PostflopFeatureCount is the dimensionality of the postflop feature vector:
// equity, draw counts, texture, SPR bucket, position, stack bucket (34
// total per spec §4.2).
const PostflopFeatureCount = 34

// PreflopFeatures computes the 10-dim feature vector for a hole-card pair.
// equity supplies the tabulated hand-strength-vs-random figure; it is
// computed once (see preflop.go) and shared across all calls.
func PreflopFeatures(hole [2]poker.Card, equity float64) [PreflopFeatureCount]float64 {
	r0, r1 := hole[0].Rank(), hole[1].Rank()
	hi, lo := r0, r1
	if lo > hi {
		hi, lo = lo, hi
	}
	suited := 0.0
	if hole[0].Suit() == hole[1].Suit() {
		suited = 1.0
	}
	isPair := 0.0
	if r0 == r1 {
		isPair = 1.0
	}
	gap := float64(hi) - float64(lo) - 1
	if gap < 0 {
		gap = 0
	}
	connectivity := 1.0 / (1.0 + gap)

	var f [PreflopFeatureCount]float64
	f[0] = equity
	f[1] = suited
	f[2] = connectivity
	f[3] = float64(hi) / 12.0
	f[4] = isPair
	f[5] = gap / 12.0
	f[6] = float64(lo) / 12.0
	f[7] = isPair * float64(hi) / 12.0
	f[8] = suited * connectivity
	f[9] = 1.0 // bias
	return f
}

// PostflopInputs groups the live state needed to compute the 34-dim
// postflop feature vector, independent of bucketing machinery.
type PostflopInputs struct {
	Hole           [2]poker.Card
	Board          poker.Hand
	InPosition     bool
	SPR            float64 // stack-to-pot ratio
	EffStackBucket int     // pre-quantized effective-stack bucket, 0..N
	RNG            *rand.Rand
	EquitySamples  int
}

// PostflopFeatures computes the 34-dim postflop feature vector: equity vs a
// uniform villain range, draw counts, board texture, SPR bucket, position,
// and effective-stack bucket.
func PostflopFeatures(in PostflopInputs) [PostflopFeatureCount]float64 {
	var f [PostflopFeatureCount]float64

	holeHand := poker.NewHand(in.Hole[0], in.Hole[1])
	samples := in.EquitySamples
	if samples <= 0 {
		samples = 300
	}
	equity := poker.EstimateEquity(in.Hole, in.Board, poker.UniformRange{}, samples, in.RNG)
	f[0] = equity

	draws := classification.DetectDraws(holeHand, in.Board)
	f[1] = boolFloat(draws.HasStrongDraw())
	f[2] = boolFloat(draws.HasWeakDraw())
	f[3] = boolFloat(draws.IsComboDraw())

	texture := classification.AnalyzeBoardTexture(in.Board)
	f[4] = float64(texture) / 3.0

	flush := classification.AnalyzeFlushPotential(in.Board)
	f[5] = boolFloat(flush.IsMonotone)
	f[6] = boolFloat(flush.IsRainbow)
	f[7] = float64(flush.MaxSuitCount) / 5.0

	straight := classification.AnalyzeStraightPotential(in.Board)
	f[8] = float64(straight.ConnectedCards) / 5.0
	f[9] = float64(straight.Gaps) / 5.0
	f[10] = boolFloat(straight.HasAce)
	f[11] = float64(straight.BroadwayCards) / 5.0

	sprBucket := sprToBucket(in.SPR)
	f[12] = float64(sprBucket) / 10.0
	f[13] = boolFloat(in.InPosition)
	f[14] = float64(in.EffStackBucket) / 10.0

	// Dimensions 15-27 are one indicator per rank, set when that rank is
	// present on the board; dimensions 28-33 are left at zero.
	suitMask := in.Board.GetRankMask()
	for i := 0; i < 13 && 15+i < PostflopFeatureCount; i++ {
		if suitMask&(1<<uint(i)) != 0 {
			f[15+i] = 1.0
		}
	}
	return f
}

func boolFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// sprToBucket coarsely quantizes stack-to-pot ratio into ten buckets.
func sprToBucket(spr float64) int {
	switch {
	case spr < 0.5:
		return 0
	case spr < 1:
		return 1
	case spr < 2:
		return 2
	case spr < 3:
		return 3
	case spr < 4:
		return 4
	case spr < 6:
		return 5
	case spr < 9:
		return 6
	case spr < 13:
		return 7
	case spr < 20:
		return 8
	default:
		return 9
	}
}
