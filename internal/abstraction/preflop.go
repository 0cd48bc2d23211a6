package abstraction

import (
	"math/rand"

	"github.com/lox/holdem-solver/poker"
)

// PreflopTable is a direct lookup from every (rank, rank, suited) combo to a
// fixed bucket, plus the tabulated equity-vs-random figure for each combo.
// The bucket comes from a rank-based score, not from the equity figure.
type PreflopTable struct {
	buckets [13][13][2]int     // [highRank][lowRank][suited]
	equity  [13][13][2]float64 // same indexing
	k       int
}

// BuildPreflopTable enumerates the 169 canonical hole-card classes, computes
// each one's Monte-Carlo equity against a uniform random hand, and assigns a
// bucket by a fixed scoring formula: every pair scores above every
// non-pair, non-pairs are ordered by the pair of ranks, and a suited combo
// scores one high-rank step above its offsuit version. The
// scoring range is then partitioned evenly into k bins, matching the
// teacher's HoleBucket score-then-bin approach generalized to an
// arbitrary k.
func BuildPreflopTable(k int, seed int64, samplesPerCombo int) PreflopTable {
	rng := rand.New(rand.NewSource(seed))
	var table PreflopTable
	table.k = k

	type combo struct {
		hi, lo  int
		suited  bool
		score   int
	}
	var combos []combo
	for hi := 0; hi < 13; hi++ {
		for lo := 0; lo <= hi; lo++ {
			for _, suited := range []bool{false, true} {
				if hi == lo && suited {
					continue // a pair cannot be suited
				}
				score := hi*13 + lo
				if hi == lo {
					score += 200
				}
				if suited {
					score += 13
				}
				combos = append(combos, combo{hi, lo, suited, score})
			}
		}
	}

	minScore, maxScore := combos[0].score, combos[0].score
	for _, c := range combos {
		if c.score < minScore {
			minScore = c.score
		}
		if c.score > maxScore {
			maxScore = c.score
		}
	}
	span := maxScore - minScore + 1
	binSize := span / k
	if binSize < 1 {
		binSize = 1
	}

	for _, c := range combos {
		bucket := (c.score - minScore) / binSize
		if bucket >= k {
			bucket = k - 1
		}

		suitIdx := 0
		if c.suited {
			suitIdx = 1
		}
		table.buckets[c.hi][c.lo][suitIdx] = bucket

		suitA, suitB := uint8(poker.Clubs), uint8(poker.Diamonds)
		if c.suited {
			suitB = suitA
		}
		hole := [2]poker.Card{
			poker.NewCard(uint8(c.hi), suitA),
			poker.NewCard(uint8(c.lo), suitB),
		}
		table.equity[c.hi][c.lo][suitIdx] = poker.EstimateEquity(hole, 0, poker.UniformRange{}, samplesPerCombo, rng)
	}
	return table
}

// Bucket returns the preflop bucket for a hole-card pair.
func (t PreflopTable) Bucket(hole [2]poker.Card) int {
	hi, lo, suited := canonicalize(hole)
	suitIdx := 0
	if suited {
		suitIdx = 1
	}
	return t.buckets[hi][lo][suitIdx]
}

// Equity returns the tabulated equity-vs-random for a hole-card pair.
func (t PreflopTable) Equity(hole [2]poker.Card) float64 {
	hi, lo, suited := canonicalize(hole)
	suitIdx := 0
	if suited {
		suitIdx = 1
	}
	return t.equity[hi][lo][suitIdx]
}

// TopBucketCategoryCounts reports, for each classical hand-strength category,
// how many of the 169 canonical starting combos landed in the table's
// strongest bucket. It's a sanity check for a freshly built abstraction: a
// sound preflop table should place most Premium combos (AA, KK, AK, ...) in
// the top bucket, not scattered across weaker ones.
func (t PreflopTable) TopBucketCategoryCounts() map[poker.HoleCardCategory]int {
	topBucket := t.k - 1
	counts := make(map[poker.HoleCardCategory]int)
	for hi := 0; hi < 13; hi++ {
		for lo := 0; lo <= hi; lo++ {
			for _, suited := range []bool{false, true} {
				if hi == lo && suited {
					continue
				}
				suitA, suitB := uint8(poker.Clubs), uint8(poker.Diamonds)
				if suited {
					suitB = suitA
				}
				hole := [2]poker.Card{poker.NewCard(uint8(hi), suitA), poker.NewCard(uint8(lo), suitB)}
				if t.Bucket(hole) == topBucket {
					counts[poker.CategorizeHoleCards(hole[0], hole[1])]++
				}
			}
		}
	}
	return counts
}

func canonicalize(hole [2]poker.Card) (hi, lo int, suited bool) {
	r0, r1 := int(hole[0].Rank()), int(hole[1].Rank())
	hi, lo = r0, r1
	if lo > hi {
		hi, lo = lo, hi
	}
	suited = hole[0].Suit() == hole[1].Suit()
	return hi, lo, suited
}
