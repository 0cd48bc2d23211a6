// Package classification scores board texture and hand-vs-board draw
// strength for the postflop feature vectors built in internal/abstraction.
// Its rank and suit tallies fold each suit's bitmask into a running total
// the same way poker.Evaluate7Cards's tallyRanks does, rather than scanning
// the combined 52-bit hand one bit at a time.
package classification

import (
	"math/bits"

	"github.com/lox/holdem-solver/poker"
)

// BoardTexture is how coordinated/dangerous a board is, from dry to very wet.
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiWet
	Wet
	VeryWet
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// FlushInfo describes how close a board is to completing a flush.
type FlushInfo struct {
	MaxSuitCount int
	DominantSuit *uint8
	IsMonotone   bool // 3+ cards, all one suit
	IsRainbow    bool // every card a different suit
}

// StraightInfo describes how close a board is to completing a straight.
type StraightInfo struct {
	ConnectedCards int // longest run of consecutive ranks present
	Gaps           int // total rank gap between non-adjacent runs
	HasAce         bool
	BroadwayCards  int // count of T, J, Q, K, A present
}

// rankTally folds each suit's 13-bit rank mask into per-rank counts across
// the whole board, plus the union rank mask.
func rankTally(board poker.Hand) (counts [13]int, mask uint16) {
	for suit := uint8(0); suit < 4; suit++ {
		suitMask := board.GetSuitMask(suit)
		for rank := 0; rank < 13; rank++ {
			if suitMask&(1<<uint(rank)) == 0 {
				continue
			}
			counts[rank]++
			mask |= 1 << uint(rank)
		}
	}
	return counts, mask
}

// suitTally returns each suit's card count and rank mask.
func suitTally(board poker.Hand) (counts [4]int, masks [4]uint16) {
	for suit := uint8(0); suit < 4; suit++ {
		m := board.GetSuitMask(suit)
		masks[suit] = m
		counts[suit] = bits.OnesCount16(m)
	}
	return counts, masks
}

// AnalyzeBoardTexture scores the board's wetness by summing weighted
// contributions from flush potential, straight potential, paired ranks, and
// high-card density, then bucketing the total into one of four textures.
func AnalyzeBoardTexture(board poker.Hand) BoardTexture {
	if board.CountCards() < 3 {
		return Dry
	}

	wetness := 0

	flush := AnalyzeFlushPotential(board)
	switch {
	case flush.IsMonotone, flush.MaxSuitCount >= 4:
		wetness += 4
	case flush.MaxSuitCount == 3:
		wetness += 3
	case flush.MaxSuitCount == 2:
		wetness += 1
	}

	straight := AnalyzeStraightPotential(board)
	switch {
	case straight.ConnectedCards >= 4:
		wetness += 4
	case straight.ConnectedCards == 3:
		wetness += 3
	case straight.ConnectedCards == 2:
		wetness += 1
	}

	if countBoardPairs(board) >= 1 {
		wetness += 1
	}
	if countHighCards(board) >= 3 {
		wetness += 1
	}

	switch {
	case wetness <= 0:
		return Dry
	case wetness <= 3:
		return SemiWet
	case wetness <= 5:
		return Wet
	default:
		return VeryWet
	}
}

// AnalyzeFlushPotential reports the board's best same-suit concentration.
// Ties on suit count break toward the suit holding the higher card, and
// suits are walked high-to-low so an exact tie still resolves deterministically.
func AnalyzeFlushPotential(board poker.Hand) FlushInfo {
	counts, masks := suitTally(board)

	maxCount, bestHighRank, nonZero := 0, -1, 0
	var dominant *uint8
	for suit := 3; suit >= 0; suit-- {
		if counts[suit] == 0 {
			continue
		}
		nonZero++

		highRank := bits.Len16(masks[suit]) - 1
		if counts[suit] > maxCount || (counts[suit] == maxCount && highRank > bestHighRank) {
			maxCount, bestHighRank = counts[suit], highRank
			s := uint8(suit)
			dominant = &s
		}
	}

	cardCount := board.CountCards()
	return FlushInfo{
		MaxSuitCount: maxCount,
		DominantSuit: dominant,
		IsMonotone:   nonZero == 1 && cardCount >= 3,
		IsRainbow:    nonZero == cardCount && cardCount >= 3,
	}
}

// AnalyzeStraightPotential reports the board's longest run of consecutive
// ranks, counting the wheel (A-2-3-4) as connected, plus broadway density.
func AnalyzeStraightPotential(board poker.Hand) StraightInfo {
	cardCount := board.CountCards()
	if cardCount == 0 {
		return StraightInfo{}
	}

	counts, _ := rankTally(board)
	hasAce := counts[poker.Ace] > 0

	if cardCount == 1 {
		broadway := 0
		if hasAce {
			broadway = 1
		}
		return StraightInfo{ConnectedCards: 1, HasAce: hasAce, BroadwayCards: broadway}
	}

	broadway := 0
	for rank := poker.Ten; rank <= poker.Ace; rank++ {
		if counts[rank] > 0 {
			broadway++
		}
	}

	var present []int
	for rank := 0; rank < 13; rank++ {
		if counts[rank] > 0 {
			present = append(present, rank)
		}
	}

	run, gaps := longestRun(present)
	if hasAce {
		if wheel := wheelRun(present); wheel > run {
			run = wheel
		}
	}

	return StraightInfo{
		ConnectedCards: run,
		Gaps:           gaps,
		HasAce:         hasAce,
		BroadwayCards:  broadway,
	}
}

// longestRun scans strictly increasing ranks and returns the longest
// consecutive stretch plus the total size of the gaps between stretches.
func longestRun(ranks []int) (maxRun, gaps int) {
	maxRun, run := 1, 1
	for i := 1; i < len(ranks); i++ {
		gap := ranks[i] - ranks[i-1] - 1
		if gap == 0 {
			run++
			continue
		}
		if run > maxRun {
			maxRun = run
		}
		run = 1
		if gap > 0 {
			gaps += gap
		}
	}
	if run > maxRun {
		maxRun = run
	}
	return maxRun, gaps
}

// wheelRun checks A-2-3-4(-5) connectivity by treating the ace as rank -1,
// since the wheel straight sits outside the strictly-increasing rank order
// longestRun assumes.
func wheelRun(ranks []int) int {
	var low []int
	for _, r := range ranks {
		if r <= 3 {
			low = append(low, r)
		}
	}
	if len(low) < 2 {
		return 0
	}

	wheel := append([]int{-1}, low...)
	run, best := 1, 1
	for i := 1; i < len(wheel); i++ {
		if wheel[i]-wheel[i-1] == 1 {
			run++
		} else {
			if run > best {
				best = run
			}
			run = 1
		}
	}
	if run > best {
		best = run
	}
	return best
}

// countBoardPairs counts how many distinct ranks appear 2+ times on the board.
func countBoardPairs(board poker.Hand) int {
	counts, _ := rankTally(board)
	pairs := 0
	for _, c := range counts {
		if c >= 2 {
			pairs++
		}
	}
	return pairs
}

// countHighCards counts board cards of rank Ten or above.
func countHighCards(board poker.Hand) int {
	counts, _ := rankTally(board)
	n := 0
	for rank := poker.Ten; rank <= poker.Ace; rank++ {
		n += counts[rank]
	}
	return n
}
