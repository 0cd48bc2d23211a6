package classification

import (
	"math/bits"

	"github.com/lox/holdem-solver/poker"
)

// DrawType is a kind of draw a hole-card/board combination can hold.
type DrawType int

const (
	FlushDraw DrawType = iota
	NutFlushDraw
	OpenEndedStraightDraw
	Gutshot
	DoubleGutshot
	ComboDraw // two or more draws with enough combined outs
	BackdoorFlush
	BackdoorStraight
	Overcards
	NoDraw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case NutFlushDraw:
		return "nut flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case DoubleGutshot:
		return "double gutshot"
	case ComboDraw:
		return "combo draw"
	case BackdoorFlush:
		return "backdoor flush"
	case BackdoorStraight:
		return "backdoor straight"
	case Overcards:
		return "overcards"
	case NoDraw:
		return "no draw"
	default:
		return "unknown"
	}
}

// DrawInfo is the set of draws a hand holds against a partial board, plus
// the combined out count used to rank them.
type DrawInfo struct {
	Draws   []DrawType
	Outs    int
	NutOuts int
}

// HasStrongDraw reports a draw likely to be ahead if it connects by the river.
func (d DrawInfo) HasStrongDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case FlushDraw, NutFlushDraw, OpenEndedStraightDraw, ComboDraw:
			return true
		}
	}
	return false
}

// HasWeakDraw reports a draw with enough equity to continue but not enough to push hard.
func (d DrawInfo) HasWeakDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case Gutshot, BackdoorFlush, BackdoorStraight, Overcards:
			return true
		}
	}
	return false
}

// IsComboDraw reports two-or-more overlapping draws with enough outs that
// the hand plays more like a made hand than a single draw.
func (d DrawInfo) IsComboDraw() bool {
	return len(d.Draws) >= 2 && d.Outs >= 12
}

// DetectDraws classifies every draw a hole-card pair holds against a flop,
// turn, or river board, deduplicating outs across draw types via a shared
// bitmask so a card that completes two draws at once isn't double-counted.
func DetectDraws(holeCards, board poker.Hand) DrawInfo {
	if board.CountCards() < 3 {
		return DrawInfo{Draws: []DrawType{NoDraw}}
	}

	var draws []DrawType
	var outs, nutOuts poker.Hand

	flush := detectFlushDraw(holeCards, board)
	if flush.HasFlushDraw {
		if flush.IsNutFlushDraw {
			draws = append(draws, NutFlushDraw)
			nutOuts |= flush.OutsMask
		} else {
			draws = append(draws, FlushDraw)
		}
		outs |= flush.OutsMask
	}

	straight := detectStraightDraws(holeCards, board)
	if straight.HasOESD {
		draws = append(draws, OpenEndedStraightDraw)
		outs |= straight.OESDOutsMask
	}
	if straight.HasGutshot {
		draws = append(draws, Gutshot)
		outs |= straight.GutshotOutsMask
	}
	if straight.HasDoubleGutshot {
		draws = append(draws, DoubleGutshot)
		outs |= straight.DoubleGutshotOutsMask
	}

	// Backdoor draws only make sense with two cards still to come.
	if board.CountCards() == 3 {
		if detectBackdoorFlush(holeCards, board).HasBackdoorFlush {
			draws = append(draws, BackdoorFlush)
		}
		if detectBackdoorStraight(holeCards, board).HasBackdoorStraight {
			draws = append(draws, BackdoorStraight)
		}
	}

	if !flush.HasFlushDraw && !straight.HasOESD {
		over := detectOvercards(holeCards, board, holeCards|board)
		if over.HasOvercards {
			draws = append(draws, Overcards)
			outs |= over.OutsMask
		}
	}

	totalOuts := outs.CountCards()
	if len(draws) >= 2 && totalOuts >= 12 {
		draws = append(draws, ComboDraw)
	}
	if len(draws) == 0 {
		draws = []DrawType{NoDraw}
	}

	return DrawInfo{Draws: draws, Outs: totalOuts, NutOuts: nutOuts.CountCards()}
}

type flushDrawInfo struct {
	HasFlushDraw   bool
	IsNutFlushDraw bool
	Suit           uint8
	OutsMask       poker.Hand
}

type straightDrawInfo struct {
	HasOESD               bool
	HasGutshot            bool
	HasDoubleGutshot      bool
	OESDOutsMask          poker.Hand
	GutshotOutsMask       poker.Hand
	DoubleGutshotOutsMask poker.Hand
}

type backdoorFlushInfo struct {
	HasBackdoorFlush bool
	Suit             uint8
}

type backdoorStraightInfo struct {
	HasBackdoorStraight bool
}

type overcardsInfo struct {
	HasOvercards bool
	OutsMask     poker.Hand
}

// suitOuts builds the hand mask of every card of suit not already accounted
// for in usedMask.
func suitOuts(suit uint8, usedMask uint16) poker.Hand {
	available := uint16(0x1FFF) &^ usedMask
	return poker.Hand(available) << (suit * 13)
}

// detectFlushDraw looks for a suit where the player holds at least one card
// and the combined hole+board count is three or more.
func detectFlushDraw(holeCards, board poker.Hand) flushDrawInfo {
	for suit := uint8(0); suit < 4; suit++ {
		holeMask := holeCards.GetSuitMask(suit)
		boardMask := board.GetSuitMask(suit)
		holeCount := bits.OnesCount16(holeMask)
		total := holeCount + bits.OnesCount16(boardMask)

		if total < 3 || holeCount == 0 {
			continue
		}

		return flushDrawInfo{
			HasFlushDraw:   true,
			IsNutFlushDraw: holeMask&(1<<poker.Ace) != 0,
			Suit:           suit,
			OutsMask:       suitOuts(suit, holeMask|boardMask),
		}
	}
	return flushDrawInfo{}
}

// detectStraightDraws slides 4- and 5-rank windows over the combined rank
// mask looking for open-ended straight draws (a 4-run open on both ends)
// and gutshots (4 of 5 ranks in a window, one gap inside).
func detectStraightDraws(holeCards, board poker.Hand) straightDrawInfo {
	var info straightDrawInfo
	_, mask := rankTally(holeCards | board)

	for start := 0; start <= 9; start++ {
		if !windowFilled(mask, start, 4) {
			continue
		}
		low, high := start-1, start+4
		if low < 0 || high > 13 {
			continue
		}
		if mask&(1<<low) != 0 || mask&(1<<high) != 0 {
			continue
		}
		info.HasOESD = true
		info.OESDOutsMask |= outsForRank(low)
		info.OESDOutsMask |= outsForRank(high)
	}

	for start := 0; start <= 8; start++ {
		present := windowRanks(mask, start, 5)
		if len(present) != 4 {
			continue
		}

		first, last := present[0], present[len(present)-1]
		if last-first == 3 {
			// Both outer cards already present and available: an OESD, not a gutshot.
			lowOut, highOut := first-1, last+1
			if first == 0 {
				lowOut = int(poker.Ace)
			}
			lowOpen := lowOut >= 0 && lowOut <= int(poker.Ace) && mask&(1<<lowOut) == 0
			highOpen := highOut >= 0 && highOut <= int(poker.Ace) && mask&(1<<highOut) == 0
			if lowOpen && highOpen {
				continue
			}
		}

		missing := missingRankIn(mask, start, 5)
		info.HasGutshot = true
		info.GutshotOutsMask |= outsForRank(missing)
		break // count a single gutshot per board
	}

	return info
}

// windowFilled reports whether all n ranks starting at start are set in mask.
func windowFilled(mask uint16, start, n int) bool {
	for i := 0; i < n; i++ {
		if mask&(1<<(start+i)) == 0 {
			return false
		}
	}
	return true
}

// windowRanks returns the ranks within [start, start+n) set in mask.
func windowRanks(mask uint16, start, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		if mask&(1<<(start+i)) != 0 {
			out = append(out, start+i)
		}
	}
	return out
}

// missingRankIn returns the one rank within [start, start+n) not set in mask.
func missingRankIn(mask uint16, start, n int) int {
	for i := 0; i < n; i++ {
		if mask&(1<<(start+i)) == 0 {
			return start + i
		}
	}
	return start
}

// outsForRank builds the hand mask of all four cards of a rank.
func outsForRank(rank int) poker.Hand {
	var m poker.Hand
	for suit := uint8(0); suit < 4; suit++ {
		m.AddCard(poker.NewCard(uint8(rank), suit))
	}
	return m
}

// detectBackdoorFlush looks for exactly two cards of a suit on the flop,
// with at least one in the hole, needing both turn and river to complete.
func detectBackdoorFlush(holeCards, board poker.Hand) backdoorFlushInfo {
	if board.CountCards() != 3 {
		return backdoorFlushInfo{}
	}
	for suit := uint8(0); suit < 4; suit++ {
		holeCount := bits.OnesCount16(holeCards.GetSuitMask(suit))
		boardCount := bits.OnesCount16(board.GetSuitMask(suit))
		if holeCount >= 1 && holeCount+boardCount == 2 {
			return backdoorFlushInfo{HasBackdoorFlush: true, Suit: suit}
		}
	}
	return backdoorFlushInfo{}
}

// detectBackdoorStraight is conservative: runner-runner straight draws need
// a full two-card lookahead this package doesn't attempt, so it never fires.
func detectBackdoorStraight(_, _ poker.Hand) backdoorStraightInfo {
	return backdoorStraightInfo{}
}

// detectOvercards finds hole cards ranked above the board's highest rank and
// counts the remaining cards of those ranks as outs.
func detectOvercards(holeCards, board, usedCards poker.Hand) overcardsInfo {
	_, boardMask := rankTally(board)
	highestBoard := 0
	for rank := 12; rank > 0; rank-- {
		if boardMask&(1<<rank) != 0 {
			highestBoard = rank
			break
		}
	}

	_, holeMask := rankTally(holeCards)
	var outs poker.Hand
	for rank := highestBoard + 1; rank <= 12; rank++ {
		if holeMask&(1<<rank) == 0 {
			continue
		}
		for suit := uint8(0); suit < 4; suit++ {
			card := poker.NewCard(uint8(rank), suit)
			if !usedCards.HasCard(card) {
				outs |= poker.Hand(card)
			}
		}
	}

	return overcardsInfo{HasOvercards: outs.CountCards() > 0, OutsMask: outs}
}
