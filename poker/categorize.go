package poker

// HoleCardCategory buckets a starting hand into one of five traditional
// preflop strength tiers, used only for human-facing reporting (abstraction
// builds bucket on their own rank-based score, not this label).
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards labels a starting hand the way a human player would
// describe it at the table: JJ+ and AK as Premium, down through small
// pairs and suited hands at most two ranks apart as Weak, with everything
// else as Trash.
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if card1.Rank() > Ace || card2.Rank() > Ace {
		return CategoryUnknown
	}

	hi, lo := startingHandRanks(card1, card2)
	suited := card1.Suit() == card2.Suit()
	pair := hi == lo

	switch {
	case pair && hi >= Jack:
		return CategoryPremium
	case hi == Ace && lo == King:
		return CategoryPremium
	case pair && hi == Ten:
		return CategoryStrong
	case hi == Ace && (lo == Queen || lo == Jack):
		return CategoryStrong
	case pair && hi >= Seven && hi <= Nine:
		return CategoryMedium
	case suited && hi >= Ten && lo >= Ten:
		return CategoryMedium
	case pair && hi <= Six:
		return CategoryWeak
	case suited && gapBetween(hi, lo) <= 2:
		return CategoryWeak
	default:
		return CategoryTrash
	}
}

// startingHandRanks returns a hole-card pair's ranks high first, with Ace
// (rank index 12) treated as the highest rank rather than wrapping low.
func startingHandRanks(card1, card2 Card) (hi, lo Rank) {
	hi, lo = card1.Rank(), card2.Rank()
	if lo > hi {
		hi, lo = lo, hi
	}
	return hi, lo
}

func gapBetween(a, b Rank) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
