package actionabs

import "math"

// BackMap converts a chosen AbstractAction into a legal chip amount under the
// given geometry, in three steps: round the pot-fraction bet to the nearest
// whole chip, raise it to the minimum raise if below it, clamp to the
// remaining stack (converting to ALL_IN if it would exceed it), and return
// whether the result is an all-in.
//
// FOLD and CHECK_CALL pass through: FOLD commits nothing, CHECK_CALL commits
// exactly ToCall.
func BackMap(a Action, g Geometry) (amount int, isAllIn bool) {
	switch a.Kind {
	case Fold:
		return 0, false
	case CheckCall:
		return g.ToCall, false
	case AllIn:
		return g.EffectiveStack, true
	case Bet:
		raw := a.PotFrac * float64(g.Pot)
		rounded := int(math.Round(raw))
		if rounded < g.MinRaise {
			rounded = g.MinRaise
		}
		if rounded >= g.EffectiveStack {
			return g.EffectiveStack, true
		}
		return rounded, false
	default:
		return 0, false
	}
}

// ReAbstract maps a legal chip amount back onto the closest AbstractAction in
// menu, by comparing the amount's implied pot fraction to each BET rung's
// fraction. Back-mapping idempotence is defined against it: BackMap(a) then
// ReAbstract(...) must recover a exactly, for every a in a menu built from
// the same geometry.
func ReAbstract(amount int, g Geometry, menu Menu) Action {
	if amount >= g.EffectiveStack {
		if containsAllIn(menu) {
			return NewAllIn()
		}
	}
	if amount == g.ToCall {
		if containsKind(menu, CheckCall) {
			return NewCheckCall()
		}
	}
	if amount == 0 {
		if containsKind(menu, Fold) {
			return NewFold()
		}
		return NewCheckCall()
	}

	impliedFrac := float64(amount) / float64(maxInt(g.Pot, 1))
	best := Action{}
	bestDist := math.Inf(1)
	found := false
	for _, candidate := range menu {
		if candidate.Kind != Bet {
			continue
		}
		d := math.Abs(candidate.PotFrac - impliedFrac)
		if d < bestDist {
			bestDist = d
			best = candidate
			found = true
		}
	}
	if !found {
		if containsAllIn(menu) {
			return NewAllIn()
		}
		return NewCheckCall()
	}
	return best
}

func containsKind(menu Menu, k Kind) bool {
	for _, a := range menu {
		if a.Kind == k {
			return true
		}
	}
	return false
}

func containsAllIn(menu Menu) bool {
	return containsKind(menu, AllIn)
}
