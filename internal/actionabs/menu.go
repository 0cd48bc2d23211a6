package actionabs

import "math"

// MenuConfig is the configuration table that determines which AbstractActions
// are offered at a decision node. The exact menu forms part of the
// abstraction identity: two configs that differ in BetFractions produce
// infoset keys that are not comparable across runs.
type MenuConfig struct {
	// BetFractions is the pot-fraction bet ladder, e.g.
	// {0.25, 0.33, 0.5, 0.66, 0.75, 1.0, 1.5, 2.0}.
	BetFractions []float64
	// AllInStackToPotRatio: ALL_IN is offered whenever EffectiveStack <=
	// ratio * Pot (spec default 2.0).
	AllInStackToPotRatio float64
	// MaxActionsPerNode caps the number of BET rungs kept after trimming
	// (0 = unlimited).
	MaxActionsPerNode int
}

// DefaultMenuConfig matches the spec's example bet ladder.
func DefaultMenuConfig() MenuConfig {
	return MenuConfig{
		BetFractions:          []float64{0.25, 0.33, 0.5, 0.66, 0.75, 1.0, 1.5, 2.0},
		AllInStackToPotRatio:  2.0,
		MaxActionsPerNode:     0,
	}
}

// Geometry describes the live betting geometry at a decision node, the
// inputs the menu builder and back-mapper need.
type Geometry struct {
	Pot            int
	ToCall         int
	EffectiveStack int
	MinRaise       int
}

// BuildMenu returns the fixed menu of legal AbstractActions for the given
// geometry: FOLD when facing a bet, CHECK_CALL always, a pot-fraction BET
// ladder trimmed to what's affordable, and ALL_IN when the stack is shallow
// relative to the pot.
func BuildMenu(cfg MenuConfig, g Geometry) Menu {
	var menu Menu
	if g.ToCall > 0 {
		menu = append(menu, NewFold())
	}
	menu = append(menu, NewCheckCall())

	if g.EffectiveStack > g.ToCall {
		for _, frac := range cfg.BetFractions {
			amount := int(math.Round(frac * float64(g.Pot)))
			if amount < g.MinRaise || amount >= g.EffectiveStack {
				continue
			}
			menu = append(menu, NewBet(frac))
		}
	}

	if cfg.MaxActionsPerNode > 0 {
		menu = trimBets(menu, cfg.MaxActionsPerNode)
	}

	includeAllIn := g.EffectiveStack > 0 &&
		(cfg.AllInStackToPotRatio <= 0 || float64(g.EffectiveStack) <= cfg.AllInStackToPotRatio*float64(maxInt(g.Pot, 1)))
	if includeAllIn || !hasBet(menu) {
		menu = append(menu, NewAllIn())
	}

	return SortMenu(menu)
}

// trimBets keeps the smallest, the largest, and an even spread of BET rungs
// in between, bounded by max, preserving the invariant that the cheapest and
// most aggressive sizes always survive trimming.
func trimBets(menu Menu, max int) Menu {
	var bets Menu
	var rest Menu
	for _, a := range menu {
		if a.Kind == Bet {
			bets = append(bets, a)
		} else {
			rest = append(rest, a)
		}
	}
	if len(bets) <= max {
		return append(rest, bets...)
	}
	SortMenu(bets)
	kept := make(Menu, 0, max)
	if max == 1 {
		kept = append(kept, bets[0])
		return append(rest, kept...)
	}
	for i := 0; i < max; i++ {
		idx := i * (len(bets) - 1) / (max - 1)
		kept = append(kept, bets[idx])
	}
	return append(rest, kept...)
}

func hasBet(menu Menu) bool {
	for _, a := range menu {
		if a.Kind == Bet {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
