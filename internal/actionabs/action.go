// Package actionabs implements the action-abstraction layer: the fixed menu
// of discrete AbstractActions offered at a decision node, and the
// back-mapper that converts a chosen AbstractAction into a legal chip
// amount given the live pot/stack geometry.
package actionabs

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the variant of an AbstractAction.
type Kind uint8

const (
	Fold Kind = iota
	CheckCall
	Bet
	AllIn
)

// Action is a tagged union over the four abstract action shapes. PotFrac is
// only meaningful when Kind == Bet.
type Action struct {
	Kind    Kind
	PotFrac float64
}

func NewFold() Action      { return Action{Kind: Fold} }
func NewCheckCall() Action { return Action{Kind: CheckCall} }
func NewAllIn() Action     { return Action{Kind: AllIn} }
func NewBet(potFrac float64) Action {
	return Action{Kind: Bet, PotFrac: potFrac}
}

// Token renders the action's compact history token: F, C, B25/B33/..., A.
func (a Action) Token() string {
	switch a.Kind {
	case Fold:
		return "F"
	case CheckCall:
		return "C"
	case AllIn:
		return "A"
	case Bet:
		return "B" + strconv.Itoa(int(math.Round(a.PotFrac*100)))
	default:
		return "?"
	}
}

// ParseToken is the inverse of Token.
func ParseToken(tok string) (Action, error) {
	if tok == "" {
		return Action{}, fmt.Errorf("actionabs: empty token")
	}
	switch tok {
	case "F":
		return NewFold(), nil
	case "C":
		return NewCheckCall(), nil
	case "A":
		return NewAllIn(), nil
	}
	if tok[0] == 'B' {
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			return Action{}, fmt.Errorf("actionabs: invalid bet token %q: %w", tok, err)
		}
		return NewBet(float64(n) / 100), nil
	}
	return Action{}, fmt.Errorf("actionabs: unrecognized token %q", tok)
}

func (a Action) String() string { return a.Token() }

// Equal reports whether two actions are the same abstract action, comparing
// bet fractions with a small tolerance to absorb float round-trip noise.
func (a Action) Equal(b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != Bet {
		return true
	}
	return math.Abs(a.PotFrac-b.PotFrac) < 1e-9
}

// Menu is an ordered, deduplicated list of AbstractActions legal at one
// decision node. Order is part of the infoset record's identity (see
// internal/regretstore), so menu construction must be deterministic.
type Menu []Action

// History is the ordered sequence of AbstractActions taken on one street,
// rendered with '-' between tokens, e.g. "C-B50-C".
type History []Action

func (h History) String() string {
	toks := make([]string, len(h))
	for i, a := range h {
		toks[i] = a.Token()
	}
	return strings.Join(toks, "-")
}

// ParseHistory is the inverse of History.String.
func ParseHistory(s string) (History, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "-")
	out := make(History, 0, len(parts))
	for _, p := range parts {
		a, err := ParseToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// SortMenu orders a menu deterministically: FOLD, CHECK_CALL, bets ascending
// by pot fraction, ALL_IN last. Used when building a fresh menu so action
// order at a freshly-created infoset record is reproducible across
// processes.
func SortMenu(m Menu) Menu {
	sort.SliceStable(m, func(i, j int) bool {
		return rank(m[i]) < rank(m[j])
	})
	return m
}

func rank(a Action) float64 {
	switch a.Kind {
	case Fold:
		return -2
	case CheckCall:
		return -1
	case Bet:
		return a.PotFrac
	case AllIn:
		return math.MaxFloat64
	default:
		return math.MaxFloat64
	}
}
