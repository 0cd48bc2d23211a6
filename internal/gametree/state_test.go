package gametree

import (
	"math/rand"
	"testing"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/poker"
)

func TestNewHandPostsBlindsAndSetsFirstToAct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	deck := poker.NewDeck(rng)
	s := NewHand(6, 10000, 50, 100, 0, deck)

	if s.Pot != 150 {
		t.Errorf("pot = %d, want 150", s.Pot)
	}
	if s.ToAct < 0 {
		t.Error("expected a seat on the move preflop")
	}
	// under the gun (seat after BB) acts first in a 6-max hand
	wantFirst := seatAfter(seatAfter(0, 2, 6), 1, 6)
	if s.ToAct != wantFirst {
		t.Errorf("ToAct = %d, want %d", s.ToAct, wantFirst)
	}
}

func TestFoldRemovesPlayerFromContention(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	deck := poker.NewDeck(rng)
	s := NewHand(3, 5000, 25, 50, 0, deck)
	cfg := actionabs.DefaultMenuConfig()

	seat := s.ToAct
	next := s.Apply(cfg, actionabs.NewFold())
	if !next.Players[seat].Folded {
		t.Error("expected seat to be marked folded")
	}
	if next.CountNonFolded() != 2 {
		t.Errorf("CountNonFolded = %d, want 2", next.CountNonFolded())
	}
}

func TestCheckCallMatchesToCallAndAdvancesTurn(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	deck := poker.NewDeck(rng)
	s := NewHand(2, 2000, 25, 50, 0, deck)
	cfg := actionabs.DefaultMenuConfig()

	firstSeat := s.ToAct
	toCall := s.ToCall(firstSeat)
	next := s.Apply(cfg, actionabs.NewCheckCall())
	if next.Players[firstSeat].StreetBet != s.Players[firstSeat].StreetBet+toCall {
		t.Error("check/call did not match the outstanding bet")
	}
	if next.ToAct == firstSeat {
		t.Error("expected the turn to advance off the acting seat")
	}
}

func TestHeadsUpHandReachesTerminalOnFold(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	deck := poker.NewDeck(rng)
	s := NewHand(2, 2000, 25, 50, 0, deck)
	cfg := actionabs.DefaultMenuConfig()

	s = s.Apply(cfg, actionabs.NewFold())
	if !s.IsComplete() {
		t.Error("expected hand to be complete after a heads-up fold")
	}
}

func TestUtilityForPlayerZeroSumHeadsUp(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	deck := poker.NewDeck(rng)
	s := NewHand(2, 2000, 25, 50, 0, deck)
	cfg := actionabs.DefaultMenuConfig()
	s = s.Apply(cfg, actionabs.NewFold())

	u0 := UtilityForPlayer(s, 0)
	u1 := UtilityForPlayer(s, 1)
	if u0+u1 != 0 {
		t.Errorf("utilities not zero-sum: %v + %v != 0", u0, u1)
	}
}
