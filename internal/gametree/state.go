// Package gametree plays chance and decision nodes over an abstracted
// No-Limit Hold'em hand: it computes the legal-action set per node and
// converts chip outcomes to expected utility for the traversing player
// (spec §4.6). Traversal is strictly depth-first and stateless beyond the
// thread RNG and the regret store the caller supplies.
package gametree

import (
	"math/rand"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/game"
	"github.com/lox/holdem-solver/poker"
)

// PlayerState is one seat's live betting state within a hand.
type PlayerState struct {
	Stack      int // chips behind, not yet committed
	StreetBet  int // chips committed on the current street
	TotalBet   int // chips committed across the whole hand
	Folded     bool
	AllIn      bool
	HasActed   bool
}

// State is a complete, replayable snapshot of one abstracted hand: seats,
// board, pot, and whose turn it is. State is a value type; Apply returns a
// new State rather than mutating in place, matching the arena-free,
// allocation-light style the traversal's hot path favors (spec §9 prefers
// avoiding per-node allocation; here we avoid shared mutable aliasing
// instead, since seat counts are small, usually <= 6).
type State struct {
	Players []PlayerState
	Hole    [][2]poker.Card
	Board   poker.Hand
	Street  game.Street
	Button  int
	ToAct   int // seat index, or -1 if the street is over
	Pot     int
	BigBlind int
	MinRaise int
}

// NewHand deals hole cards, posts blinds, and returns the state at the first
// decision point preflop.
func NewHand(numPlayers int, startingStack, smallBlind, bigBlind, button int, deck *poker.Deck) State {
	s := State{
		Players:  make([]PlayerState, numPlayers),
		Hole:     make([][2]poker.Card, numPlayers),
		Street:   game.Preflop,
		Button:   button,
		BigBlind: bigBlind,
		MinRaise: bigBlind,
	}
	for i := range s.Players {
		s.Players[i] = PlayerState{Stack: startingStack}
		hand := deck.Deal(2)
		s.Hole[i] = [2]poker.Card{hand[0], hand[1]}
	}

	sbSeat := seatAfter(button, 1, numPlayers)
	bbSeat := seatAfter(button, 2, numPlayers)
	if numPlayers == 2 {
		sbSeat = button
		bbSeat = seatAfter(button, 1, numPlayers)
	}
	s.postBlind(sbSeat, smallBlind)
	s.postBlind(bbSeat, bigBlind)
	s.Pot = smallBlind + bigBlind

	firstToAct := seatAfter(bbSeat, 1, numPlayers)
	if numPlayers == 2 {
		firstToAct = button
	}
	s.ToAct = s.nextActiveFrom(firstToAct)
	return s
}

func (s *State) postBlind(seat, amount int) {
	p := &s.Players[seat]
	if amount >= p.Stack {
		amount = p.Stack
		p.AllIn = true
	}
	p.Stack -= amount
	p.StreetBet = amount
	p.TotalBet = amount
}

func seatAfter(seat, n, numPlayers int) int {
	return (seat + n) % numPlayers
}

func (s State) nextActiveFrom(seat int) int {
	n := len(s.Players)
	for i := 0; i < n; i++ {
		idx := (seat + i) % n
		p := s.Players[idx]
		if !p.Folded && !p.AllIn {
			return idx
		}
	}
	return -1
}

// ActivePlayer returns the seat on the move, or -1 if the street (or hand)
// has no more decisions pending.
func (s State) ActivePlayer() int { return s.ToAct }

// CountNonFolded returns how many seats have not folded.
func (s State) CountNonFolded() int {
	n := 0
	for _, p := range s.Players {
		if !p.Folded {
			n++
		}
	}
	return n
}

// IsComplete reports whether the hand has reached a terminal state: one
// player remains, or the river betting round has closed.
func (s State) IsComplete() bool {
	if s.CountNonFolded() <= 1 {
		return true
	}
	return s.Street == game.River && s.ToAct == -1
}

// EffectiveStack returns the smallest remaining stack among non-folded
// seats, the quantity the action abstraction uses to decide ALL_IN
// inclusion.
func (s State) EffectiveStack(seat int) int {
	min := s.Players[seat].Stack
	for i, p := range s.Players {
		if i == seat || p.Folded {
			continue
		}
		if p.Stack < min {
			min = p.Stack
		}
	}
	return min
}

// ToCall returns how much seat must add to match the current street's high
// bet.
func (s State) ToCall(seat int) int {
	high := 0
	for _, p := range s.Players {
		if p.StreetBet > high {
			high = p.StreetBet
		}
	}
	toCall := high - s.Players[seat].StreetBet
	if toCall < 0 {
		toCall = 0
	}
	return toCall
}

// Geometry returns the actionabs.Geometry for the seat on the move.
func (s State) Geometry(seat int) actionabs.Geometry {
	return actionabs.Geometry{
		Pot:            s.Pot,
		ToCall:         s.ToCall(seat),
		EffectiveStack: s.EffectiveStack(seat),
		MinRaise:       s.MinRaise,
	}
}

// Apply plays an AbstractAction for the current ToAct seat, returning the
// resulting state. It is the caller's responsibility to pass a legal action
// (one in the menu BuildMenu would return for this node).
func (s State) Apply(cfg actionabs.MenuConfig, a actionabs.Action) State {
	next := s.clone()
	seat := next.ToAct
	p := &next.Players[seat]

	switch a.Kind {
	case actionabs.Fold:
		p.Folded = true
	case actionabs.CheckCall, actionabs.Bet, actionabs.AllIn:
		amount, isAllIn := actionabs.BackMap(a, next.Geometry(seat))
		committed := amount
		p.Stack -= committed
		p.StreetBet += committed
		p.TotalBet += committed
		next.Pot += committed
		if isAllIn || p.Stack == 0 {
			p.AllIn = true
		}
		if a.Kind != actionabs.CheckCall {
			raiseSize := p.StreetBet - highestOtherBet(next, seat)
			if raiseSize > next.MinRaise {
				next.MinRaise = raiseSize
			}
		}
	}
	p.HasActed = true

	next.advance()
	return next
}

func highestOtherBet(s State, seat int) int {
	high := 0
	for i, p := range s.Players {
		if i == seat {
			continue
		}
		if p.StreetBet > high {
			high = p.StreetBet
		}
	}
	return high
}

func (s State) clone() State {
	players := make([]PlayerState, len(s.Players))
	copy(players, s.Players)
	return State{
		Players:  players,
		Hole:     s.Hole,
		Board:    s.Board,
		Street:   s.Street,
		Button:   s.Button,
		ToAct:    s.ToAct,
		Pot:      s.Pot,
		BigBlind: s.BigBlind,
		MinRaise: s.MinRaise,
	}
}

// advance finds the next seat to act on the current street, or sets ToAct to
// -1 if the street's betting has closed.
func (s *State) advance() {
	if s.CountNonFolded() <= 1 {
		s.ToAct = -1
		return
	}
	streetHighBet := 0
	for _, p := range s.Players {
		if p.StreetBet > streetHighBet {
			streetHighBet = p.StreetBet
		}
	}

	n := len(s.Players)
	for i := 1; i <= n; i++ {
		idx := (s.ToAct + i) % n
		p := s.Players[idx]
		if p.Folded || p.AllIn {
			continue
		}
		if !p.HasActed || p.StreetBet < streetHighBet {
			s.ToAct = idx
			return
		}
	}
	s.ToAct = -1
}

// NextStreet deals the next street's board cards (chance node) and resets
// per-street betting state. Callers must check IsComplete first.
func (s State) NextStreet(rng *rand.Rand) State {
	next := s.clone()
	next.Street = s.Street.Next()
	next.MinRaise = s.BigBlind

	excluded := next.Board
	for _, h := range next.Hole {
		excluded.AddCard(h[0])
		excluded.AddCard(h[1])
	}
	next.Board = poker.SampleFutureBoard(next.Board, excluded, next.Street.BoardCardCount(), rng)

	for i := range next.Players {
		next.Players[i].StreetBet = 0
		next.Players[i].HasActed = false
	}

	first := seatAfter(next.Button, 1, len(next.Players))
	next.ToAct = next.nextActiveFrom(first)
	return next
}

// WinnersShowdown evaluates every non-folded hand and returns the winning
// seat indices (more than one on a tie).
func WinnersShowdown(s State) []int {
	bestRank := poker.HandRank(0)
	var winners []int
	for i, p := range s.Players {
		if p.Folded {
			continue
		}
		hand := poker.NewHand(s.Hole[i][0], s.Hole[i][1]) | s.Board
		rank := poker.Evaluate7Cards(hand)
		switch {
		case rank > bestRank:
			bestRank = rank
			winners = []int{i}
		case rank == bestRank:
			winners = append(winners, i)
		}
	}
	return winners
}

// UtilityForPlayer returns the chip delta for seat at a terminal state: pot
// share minus total chips committed across the hand.
func UtilityForPlayer(s State, seat int) float64 {
	if s.Players[seat].Folded {
		return -float64(s.Players[seat].TotalBet)
	}
	var winners []int
	nonFolded := s.CountNonFolded()
	if nonFolded == 1 {
		for i, p := range s.Players {
			if !p.Folded {
				winners = []int{i}
			}
		}
	} else {
		winners = WinnersShowdown(s)
	}
	share := 0.0
	for _, w := range winners {
		if w == seat {
			share = float64(s.Pot) / float64(len(winners))
		}
	}
	return share - float64(s.Players[seat].TotalBet)
}
