package poker

import (
	"math/rand"
	"testing"
)

func TestDeckDealsDistinctCards(t *testing.T) {
	t.Parallel()
	deck := NewDeck(rand.New(rand.NewSource(42)))

	first := deck.Deal(2)
	if len(first) != 2 {
		t.Fatalf("Deal(2) returned %d cards", len(first))
	}
	second := deck.Deal(3)
	if len(second) != 3 {
		t.Fatalf("Deal(3) returned %d cards", len(second))
	}

	for _, a := range first {
		for _, b := range second {
			if a == b {
				t.Errorf("card %v dealt twice", a)
			}
		}
	}

	if got := deck.CardsRemaining(); got != 47 {
		t.Errorf("CardsRemaining() = %d, want 47", got)
	}
}

func TestDeckDealExhaustsAndRejectsOverdraw(t *testing.T) {
	t.Parallel()
	deck := NewDeck(rand.New(rand.NewSource(7)))

	rest := deck.Deal(52)
	if len(rest) != 52 {
		t.Fatalf("Deal(52) returned %d cards", len(rest))
	}
	if deck.CardsRemaining() != 0 {
		t.Errorf("CardsRemaining() = %d, want 0", deck.CardsRemaining())
	}
	if cards := deck.Deal(1); cards != nil {
		t.Error("Deal from an empty deck should return nil")
	}
}

func TestDeckResetRestoresFullDeck(t *testing.T) {
	t.Parallel()
	deck := NewDeck(rand.New(rand.NewSource(1)))
	deck.Deal(52)

	deck.Reset()
	if got := deck.CardsRemaining(); got != 52 {
		t.Fatalf("after Reset, CardsRemaining() = %d, want 52", got)
	}
	if cards := deck.Deal(2); len(cards) != 2 {
		t.Error("should be able to deal after Reset")
	}
}

func TestDeckDealOneReturnsZeroWhenEmpty(t *testing.T) {
	t.Parallel()
	deck := NewDeck(rand.New(rand.NewSource(3)))
	deck.Deal(52)

	if card := deck.DealOne(); card != 0 {
		t.Errorf("DealOne() on an empty deck = %v, want the zero Card", card)
	}
}

func TestDeckSeedIsReproducible(t *testing.T) {
	t.Parallel()
	a := NewDeck(rand.New(rand.NewSource(99))).Deal(52)
	b := NewDeck(rand.New(rand.NewSource(99))).Deal(52)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("deck order diverged at index %d with the same seed", i)
			break
		}
	}
}
