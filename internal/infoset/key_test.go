package infoset

import (
	"testing"

	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/game"
)

func TestEncodeMatchesSpecExampleE3(t *testing.T) {
	history := ByStreet{
		game.Preflop: actionabs.History{actionabs.NewCheckCall(), actionabs.NewBet(0.5), actionabs.NewCheckCall()},
		game.Flop:    actionabs.History{actionabs.NewCheckCall(), actionabs.NewBet(0.75), actionabs.NewCheckCall()},
		game.Turn:    actionabs.History{actionabs.NewBet(1.0)},
	}
	got := Encode(game.Turn, 42, history)
	want := "v2:TURN:42:PREFLOP:C-B50-C|FLOP:C-B75-C|TURN:B100"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	history := ByStreet{
		game.Flop: actionabs.History{actionabs.NewBet(0.33)},
	}
	encoded := Encode(game.Flop, 7, history)
	parsed, err := Parse(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Street != game.Flop || parsed.Bucket != 7 {
		t.Errorf("got %+v", parsed)
	}
	if parsed.History[game.Flop].String() != "B33" {
		t.Errorf("history mismatch: %v", parsed.History)
	}
}

func TestParseAcceptsLegacyFormWithoutV2Prefix(t *testing.T) {
	parsed, err := Parse("RIVER:12:")
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Street != game.River || parsed.Bucket != 12 {
		t.Errorf("got %+v", parsed)
	}
}

func TestParseAcceptsDottedHistorySeparator(t *testing.T) {
	parsed, err := Parse("v2:TURN:5:PREFLOP:C.FLOP:B50")
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed.History) != 2 {
		t.Errorf("expected 2 streets of history, got %d", len(parsed.History))
	}
}

func TestRoundTripRecoversStreetAndBucketForAnyTuple(t *testing.T) {
	cases := []struct {
		street game.Street
		bucket int
	}{
		{game.Preflop, 0}, {game.Flop, 79}, {game.Turn, 40}, {game.River, 63},
	}
	for _, c := range cases {
		key := Encode(c.street, c.bucket, ByStreet{})
		parsed, err := Parse(key)
		if err != nil {
			t.Fatalf("Parse(%q): %v", key, err)
		}
		if parsed.Street != c.street || parsed.Bucket != c.bucket {
			t.Errorf("round trip failed for %+v: got %+v", c, parsed)
		}
	}
}
