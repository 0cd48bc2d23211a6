package classification

import (
	"testing"

	"github.com/lox/holdem-solver/poker"
)

func mustHand(t *testing.T, cards ...string) poker.Hand {
	t.Helper()
	var hand poker.Hand
	for _, s := range cards {
		card, err := poker.ParseCard(s)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", s, err)
		}
		hand.AddCard(card)
	}
	return hand
}

func TestDrawTypeString(t *testing.T) {
	cases := map[DrawType]string{
		FlushDraw:             "flush draw",
		NutFlushDraw:          "nut flush draw",
		OpenEndedStraightDraw: "open-ended straight draw",
		Gutshot:               "gutshot",
		DoubleGutshot:         "double gutshot",
		ComboDraw:             "combo draw",
		BackdoorFlush:         "backdoor flush",
		BackdoorStraight:      "backdoor straight",
		Overcards:             "overcards",
		NoDraw:                "no draw",
		DrawType(99):          "unknown",
	}
	for draw, want := range cases {
		if got := draw.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", draw, got, want)
		}
	}
}

func TestDrawInfoHasStrongDraw(t *testing.T) {
	strong := []DrawType{FlushDraw, NutFlushDraw, OpenEndedStraightDraw, ComboDraw}
	for _, d := range strong {
		if !(DrawInfo{Draws: []DrawType{d}}).HasStrongDraw() {
			t.Errorf("%v should count as a strong draw", d)
		}
	}
	weak := []DrawType{Gutshot, NoDraw}
	for _, d := range weak {
		if (DrawInfo{Draws: []DrawType{d}}).HasStrongDraw() {
			t.Errorf("%v should not count as a strong draw", d)
		}
	}
}

func TestDrawInfoHasWeakDraw(t *testing.T) {
	weak := []DrawType{Gutshot, BackdoorFlush, Overcards}
	for _, d := range weak {
		if !(DrawInfo{Draws: []DrawType{d}}).HasWeakDraw() {
			t.Errorf("%v should count as a weak draw", d)
		}
	}
	notWeak := []DrawType{FlushDraw, NoDraw}
	for _, d := range notWeak {
		if (DrawInfo{Draws: []DrawType{d}}).HasWeakDraw() {
			t.Errorf("%v should not count as a weak draw", d)
		}
	}
}

func TestDrawInfoIsComboDraw(t *testing.T) {
	cases := []struct {
		name  string
		draws []DrawType
		outs  int
		want  bool
	}{
		{"two draws, plenty of outs", []DrawType{FlushDraw, OpenEndedStraightDraw}, 15, true},
		{"two draws, too few outs", []DrawType{Gutshot, Overcards}, 7, false},
		{"single draw, plenty of outs", []DrawType{FlushDraw}, 9, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := DrawInfo{Draws: tc.draws, Outs: tc.outs}
			if got := info.IsComboDraw(); got != tc.want {
				t.Errorf("IsComboDraw() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectDraws(t *testing.T) {
	cases := []struct {
		name       string
		hole       []string
		board      []string
		wantFlush  bool
		wantOESD   bool
		wantGutter bool
	}{
		{"no draws", []string{"As", "7h"}, []string{"2c", "9d", "Kh"}, false, false, false},
		{"flush draw", []string{"As", "7s"}, []string{"2s", "9d", "Kh"}, true, false, false},
		{"open-ended", []string{"8h", "9c"}, []string{"Ts", "Jd", "2h"}, false, true, false},
		{"gutshot", []string{"8h", "6c"}, []string{"5s", "9d", "2h"}, false, false, true},
		{"under three on board", []string{"8h", "6c"}, []string{"5s"}, false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := DetectDraws(mustHand(t, tc.hole...), mustHand(t, tc.board...))

			var gotFlush, gotOESD, gotGutshot bool
			for _, d := range result.Draws {
				switch d {
				case FlushDraw, NutFlushDraw:
					gotFlush = true
				case OpenEndedStraightDraw:
					gotOESD = true
				case Gutshot:
					gotGutshot = true
				}
			}

			if gotFlush != tc.wantFlush {
				t.Errorf("flush draw = %v, want %v", gotFlush, tc.wantFlush)
			}
			if gotOESD != tc.wantOESD {
				t.Errorf("OESD = %v, want %v", gotOESD, tc.wantOESD)
			}
			if gotGutshot != tc.wantGutter {
				t.Errorf("gutshot = %v, want %v", gotGutshot, tc.wantGutter)
			}
		})
	}
}

func TestDetectFlushDraw(t *testing.T) {
	cases := []struct {
		name      string
		hole      []string
		board     []string
		wantFlush bool
		wantNut   bool
	}{
		{"no suited draw", []string{"As", "7h"}, []string{"2c", "9d", "Kh"}, false, false},
		{"ace-high flush draw", []string{"As", "7s"}, []string{"2s", "9d", "Kh"}, true, true},
		{"non-nut flush draw", []string{"7s", "6s"}, []string{"2s", "9d", "Kh"}, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectFlushDraw(mustHand(t, tc.hole...), mustHand(t, tc.board...))
			if got.HasFlushDraw != tc.wantFlush {
				t.Errorf("HasFlushDraw = %v, want %v", got.HasFlushDraw, tc.wantFlush)
			}
			if got.IsNutFlushDraw != tc.wantNut {
				t.Errorf("IsNutFlushDraw = %v, want %v", got.IsNutFlushDraw, tc.wantNut)
			}
		})
	}
}

func TestDetectOvercards(t *testing.T) {
	cases := []struct {
		name     string
		hole     []string
		board    []string
		wantOver bool
		wantOuts int
	}{
		{"no overcards", []string{"5s", "7h"}, []string{"Ac", "Kd", "Qh"}, false, 0},
		{"one overcard", []string{"As", "7h"}, []string{"Tc", "9d", "8h"}, true, 3},
		{"two overcards", []string{"As", "Kh"}, []string{"Tc", "9d", "8h"}, true, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hole := mustHand(t, tc.hole...)
			board := mustHand(t, tc.board...)
			got := detectOvercards(hole, board, hole|board)
			if got.HasOvercards != tc.wantOver {
				t.Errorf("HasOvercards = %v, want %v", got.HasOvercards, tc.wantOver)
			}
			if outs := got.OutsMask.CountCards(); outs != tc.wantOuts {
				t.Errorf("outs = %d, want %d", outs, tc.wantOuts)
			}
		})
	}
}

func TestDetectBackdoorFlush(t *testing.T) {
	cases := []struct {
		name  string
		hole  []string
		board []string
		want  bool
	}{
		{"two suited on flop", []string{"Ks", "2h"}, []string{"9s", "4d", "3c"}, true},
		{"monotone flop already a flush draw", []string{"Ks", "2s"}, []string{"9s", "4s", "3c"}, false},
		{"no suited cards", []string{"Ks", "2h"}, []string{"9d", "4d", "3c"}, false},
		{"turn already dealt", []string{"Ks", "2h"}, []string{"9s", "4d", "3c", "Tc"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := detectBackdoorFlush(mustHand(t, tc.hole...), mustHand(t, tc.board...))
			if got.HasBackdoorFlush != tc.want {
				t.Errorf("HasBackdoorFlush = %v, want %v", got.HasBackdoorFlush, tc.want)
			}
		})
	}
}
