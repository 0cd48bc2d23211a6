package actionabs

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	cases := []Action{NewFold(), NewCheckCall(), NewAllIn(), NewBet(0.5), NewBet(0.25), NewBet(1.5)}
	for _, a := range cases {
		tok := a.Token()
		parsed, err := ParseToken(tok)
		if err != nil {
			t.Fatalf("ParseToken(%q): %v", tok, err)
		}
		if !parsed.Equal(a) {
			t.Errorf("round trip mismatch: got %v want %v", parsed, a)
		}
	}
}

func TestHistoryStringMatchesSpecExample(t *testing.T) {
	// Mirrors spec scenario E3's per-street action sequences.
	h := History{NewCheckCall(), NewBet(0.5), NewCheckCall()}
	if got := h.String(); got != "C-B50-C" {
		t.Errorf("got %q, want C-B50-C", got)
	}
}

func TestParseHistory(t *testing.T) {
	h, err := ParseHistory("C-B75-C")
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 3 || h[1].Token() != "B75" {
		t.Errorf("got %v", h)
	}
}

func TestBuildMenuFacingBetIncludesFold(t *testing.T) {
	cfg := DefaultMenuConfig()
	menu := BuildMenu(cfg, Geometry{Pot: 100, ToCall: 50, EffectiveStack: 1000, MinRaise: 50})
	if !containsKind(menu, Fold) {
		t.Error("expected FOLD in menu when facing a bet")
	}
	if !containsKind(menu, CheckCall) {
		t.Error("expected CHECK_CALL always present")
	}
}

func TestBuildMenuShallowStackForcesAllIn(t *testing.T) {
	cfg := DefaultMenuConfig()
	menu := BuildMenu(cfg, Geometry{Pot: 100, ToCall: 0, EffectiveStack: 150, MinRaise: 10})
	if !containsAllIn(menu) {
		t.Error("expected ALL_IN when stack <= 2x pot")
	}
}

func TestBackMapIdempotence(t *testing.T) {
	cfg := DefaultMenuConfig()
	g := Geometry{Pot: 100, ToCall: 0, EffectiveStack: 1000, MinRaise: 10}
	menu := BuildMenu(cfg, g)
	for _, a := range menu {
		amount, _ := BackMap(a, g)
		got := ReAbstract(amount, g, menu)
		if !got.Equal(a) {
			t.Errorf("BackMap/ReAbstract not idempotent for %v: amount=%d -> %v", a, amount, got)
		}
	}
}

func TestBackMapClampsToAllIn(t *testing.T) {
	g := Geometry{Pot: 1000, ToCall: 0, EffectiveStack: 200, MinRaise: 10}
	amount, allIn := BackMap(NewBet(2.0), g)
	if !allIn || amount != 200 {
		t.Errorf("expected clamped all-in of 200, got amount=%d allIn=%v", amount, allIn)
	}
}
