package poker

import "testing"

func categorize(t *testing.T, a, b string) HoleCardCategory {
	t.Helper()
	card1, err := ParseCard(a)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", a, err)
	}
	card2, err := ParseCard(b)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", b, err)
	}
	return CategorizeHoleCards(card1, card2)
}

func TestCategorizeHoleCardsPremium(t *testing.T) {
	for _, hand := range [][2]string{{"As", "Ah"}, {"Kh", "Kd"}, {"Qc", "Qs"}, {"Jh", "Jd"}, {"As", "Ks"}, {"Ac", "Kh"}} {
		if got := categorize(t, hand[0], hand[1]); got != CategoryPremium {
			t.Errorf("categorize(%s, %s) = %s, want Premium", hand[0], hand[1], got)
		}
	}
}

func TestCategorizeHoleCardsStrong(t *testing.T) {
	for _, hand := range [][2]string{{"Tc", "Th"}, {"As", "Qs"}, {"Ac", "Qh"}, {"As", "Js"}, {"Ad", "Jc"}} {
		if got := categorize(t, hand[0], hand[1]); got != CategoryStrong {
			t.Errorf("categorize(%s, %s) = %s, want Strong", hand[0], hand[1], got)
		}
	}
}

func TestCategorizeHoleCardsMedium(t *testing.T) {
	for _, hand := range [][2]string{{"9c", "9h"}, {"8d", "8s"}, {"7h", "7c"}, {"Ks", "Qs"}, {"Kh", "Jh"}, {"Qd", "Jd"}} {
		if got := categorize(t, hand[0], hand[1]); got != CategoryMedium {
			t.Errorf("categorize(%s, %s) = %s, want Medium", hand[0], hand[1], got)
		}
	}
}

func TestCategorizeHoleCardsWeak(t *testing.T) {
	for _, hand := range [][2]string{{"6c", "6h"}, {"5d", "5s"}, {"4h", "4c"}, {"3s", "3d"}, {"2c", "2h"}, {"7h", "6h"}, {"5d", "4d"}} {
		if got := categorize(t, hand[0], hand[1]); got != CategoryWeak {
			t.Errorf("categorize(%s, %s) = %s, want Weak", hand[0], hand[1], got)
		}
	}
}

func TestCategorizeHoleCardsTrash(t *testing.T) {
	for _, hand := range [][2]string{{"7c", "2h"}, {"9d", "3s"}, {"Jh", "4c"}} {
		if got := categorize(t, hand[0], hand[1]); got != CategoryTrash {
			t.Errorf("categorize(%s, %s) = %s, want Trash", hand[0], hand[1], got)
		}
	}
}
