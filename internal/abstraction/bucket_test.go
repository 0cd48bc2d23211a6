package abstraction

import (
	"testing"

	"github.com/lox/holdem-solver/internal/game"
	"github.com/lox/holdem-solver/poker"
)

func TestPreflopBucketDeterministic(t *testing.T) {
	table := BuildPreflopTable(24, 42, 50)
	aces := [2]poker.Card{poker.NewCard(poker.Ace, poker.Spades), poker.NewCard(poker.Ace, poker.Hearts)}
	b1 := table.Bucket(aces)
	b2 := table.Bucket(aces)
	if b1 != b2 {
		t.Errorf("expected deterministic bucket, got %d then %d", b1, b2)
	}
	if b1 < 0 || b1 >= 24 {
		t.Errorf("bucket %d out of range [0,24)", b1)
	}
}

func TestPreflopBucketSuitedVsOffsuitSeparated(t *testing.T) {
	table := BuildPreflopTable(24, 42, 50)
	suited := [2]poker.Card{poker.NewCard(poker.King, poker.Spades), poker.NewCard(poker.Queen, poker.Spades)}
	offsuit := [2]poker.Card{poker.NewCard(poker.King, poker.Spades), poker.NewCard(poker.Queen, poker.Hearts)}
	if table.Bucket(suited) < table.Bucket(offsuit) {
		t.Error("expected suited combo to bucket at least as high as the offsuit version")
	}
}

func TestKMeansAssignIsDeterministic(t *testing.T) {
	samples := [][]float64{
		{0, 0}, {0.1, 0.1}, {5, 5}, {5.1, 4.9}, {10, 0}, {10.1, 0.1},
	}
	model := FitKMeans(samples, 3, 7, 20)
	for _, s := range samples {
		a := model.Assign(model.Normalize(s))
		b := model.Assign(model.Normalize(s))
		if a != b {
			t.Errorf("non-deterministic assignment for %v: %d vs %d", s, a, b)
		}
	}
}

func TestBucketConfigValidateRejectsBadPlayerCount(t *testing.T) {
	cfg := DefaultBucketConfig()
	cfg.NumPlayers = 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for 1 player")
	}
}

func TestTopBucketCategoryCountsFavorsPremiumHands(t *testing.T) {
	table := BuildPreflopTable(24, 42, 100)
	counts := table.TopBucketCategoryCounts()
	if counts[poker.CategoryPremium] == 0 {
		t.Error("expected at least one Premium combo (AA, KK, AK, ...) in the top bucket")
	}
	if counts[poker.CategoryTrash] > 0 {
		t.Errorf("did not expect any Trash combo in the top bucket, got %d", counts[poker.CategoryTrash])
	}
}

func TestBucketOfPreflopInRange(t *testing.T) {
	cfg := DefaultBucketConfig()
	cfg.NumSamplingHands = 20
	b, err := Fit(cfg)
	if err != nil {
		t.Fatal(err)
	}
	hole := [2]poker.Card{poker.NewCard(poker.Ace, poker.Spades), poker.NewCard(poker.King, poker.Spades)}
	bucket, err := b.BucketOf(game.Preflop, hole, 0, PostflopInputs{})
	if err != nil {
		t.Fatal(err)
	}
	if bucket < 0 || bucket >= cfg.PreflopBuckets {
		t.Errorf("bucket %d out of range", bucket)
	}
}
