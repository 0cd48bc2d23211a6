package abstraction

import (
	"fmt"
	"math/rand"

	"github.com/lox/holdem-solver/internal/game"
	"github.com/lox/holdem-solver/poker"
)

// Bucketer is the fitted card abstraction: a preflop direct table plus a
// K-means model per postflop street. BucketOf is the sole entry point at
// training and resolve time, and is a pure function of its inputs given a
// fitted Bucketer (spec invariant 3).
type Bucketer struct {
	Config BucketConfig
	Preflop PreflopTable
	Flop    KMeansModel
	Turn    KMeansModel
	River   KMeansModel
}

// Fit samples NumSamplingHands postflop feature vectors per street and runs
// K-means with the configured cluster counts and build seed. Preflop is
// handled as a direct table built alongside.
func Fit(cfg BucketConfig) (*Bucketer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.BuildSeed))

	b := &Bucketer{
		Config:  cfg,
		Preflop: BuildPreflopTable(cfg.PreflopBuckets, cfg.BuildSeed, 400),
	}

	b.Flop = fitStreet(cfg, cfg.FlopBuckets, 3, rng)
	b.Turn = fitStreet(cfg, cfg.TurnBuckets, 4, rng)
	b.River = fitStreet(cfg, cfg.RiverBuckets, 5, rng)

	return b, nil
}

func fitStreet(cfg BucketConfig, k, boardCards int, rng *rand.Rand) KMeansModel {
	samples := make([][]float64, 0, cfg.NumSamplingHands)
	for i := 0; i < cfg.NumSamplingHands; i++ {
		hole, board := randomHoleAndBoard(rng, boardCards)
		feats := PostflopFeatures(PostflopInputs{
			Hole:          hole,
			Board:         board,
			InPosition:    i%2 == 0,
			SPR:           1 + rng.Float64()*10,
			RNG:           rng,
			EquitySamples: 150,
		})
		samples = append(samples, feats[:])
	}
	return FitKMeans(samples, k, cfg.BuildSeed+int64(boardCards), 50)
}

func randomHoleAndBoard(rng *rand.Rand, boardCards int) ([2]poker.Card, poker.Hand) {
	var used poker.Hand
	draw := func() poker.Card {
		for {
			c := poker.NewCard(uint8(rng.Intn(13)), uint8(rng.Intn(4)))
			if !used.HasCard(c) {
				used.AddCard(c)
				return c
			}
		}
	}
	hole := [2]poker.Card{draw(), draw()}
	var board poker.Hand
	for i := 0; i < boardCards; i++ {
		board.AddCard(draw())
	}
	return hole, board
}

// BucketOf computes the abstraction bucket for a (street, hole, board)
// triple. Deterministic given a fitted Bucketer.
func (b *Bucketer) BucketOf(street game.Street, hole [2]poker.Card, board poker.Hand, extra PostflopInputs) (int, error) {
	switch street {
	case game.Preflop:
		return b.Preflop.Bucket(hole), nil
	case game.Flop, game.Turn, game.River:
		model := b.modelFor(street)
		extra.Hole = hole
		extra.Board = board
		feats := PostflopFeatures(extra)
		normalized := model.Normalize(feats[:])
		return model.Assign(normalized), nil
	default:
		return 0, fmt.Errorf("abstraction: unknown street %v", street)
	}
}

func (b *Bucketer) modelFor(street game.Street) KMeansModel {
	switch street {
	case game.Flop:
		return b.Flop
	case game.Turn:
		return b.Turn
	default:
		return b.River
	}
}

// Hash returns the abstraction hash for this fitted Bucketer.
func (b *Bucketer) Hash() [32]byte {
	return Hash(b.Config, b.Flop, b.Turn, b.River)
}
