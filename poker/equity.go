package poker

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Range samples a single hole-card pair from the cards still available,
// weighting however a concrete range (random, tight, a frequency table)
// chooses to.
type Range interface {
	SampleHand(available []Card, rng *rand.Rand) (Card, Card, bool)
}

// UniformRange samples two cards uniformly from those available — the
// "random villain" range used by default equity estimation and by the card
// abstraction's postflop feature extraction.
type UniformRange struct{}

func (UniformRange) SampleHand(available []Card, rng *rand.Rand) (Card, Card, bool) {
	if len(available) < 2 {
		return 0, 0, false
	}
	i := rng.Intn(len(available))
	j := rng.Intn(len(available) - 1)
	if j >= i {
		j++
	}
	return available[i], available[j], true
}

func availableCards(excluded Hand) []Card {
	cards := make([]Card, 0, 52-excluded.CountCards())
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := NewCard(rank, suit)
			if !excluded.HasCard(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

// SampleFutureBoard draws, uniformly without replacement from the cards not
// in current and not in excluded, enough cards to bring the board up to
// targetCount community cards.
func SampleFutureBoard(current Hand, excluded Hand, targetCount int, rng *rand.Rand) Hand {
	need := targetCount - current.CountCards()
	if need <= 0 {
		return current
	}
	pool := availableCards(current | excluded)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	board := current
	for i := 0; i < need && i < len(pool); i++ {
		board.AddCard(pool[i])
	}
	return board
}

// EstimateEquity runs a Monte-Carlo estimate of hero's equity against
// villainRange given the current board, dispatching to a parallel
// implementation once the sample count makes the fan-out worthwhile.
func EstimateEquity(heroHole [2]Card, board Hand, villainRange Range, numSamples int, rng *rand.Rand) float64 {
	if numSamples >= 400 {
		return estimateEquityParallel(heroHole, board, villainRange, numSamples, rng)
	}
	return estimateEquitySequential(heroHole, board, villainRange, numSamples, rng)
}

func estimateEquitySequential(heroHole [2]Card, board Hand, villainRange Range, numSamples int, rng *rand.Rand) float64 {
	hero := NewHand(heroHole[0], heroHole[1])
	var wins, ties, valid int
	for i := 0; i < numSamples; i++ {
		w, t, ok := runEquitySample(hero, board, villainRange, rng)
		if !ok {
			continue
		}
		valid++
		if w {
			wins++
		} else if t {
			ties++
		}
	}
	if valid == 0 {
		return 0
	}
	return (float64(wins) + float64(ties)/2) / float64(valid)
}

func estimateEquityParallel(heroHole [2]Card, board Hand, villainRange Range, numSamples int, rng *rand.Rand) float64 {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 1 {
		workers = 1
	}
	per := numSamples / workers
	remainder := numSamples % workers

	hero := NewHand(heroHole[0], heroHole[1])
	type tally struct{ wins, ties, valid int }
	results := make([]tally, workers)

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		w := w
		workerSamples := per
		if w < remainder {
			workerSamples++
		}
		workerSeed := rng.Int63()
		g.Go(func() error {
			workerRng := rand.New(rand.NewSource(workerSeed))
			var wins, ties, valid int
			for i := 0; i < workerSamples; i++ {
				win, tie, ok := runEquitySample(hero, board, villainRange, workerRng)
				if !ok {
					continue
				}
				valid++
				if win {
					wins++
				} else if tie {
					ties++
				}
			}
			results[w] = tally{wins, ties, valid}
			return nil
		})
	}
	_ = g.Wait()

	var totalWins, totalTies, totalValid int
	for _, r := range results {
		totalWins += r.wins
		totalTies += r.ties
		totalValid += r.valid
	}
	if totalValid == 0 {
		return 0
	}
	return (float64(totalWins) + float64(totalTies)/2) / float64(totalValid)
}

func runEquitySample(hero, board Hand, villainRange Range, rng *rand.Rand) (win, tie, ok bool) {
	used := hero | board
	available := availableCards(used)
	v1, v2, sampled := villainRange.SampleHand(available, rng)
	if !sampled {
		return false, false, false
	}
	villain := NewHand(v1, v2)

	finalBoard := SampleFutureBoard(board, hero|villain, 5, rng)
	if finalBoard.CountCards() != 5 {
		return false, false, false
	}

	heroRank := Evaluate7Cards(hero | finalBoard)
	villainRank := Evaluate7Cards(villain | finalBoard)
	switch CompareHands(heroRank, villainRank) {
	case 1:
		return true, false, true
	case 0:
		return false, true, true
	default:
		return false, false, true
	}
}
