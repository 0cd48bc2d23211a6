package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lox/holdem-solver/internal/abstraction"
	"github.com/lox/holdem-solver/internal/actionabs"
	"github.com/lox/holdem-solver/internal/blueprint"
	"github.com/lox/holdem-solver/internal/game"
	"github.com/lox/holdem-solver/internal/gametree"
	"github.com/lox/holdem-solver/internal/infoset"
	"github.com/lox/holdem-solver/internal/resolve"
	"github.com/lox/holdem-solver/poker"
)

// ResolveCmd runs one real-time resolve pass against a TableState JSON file
// and prints the resulting AbstractAction mixed strategy. It is a dry-run
// harness: nothing here drives a live table.
type ResolveCmd struct {
	TableState  string `help:"path to a TableState JSON file" arg:"" type:"existingfile"`
	Blueprint   string `help:"path to a blueprint JSON file" required:""`
	Abstraction string `help:"path to a bucket file written by build-abstraction" required:""`
	Seed        int64  `help:"random seed (0 uses time seed)"`
	TimeBudget  int    `help:"wall-clock resolve budget in milliseconds" default:"200"`
	Lookahead   int    `help:"lookahead depth in streets" default:"1"`
}

// tablePlayerJSON is one seat's live betting state, as read from a
// TableState file (spec §4's upstream TableState record, narrowed to what
// the resolver needs to rebuild a gametree.State).
type tablePlayerJSON struct {
	Stack     int    `json:"stack"`
	StreetBet int    `json:"street_bet"`
	TotalBet  int    `json:"total_bet"`
	Folded    bool   `json:"folded"`
	AllIn     bool   `json:"all_in"`
	HasActed  bool   `json:"has_acted"`
	Hole      []string `json:"hole"`
}

type tableStateJSON struct {
	Players  []tablePlayerJSON `json:"players"`
	Board    []string          `json:"board"`
	Street   string            `json:"street"`
	Button   int               `json:"button"`
	ToAct    int               `json:"to_act"`
	Pot      int               `json:"pot"`
	BigBlind int               `json:"big_blind"`
	MinRaise int               `json:"min_raise"`
	History  string            `json:"history"` // compact per-street token string for the current street only
}

func (cmd *ResolveCmd) Run() error {
	ts, err := readTableState(cmd.TableState)
	if err != nil {
		return fmt.Errorf("read table state: %w", err)
	}

	bucket, err := abstraction.Load(cmd.Abstraction)
	if err != nil {
		return fmt.Errorf("load abstraction: %w", err)
	}
	bp, err := blueprint.Load(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	if bp.AbstractionHash != fmt.Sprintf("%x", bucket.Hash()) {
		return fmt.Errorf("resolve: blueprint was built with a different abstraction than %s", cmd.Abstraction)
	}

	seed := cmd.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	state, err := ts.toGameTreeState()
	if err != nil {
		return fmt.Errorf("build game state: %w", err)
	}

	history := infoset.ByStreet{}
	if ts.History != "" {
		h, err := actionabs.ParseHistory(ts.History)
		if err != nil {
			return fmt.Errorf("parse history: %w", err)
		}
		history[state.Street] = h
	}

	resolver := resolve.NewResolver(bp, bucket, actionabs.DefaultMenuConfig())
	cfg := resolve.DefaultConfig()
	cfg.TimeBudgetMs = cmd.TimeBudget
	cfg.LookaheadStreets = cmd.Lookahead

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cmd.TimeBudget*4)*time.Millisecond)
	defer cancel()

	result, err := resolver.Resolve(ctx, state, history, state.ActivePlayer(), cfg, rng)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	log.Info().
		Int("iterations", result.Iterations).
		Bool("fallback", result.Fallback).
		Float64("kl_divergence", result.KLDivergence).
		Msg("resolve completed")

	for i, a := range result.Actions {
		fmt.Printf("%-8s %.4f\n", a.Token(), result.Probs[i])
	}
	return nil
}

func readTableState(path string) (tableStateJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return tableStateJSON{}, err
	}
	defer f.Close()
	var ts tableStateJSON
	if err := json.NewDecoder(f).Decode(&ts); err != nil {
		return tableStateJSON{}, err
	}
	return ts, nil
}

func (ts tableStateJSON) toGameTreeState() (gametree.State, error) {
	street, err := game.ParseStreet(ts.Street)
	if err != nil {
		return gametree.State{}, err
	}

	board, err := parseBoard(ts.Board)
	if err != nil {
		return gametree.State{}, err
	}

	players := make([]gametree.PlayerState, len(ts.Players))
	hole := make([][2]poker.Card, len(ts.Players))
	for i, p := range ts.Players {
		players[i] = gametree.PlayerState{
			Stack:     p.Stack,
			StreetBet: p.StreetBet,
			TotalBet:  p.TotalBet,
			Folded:    p.Folded,
			AllIn:     p.AllIn,
			HasActed:  p.HasActed,
		}
		cards, err := poker.ParseCards(joinTwo(p.Hole))
		if err != nil {
			return gametree.State{}, fmt.Errorf("seat %d hole cards: %w", i, err)
		}
		if len(cards) == 2 {
			hole[i] = [2]poker.Card{cards[0], cards[1]}
		}
	}

	return gametree.State{
		Players:  players,
		Hole:     hole,
		Board:    board,
		Street:   street,
		Button:   ts.Button,
		ToAct:    ts.ToAct,
		Pot:      ts.Pot,
		BigBlind: ts.BigBlind,
		MinRaise: ts.MinRaise,
	}, nil
}

func parseBoard(cards []string) (poker.Hand, error) {
	var h poker.Hand
	for _, c := range cards {
		card, err := poker.ParseCard(c)
		if err != nil {
			return 0, err
		}
		h.AddCard(card)
	}
	return h, nil
}

func joinTwo(cards []string) string {
	out := ""
	for _, c := range cards {
		out += c
	}
	return out
}
