package main

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-solver/internal/blueprint"
	"github.com/lox/holdem-solver/internal/checkpoint"
	"github.com/lox/holdem-solver/internal/cliui"
)

// InspectCmd prints blueprint or checkpoint metadata without loading the
// full regret table into memory, so a large training run's progress can be
// checked cheaply.
type InspectCmd struct {
	Path string `help:"path to a blueprint JSON file or a checkpoint directory" arg:""`
}

func (cmd *InspectCmd) Run() error {
	if strings.HasSuffix(cmd.Path, ".json") {
		return cmd.inspectBlueprint()
	}
	return cmd.inspectCheckpoint()
}

func (cmd *InspectCmd) inspectBlueprint() error {
	bp, err := blueprint.Load(cmd.Path)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	fmt.Println(cliui.Banner("blueprint"))
	fmt.Println(cliui.Field("path", cmd.Path))
	fmt.Println(cliui.Field("abstraction_hash", bp.AbstractionHash))
	fmt.Println(cliui.Field("players", fmt.Sprintf("%d", bp.NumPlayers)))
	fmt.Println(cliui.Field("iterations", fmt.Sprintf("%d", bp.Iterations)))
	fmt.Println(cliui.Field("infosets", fmt.Sprintf("%d", len(bp.Strategies))))
	fmt.Println(cliui.Field("generated_at", bp.GeneratedAt.String()))
	return nil
}

func (cmd *InspectCmd) inspectCheckpoint() error {
	if !checkpoint.Exists(cmd.Path) {
		return fmt.Errorf("inspect: no checkpoint found at %s", cmd.Path)
	}
	// LoadMetadataOnly skips the abstraction-hash and player-count checks
	// that Load applies; inspect has no live values to check against.
	meta, stats, err := checkpoint.LoadMetadataOnly(cmd.Path)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}
	fmt.Println(cliui.Banner("checkpoint"))
	fmt.Println(cliui.Field("path", cmd.Path))
	fmt.Println(cliui.Field("abstraction_hash", meta.AbstractionHash))
	fmt.Println(cliui.Field("players", fmt.Sprintf("%d", meta.NumPlayers)))
	fmt.Println(cliui.Field("iteration", fmt.Sprintf("%d", meta.Iteration)))
	fmt.Println(cliui.Field("generated_at", meta.GeneratedAt.String()))
	fmt.Println(cliui.Field("epsilon", fmt.Sprintf("%.4f", meta.Training.Epsilon)))
	fmt.Println(cliui.Field("nodes_visited", fmt.Sprintf("%d", stats.NodesVisited)))
	return nil
}
