package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"

	"github.com/lox/holdem-solver/internal/logging"
)

var cli struct {
	Debug    bool `help:"enable debug logging"`
	JSONLogs bool `help:"emit structured JSON logs instead of console output"`

	BuildAbstraction BuildAbstractionCmd `cmd:"" name:"build-abstraction" help:"fit a card abstraction and write a bucket file"`
	Train            TrainCmd            `cmd:"" help:"run MCCFR blueprint training"`
	Resolve          ResolveCmd          `cmd:"" help:"dry-run real-time resolve against a table-state file"`
	Inspect          InspectCmd          `cmd:"" help:"print blueprint or checkpoint metadata"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("solver"),
		kong.Description("No-Limit Hold'em MCCFR training core"),
		kong.UsageOnError(),
	)

	if cli.JSONLogs {
		log.Logger = logging.SetupJSON(cli.Debug)
	} else {
		log.Logger = logging.Setup(cli.Debug)
	}

	if err := kctx.Run(); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", kctx.Command())
		os.Exit(1)
	}
}
