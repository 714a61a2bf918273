package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnorm/cmd/docnorm/commands"
	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
)

var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docnorm"),
		kong.Description("Normalize exported documentation trees: strip export noise, fix links, and repair mermaid flowchart branch labels."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	global := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(global, &cli); err != nil {
		slog.Error("Command failed",
			slog.String("category", string(errors.CategoryOf(err))),
			logfields.Error(err))
		if errors.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
