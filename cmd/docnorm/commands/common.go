// Package commands defines the docnorm CLI surface.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global carries state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition with global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Normalize NormalizeCmd `cmd:"" help:"Normalize a documentation tree into an output directory"`
	Watch     WatchCmd     `cmd:"" help:"Normalize continuously, re-running when the input tree changes"`
	Export    ExportCmd    `cmd:"" help:"Convert normalized project directories to PDF"`
	Init      InitCmd      `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
