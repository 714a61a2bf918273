package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/events"
	"git.home.luguber.info/inful/docnorm/internal/gitsource"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/mirror"
	"git.home.luguber.info/inful/docnorm/internal/normalize"
	"git.home.luguber.info/inful/docnorm/internal/ordinal"
	"git.home.luguber.info/inful/docnorm/internal/state"
)

// NormalizeCmd implements the 'normalize' command.
type NormalizeCmd struct {
	Input  string `arg:"" optional:"" help:"Input documentation directory" type:"path"`
	Output string `arg:"" optional:"" help:"Output directory (omit with --in-place)" type:"path"`

	InPlace  bool   `name:"in-place" help:"Rewrite the input tree instead of mirroring to an output directory"`
	DryRun   bool   `name:"dry-run" help:"Report what would change without writing anything"`
	Repo     string `name:"repo" help:"Clone this git repository and use its tree as input"`
	Branch   string `name:"branch" help:"Branch to clone with --repo"`
	Ordinals bool   `name:"ordinals" help:"Rename documents with README-index ordinal prefixes after normalizing"`
}

func (n *NormalizeCmd) Run(_ *Global, root *CLI) error {
	if n.Input == "" && n.Repo == "" {
		return errors.New(errors.CategoryUsage, "an input directory or --repo is required")
	}
	if n.Output == "" && !n.InPlace {
		return errors.New(errors.CategoryUsage, "an output directory is required unless --in-place is set")
	}
	if n.InPlace && n.Output != "" {
		return errors.New(errors.CategoryUsage, "--in-place and an output directory are mutually exclusive")
	}
	if n.Branch != "" && n.Repo == "" {
		return errors.New(errors.CategoryUsage, "--branch requires --repo")
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	input := n.Input
	if n.Repo != "" {
		client := gitsource.NewClient(n.Input)
		checkout, cerr := client.Clone(n.Repo, n.Branch)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if n.InPlace {
				return
			}
			if rerr := client.Cleanup(checkout); rerr != nil {
				slog.Warn("Failed to clean up checkout", logfields.Error(rerr))
			}
		}()
		input = checkout
	}

	output := n.Output
	if n.InPlace {
		output = input
	}

	opts := []mirror.Option{}
	if cfg.State.Path != "" {
		store, serr := state.Open(cfg.State.Path)
		if serr != nil {
			return serr
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, mirror.WithStateStore(store))
	}

	normalizer := normalize.New(cfg)
	walker := mirror.New(normalizer, opts...)

	result, err := walker.Process(input, output, n.DryRun)
	if err != nil {
		return err
	}

	changed := append([]string(nil), result.Changed...)
	if n.Ordinals {
		ordinalChanged, oerr := applyOrdinals(output, normalizer, n.DryRun)
		if oerr != nil {
			return oerr
		}
		changed = append(changed, ordinalChanged...)
	}

	if n.DryRun {
		for _, rel := range changed {
			fmt.Println(rel)
		}
	}

	if cfg.NATS.Enabled && !n.DryRun {
		if perr := publishChanged(cfg.NATS, result.Changed); perr != nil {
			slog.Warn("Failed to publish change events", logfields.Error(perr))
		}
	}

	slog.Info("Normalization complete",
		logfields.Input(input),
		logfields.Output(output),
		logfields.Files(result.FilesSeen),
		logfields.Changed(len(changed)),
		logfields.Diagrams(result.Diagrams.Blocks),
		logfields.Relocated(result.Diagrams.Relocated),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return nil
}

// applyOrdinals runs the ordinal pass in every directory that carries a
// README.md, including the output root.
func applyOrdinals(outputDir string, n *normalize.Normalizer, dryRun bool) ([]string, error) {
	var changed []string
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "README.md" {
			return err
		}
		result, oerr := ordinal.Apply(filepath.Dir(path), n, dryRun)
		if oerr != nil {
			return oerr
		}
		dirRel, rerr := filepath.Rel(outputDir, filepath.Dir(path))
		if rerr != nil {
			return errors.Wrap(rerr, errors.CategoryFileSystem, "relativize path")
		}
		for _, rel := range result.Changed {
			changed = append(changed, filepath.ToSlash(filepath.Join(dirRel, rel)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return changed, nil
}

func publishChanged(cfg config.NATSConfig, changed []string) error {
	if len(changed) == 0 {
		return nil
	}
	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	ctx := context.Background()
	for _, rel := range changed {
		event := &events.DocumentChangedEvent{RelPath: rel}
		if err := publisher.PublishChanged(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
