package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/events"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/metrics"
	"git.home.luguber.info/inful/docnorm/internal/mirror"
	"git.home.luguber.info/inful/docnorm/internal/normalize"
	"git.home.luguber.info/inful/docnorm/internal/state"
	"git.home.luguber.info/inful/docnorm/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Input  string `arg:"" help:"Input documentation directory" type:"path"`
	Output string `arg:"" optional:"" help:"Output directory (omit with --in-place)" type:"path"`

	InPlace bool `name:"in-place" help:"Rewrite the input tree instead of mirroring to an output directory"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	if w.Output == "" && !w.InPlace {
		return errors.New(errors.CategoryUsage, "an output directory is required unless --in-place is set")
	}
	if w.InPlace && w.Output != "" {
		return errors.New(errors.CategoryUsage, "--in-place and an output directory are mutually exclusive")
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}

	output := w.Output
	if w.InPlace {
		output = w.Input
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheusRecorder()
		recorder = prom
		metricsServer = startMetricsServer(cfg.Metrics.Listen, prom)
	}

	opts := []mirror.Option{mirror.WithRecorder(recorder)}
	if cfg.State.Path != "" {
		store, serr := state.Open(cfg.State.Path)
		if serr != nil {
			return serr
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, mirror.WithStateStore(store))
	}

	var publisher *events.Publisher
	if cfg.NATS.Enabled {
		publisher, err = events.NewPublisher(cfg.NATS)
		if err != nil {
			return err
		}
		defer publisher.Close()
	}

	walker := mirror.New(normalize.New(cfg), opts...)

	runner := func(ctx context.Context, runID string) error {
		result, rerr := walker.Process(w.Input, output, false)
		if rerr != nil {
			return rerr
		}
		slog.Info("Pass complete",
			logfields.RunID(runID),
			logfields.Files(result.FilesSeen),
			logfields.Changed(len(result.Changed)),
			logfields.Relocated(result.Diagrams.Relocated))
		if publisher != nil {
			for _, rel := range result.Changed {
				event := &events.DocumentChangedEvent{RunID: runID, RelPath: rel}
				if perr := publisher.PublishChanged(ctx, event); perr != nil {
					slog.Warn("Failed to publish change event", logfields.RelPath(rel), logfields.Error(perr))
				}
			}
		}
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("Watching for changes", logfields.Input(w.Input), logfields.Output(output))
	err = watch.New(w.Input, cfg.Watch, runner).Run(ctx)

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if serr := metricsServer.Shutdown(shutdownCtx); serr != nil {
			slog.Warn("Metrics server shutdown error", logfields.Error(serr))
		}
	}
	return err
}

func startMetricsServer(listen string, prom *metrics.PrometheusRecorder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", prom.Handler())
	server := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Metrics endpoint listening", slog.String("addr", listen))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Metrics server failed", logfields.Error(err))
		}
	}()
	return server
}
