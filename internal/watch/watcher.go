// Package watch re-runs normalization when the input tree changes.
// Filesystem events are debounced so editor save bursts collapse into a
// single run; an optional periodic rescan catches anything the watcher
// missed.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
)

// Runner executes one normalization pass. The runID correlates log lines
// and published events belonging to the same pass.
type Runner func(ctx context.Context, runID string) error

// Watcher drives repeated runs over an input directory.
type Watcher struct {
	inputDir string
	cfg      config.WatchConfig
	run      Runner
}

// New creates a Watcher. Runs triggered by filesystem events are coalesced
// over cfg.Debounce; cfg.RescanInterval schedules unconditional runs.
func New(inputDir string, cfg config.WatchConfig, run Runner) *Watcher {
	return &Watcher{inputDir: inputDir, cfg: cfg, run: run}
}

// Run performs an initial pass and then blocks, re-running on changes,
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "create filesystem watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := addDirsRecursive(watcher, w.inputDir); err != nil {
		return err
	}

	runReq := make(chan struct{}, 1)
	trigger := w.debouncedTrigger(runReq)

	scheduler, err := w.startRescanScheduler(runReq)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { _ = scheduler.Shutdown() }()
	}

	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watch mode")
			return nil
		case <-runReq:
			w.runOnce(ctx)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	runID := uuid.NewString()
	slog.Info("Starting normalization pass", logfields.RunID(runID), logfields.Input(w.inputDir))
	if err := w.run(ctx, runID); err != nil {
		slog.Error("Normalization pass failed", logfields.RunID(runID), logfields.Error(err))
	}
}

// debouncedTrigger returns a function that, after a quiet window of
// cfg.Debounce, posts a run request. Requests piling up while a run is
// pending coalesce into one.
func (w *Watcher) debouncedTrigger(runReq chan struct{}) func() {
	var mu sync.Mutex
	var timer *time.Timer

	debounce := w.cfg.Debounce
	if debounce <= 0 {
		debounce = 100 * time.Millisecond
	}

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case runReq <- struct{}{}:
			default:
			}
		})
	}
}

func (w *Watcher) startRescanScheduler(runReq chan struct{}) (gocron.Scheduler, error) {
	if w.cfg.RescanInterval <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "create rescan scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(w.cfg.RescanInterval),
		gocron.NewTask(func() {
			slog.Debug("Periodic rescan due")
			select {
			case runReq <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("rescan"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, errors.Wrap(err, errors.CategoryInternal, "schedule periodic rescan")
	}
	scheduler.Start()
	slog.Info("Periodic rescan enabled", slog.Duration("interval", w.cfg.RescanInterval))
	return scheduler, nil
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// New directories must be added before their contents change unseen.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters hidden files and editor temp/swap files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return false
}
