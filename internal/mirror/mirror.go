// Package mirror walks an input tree and produces the normalized output
// tree: markdown documents go through the transform pipeline, everything
// else is copied byte-identically to the mirrored path.
package mirror

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
	"git.home.luguber.info/inful/docnorm/internal/mermaid"
	"git.home.luguber.info/inful/docnorm/internal/metrics"
	"git.home.luguber.info/inful/docnorm/internal/normalize"
	"git.home.luguber.info/inful/docnorm/internal/state"
)

// Result summarizes one full pass over the tree.
type Result struct {
	FilesSeen int
	Copied    int
	// Changed lists, in walk order, the relative path of every document
	// whose normalized content differs from the original.
	Changed  []string
	Diagrams mermaid.Stats
	Duration time.Duration
}

// Walker drives the per-file processing.
type Walker struct {
	normalizer *normalize.Normalizer
	recorder   metrics.Recorder
	store      *state.Store
}

// Option configures a Walker.
type Option func(*Walker)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(w *Walker) { w.recorder = r }
}

// WithStateStore enables incremental skipping of unchanged inputs.
func WithStateStore(s *state.Store) Option {
	return func(w *Walker) { w.store = s }
}

// New creates a Walker around a normalizer pipeline.
func New(n *normalize.Normalizer, opts ...Option) *Walker {
	w := &Walker{normalizer: n, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process walks inputDir and writes results under outputDir. In dry-run mode
// nothing is written; Result.Changed still reports what would change. A
// file's output is only ever written after its whole transform completed.
func (w *Walker) Process(inputDir, outputDir string, dryRun bool) (*Result, error) {
	start := time.Now()
	result := &Result{}

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, "walk input tree")
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return errors.Wrap(err, errors.CategoryFileSystem, "relativize path")
		}
		result.FilesSeen++
		outPath := filepath.Join(outputDir, relPath)

		if !strings.EqualFold(filepath.Ext(path), ".md") {
			if dryRun {
				return nil
			}
			// In-place runs mirror onto the same tree; copying a file onto
			// itself would truncate it.
			if filepath.Clean(outPath) == filepath.Clean(path) {
				return nil
			}
			if err := copyFile(path, outPath); err != nil {
				return err
			}
			result.Copied++
			w.recorder.FileCopied()
			return nil
		}

		return w.processDocument(path, outPath, relPath, dryRun, result)
	})
	if err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	w.recorder.RunCompleted(result.Duration)
	return result, nil
}

func (w *Walker) processDocument(path, outPath, relPath string, dryRun bool, result *Result) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "read document")
	}

	hash := state.HashContent(original)
	if w.store != nil && !dryRun {
		unchanged, err := w.store.Unchanged(relPath, hash)
		if err != nil {
			return errors.Wrap(err, errors.CategoryState, "query incremental state")
		}
		if unchanged {
			slog.Debug("Skipping unchanged document", logfields.RelPath(relPath))
			return nil
		}
	}

	doc := &normalize.Document{RelPath: relPath, Content: string(original)}
	changed, err := w.normalizer.Process(doc)
	if err != nil {
		return err
	}

	result.Diagrams.Blocks += doc.Diagrams.Blocks
	result.Diagrams.Flowcharts += doc.Diagrams.Flowcharts
	result.Diagrams.Relocated += doc.Diagrams.Relocated
	for i := 0; i < doc.Diagrams.Blocks; i++ {
		w.recorder.DiagramSanitized(i < doc.Diagrams.Flowcharts)
	}
	w.recorder.LabelsRelocated(doc.Diagrams.Relocated)
	w.recorder.FileProcessed(changed)

	if changed {
		result.Changed = append(result.Changed, filepath.ToSlash(relPath))
	}
	if dryRun {
		return nil
	}

	if err := writeFile(outPath, []byte(doc.Content)); err != nil {
		return err
	}
	if w.store != nil {
		if err := w.store.Record(relPath, hash); err != nil {
			return errors.Wrap(err, errors.CategoryState, "record incremental state")
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "create output directory")
	}
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "open source file")
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "create output file")
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrap(err, errors.CategoryFileSystem, "copy file")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "close output file")
	}
	return nil
}

func writeFile(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "create output directory")
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, "write document")
	}
	return nil
}
