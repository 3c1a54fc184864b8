// Package watch re-runs builds when the manifest or a Fortran source
// changes. Events are debounced so editor save bursts trigger a single
// rebuild.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vk/fortmake/internal/ctxlog"
)

// RebuildFunc runs one build cycle. The watcher invokes it once at startup
// and again after every settled batch of changes. A failing cycle does not
// stop the watcher; the next change retries.
type RebuildFunc func(ctx context.Context) error

// Watcher observes a project directory and schedules rebuilds.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	manifest string
	rebuild  RebuildFunc
	debounce time.Duration
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce overrides how long changes must settle before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a watcher over the project directory. Only the manifest and
// .f90 sources are considered relevant; artifact churn from the builds
// themselves is ignored.
func New(dir, manifest string, rebuild RebuildFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:      fsw,
		dir:      dir,
		manifest: manifest,
		rebuild:  rebuild,
		debounce: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run performs an initial build and then blocks, rebuilding after each
// settled batch of changes, until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	logger := ctxlog.FromContext(ctx)
	logger.Info("Watching for changes.", "dir", w.dir, "manifest", w.manifest)

	if err := w.rebuild(ctx); err != nil {
		logger.Error("Initial build failed, watching for changes.", "error", err)
	}

	timer := time.NewTimer(w.debounce)
	defer timer.Stop()
	stopTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
	stopTimer()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped.")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Change detected.", "path", event.Name, "op", event.Op.String())
			stopTimer()
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error.", "error", err)

		case <-timer.C:
			logger.Info("Changes settled, rebuilding.")
			if err := w.rebuild(ctx); err != nil {
				logger.Error("Rebuild failed, watching for further changes.", "error", err)
			}
		}
	}
}

// relevant filters events down to manifest and source changes, dropping
// chmod-only noise and artifact churn.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return strings.HasSuffix(base, ".f90") || base == w.manifest
}
