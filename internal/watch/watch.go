// Package watch rebuilds the notebook whenever a source file or template changes.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/codebook/internal/codefiles"
	"git.home.luguber.info/inful/codebook/internal/config"
	ferrors "git.home.luguber.info/inful/codebook/internal/foundation/errors"
	"git.home.luguber.info/inful/codebook/internal/logfields"
)

// BuildFunc runs one full build.
type BuildFunc func(ctx context.Context) error

// Watcher triggers debounced full rebuilds. Builds never overlap.
type Watcher struct {
	root      string
	templates map[string]struct{}
	exts      codefiles.Extensions
	debounce  time.Duration
	build     BuildFunc
}

// New creates a watcher for the tree and templates named by cfg.
func New(cfg *config.Config, build BuildFunc) *Watcher {
	templates := map[string]struct{}{}
	for _, p := range []string{cfg.Templates.Head, cfg.Templates.Tail} {
		templates[absPath(p)] = struct{}{}
	}
	return &Watcher{
		root:      absPath(cfg.Root),
		templates: templates,
		exts:      codefiles.NewExtensions(cfg.Extensions...),
		debounce:  cfg.WatchDebounce(),
		build:     build,
	}
}

// WithDebounce overrides the debounce interval.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Run builds once, then rebuilds after changes until ctx is canceled.
// A failing build is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "create file watcher").Build()
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	for dir := range w.templateDirs() {
		if err := fw.Add(dir); err != nil {
			slog.Warn("Failed to watch template directory", logfields.Path(dir), logfields.Error(err))
		}
	}

	slog.Info("Watching for changes", logfields.Root(w.root), slog.Duration("debounce", w.debounce))
	w.rebuild(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(fw, ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-fire:
			fire = nil
			w.rebuild(ctx)
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	if err := w.build(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Rebuild failed; waiting for further changes", logfields.Error(err))
	}
}

// handleEvent reports whether ev should trigger a rebuild, and starts
// watching newly created directories.
func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreName(filepath.Base(ev.Name)) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fw, ev.Name)
			return true
		}
	}
	if !w.Relevant(ev.Name) {
		return false
	}
	slog.Debug("Change detected", logfields.File(ev.Name), logfields.Event(ev.Op.String()))
	return true
}

// Relevant reports whether a change to path affects the assembled document:
// templates and recognised source files count, editor droppings and compiler
// artefacts do not.
func (w *Watcher) Relevant(path string) bool {
	if _, ok := w.templates[absPath(path)]; ok {
		return true
	}
	base := filepath.Base(path)
	if shouldIgnoreName(base) {
		return false
	}
	return w.exts.Match(base)
}

func (w *Watcher) templateDirs() map[string]struct{} {
	dirs := map[string]struct{}{}
	for p := range w.templates {
		dir := filepath.Dir(p)
		if !within(w.root, dir) {
			dirs[dir] = struct{}{}
		}
	}
	return dirs
}

func shouldIgnoreName(base string) bool {
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return ferrors.WrapError(err, ferrors.CategoryFileAccess, "watch root directory").
					Fatal().
					WithContext("path", root).
					Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func within(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
