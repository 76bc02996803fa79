// Package watcher drives continuous snapshot mode: it watches a source
// tree for filesystem changes, coalesces change bursts, and invokes a
// callback once a burst has settled. The archive engine itself stays
// synchronous; this is the outer loop around it.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/HaiderNakara/folder-snap/pkg/snap/logging"
)

// DefaultDebounce is the settle time used when none is configured.
const DefaultDebounce = 2 * time.Second

// Config configures a Watcher.
type Config struct {
	// Debounce is how long the tree must stay quiet after a change
	// before the settle callback fires. Zero means DefaultDebounce.
	Debounce time.Duration

	// Skip filters event paths. Events whose path it reports true for
	// are dropped and directories it reports true for are not watched.
	// It keeps the watcher from reacting to its own archive output.
	Skip func(path string) bool
}

// Watcher watches a directory tree recursively and reports settled change
// bursts.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	skip     func(string) bool

	mu     sync.Mutex
	paths  map[string]bool
	closed bool
}

// New creates a Watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  fsw,
		debounce: debounce,
		skip:     cfg.Skip,
		paths:    make(map[string]bool),
	}, nil
}

// Watch starts watching root and all of its subdirectories.
// Symlinks are not followed to avoid loops.
func (w *Watcher) Watch(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	info, err := os.Lstat(absRoot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil // Only watch directories
	}

	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}

		// Skip symlinks to avoid loops
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if w.skip != nil && w.skip(path) {
				return filepath.SkipDir
			}
			return w.addWatch(path)
		}

		return nil
	})
}

// addWatch adds a single directory to the watch list.
func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return nil
	}

	if err := w.watcher.Add(path); err != nil {
		logging.Get("watch").Warn("failed to add watch", "path", path, "error", err)
		return err
	}

	w.paths[path] = true
	return nil
}

// Run blocks processing events until the context is cancelled or the
// watcher is closed. Whenever changes arrive, a debounce timer restarts;
// when it expires, onSettle is called with the number of changes in the
// burst. onSettle runs on the event loop goroutine, so changes made while
// it executes queue up for the next burst.
func (w *Watcher) Run(ctx context.Context, onSettle func(changes int)) {
	var timer *time.Timer
	var settle <-chan time.Time
	pending := 0

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.handleEvent(event) {
				continue
			}
			pending++
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				settle = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-settle:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get("watch").Error("watch error", "error", err)

		case <-settle:
			timer = nil
			settle = nil
			changes := pending
			pending = 0
			if onSettle != nil {
				onSettle(changes)
			}
		}
	}
}

// handleEvent processes one filesystem event and reports whether it
// counts toward the current burst. Chmod-only events are noise and do
// not count.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if w.skip != nil && w.skip(event.Name) {
		return false
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		w.handleCreate(event.Name)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		// Rename is treated as a remove; the new name triggers a create.
		w.dropWatches(event.Name)
	case event.Op&fsnotify.Write != 0:
	default:
		return false
	}
	return true
}

// handleCreate starts watching directories that appear under the tree,
// including any subdirectories created with them.
func (w *Watcher) handleCreate(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		return // Already gone again
	}

	if info.Mode()&fs.ModeSymlink != 0 || !info.IsDir() {
		return
	}

	_ = w.addWatch(path)

	_ = filepath.WalkDir(path, func(subpath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Skip entries with errors
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if d.IsDir() && subpath != path {
			if w.skip != nil && w.skip(subpath) {
				return filepath.SkipDir
			}
			_ = w.addWatch(subpath)
		}
		return nil
	})
}

// dropWatches removes the watch on path and on everything under it.
func (w *Watcher) dropWatches(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	for watched := range w.paths {
		if watched == path || isSubPath(watched, path) {
			_ = w.watcher.Remove(watched)
			delete(w.paths, watched)
		}
	}
}

// WatchedCount returns how many directories are currently watched.
func (w *Watcher) WatchedCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Close closes the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}

	w.closed = true
	w.paths = make(map[string]bool)
	return w.watcher.Close()
}

// isSubPath checks if path is under parent directory.
func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}
