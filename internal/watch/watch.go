// Package watch rebuilds the notes index when files under the input
// directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long the watcher waits after the last change before
// rebuilding. Editors often write a file several times per save.
const DefaultDebounce = 300 * time.Millisecond

// tickInterval is how often pending changes are checked against the debounce
// window.
const tickInterval = 50 * time.Millisecond

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Rebuilds      int
	Errors        int
	LastEventPath string
	LastEventType string
	LastEventTime time.Time
}

// Watcher watches a directory tree and calls a rebuild function once changes
// to notes files settle.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	root     string
	filter   func(name string) bool
	debounce time.Duration
	dirs     map[string]bool
	pending  time.Time
	stats    Stats
}

// New creates a Watcher for every directory under root, skipping hidden
// directories. filter reports whether a file name is a notes file.
func New(root string, filter func(name string) bool, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		filter:   filter,
		debounce: debounce,
		dirs:     make(map[string]bool),
	}
	if err := w.addTree(root); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		log.Debug().Str("dir", path).Msg("watching directory")
		return nil
	})
}

// Run processes filesystem events until ctx is cancelled and calls rebuild
// after each settled batch of changes. Rebuild errors are logged and do not
// stop the watcher. The underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("watcher error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			if !w.due() {
				continue
			}
			if err := rebuild(ctx); err != nil {
				log.Error().Err(err).Msg("rebuild failed")
				w.mu.Lock()
				w.stats.Errors++
				w.mu.Unlock()
			}
			w.mu.Lock()
			w.stats.Rebuilds++
			w.mu.Unlock()
		}
	}
}

// handleEvent records a relevant change and extends the debounce window.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	var eventType string
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = "create"
	case event.Op.Has(fsnotify.Write):
		eventType = "modify"
	case event.Op.Has(fsnotify.Remove):
		eventType = "delete"
	case event.Op.Has(fsnotify.Rename):
		eventType = "rename"
	default:
		return
	}

	relevant := w.filter == nil || w.filter(filepath.Base(event.Name))

	switch eventType {
	case "create":
		if w.isNewDir(event.Name) {
			// Files created before the watch was added produce no events of
			// their own, so the new directory always counts as a change.
			if err := w.addTree(event.Name); err != nil {
				log.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new directory")
			}
			relevant = true
		}
	case "delete", "rename":
		w.mu.Lock()
		if w.dirs[event.Name] {
			delete(w.dirs, event.Name)
			relevant = true
		}
		w.mu.Unlock()
	}

	if !relevant {
		return
	}

	log.Debug().Str("path", event.Name).Str("event", eventType).Msg("notes changed")

	now := time.Now()
	w.mu.Lock()
	w.pending = now
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventType = eventType
	w.stats.LastEventTime = now
	w.mu.Unlock()
}

// isNewDir reports whether path is a directory that should be watched.
func (w *Watcher) isNewDir(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// due reports whether pending changes have settled, and clears them if so.
func (w *Watcher) due() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
