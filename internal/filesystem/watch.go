package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"thumbgen/internal/logging"
	"thumbgen/internal/mediatypes"
	"thumbgen/internal/metrics"
)

// DefaultDebounce is how long a directory must be quiet before pending
// files are handed out.
const DefaultDebounce = 2 * time.Second

// Watcher reports image files written into one directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching dir. A debounce of zero selects DefaultDebounce.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		if closeErr := w.Close(); closeErr != nil {
			logging.Warn("failed to close file watcher: %v", closeErr)
		}
		metrics.WatcherErrors.Inc()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Debug("Watching %s (debounce %v)", dir, debounce)
	return &Watcher{dir: dir, debounce: debounce, watcher: w}, nil
}

// Run delivers batches of changed image paths to handle until ctx is done.
// handle runs on the Run goroutine; events arriving meanwhile are queued for
// the next batch.
func (w *Watcher) Run(ctx context.Context, handle func(paths []string)) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.accept(event) {
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			handle(drain(pending))
		}
	}
}

// accept records the event and reports whether it names a new or rewritten
// image file.
func (w *Watcher) accept(event fsnotify.Event) bool {
	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return false
	}
	return mediatypes.IsImageFile(event.Name)
}

func drain(pending map[string]struct{}) []string {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
		delete(pending, p)
	}
	sort.Strings(paths)
	return paths
}

func eventType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Chmod):
		return "chmod"
	default:
		return "unknown"
	}
}
