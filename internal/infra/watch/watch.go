// Package watch reports changes to a single file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/runoshun/weekplan/internal/domain"
)

// DefaultDebounce coalesces bursts of events from one logical write.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher calls a handler after path changes.
// The parent directory is watched so atomic renames are seen.
// Fields are ordered to minimize memory padding.
type FileWatcher struct {
	onChange func()
	logger   domain.Logger
	path     string
	debounce time.Duration
}

// New creates a FileWatcher for path.
func New(path string, debounce time.Duration, onChange func(), logger domain.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &FileWatcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		logger:   domain.LoggerOrNop(logger),
	}
}

// Watch blocks until ctx is done or the watcher fails.
func (w *FileWatcher) Watch(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	file := filepath.Base(w.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watch", "watcher started", "path", w.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			if ctx.Err() != nil {
				return
			}
			w.logger.Debug("watch", "change detected", "path", w.path)
			w.onChange()
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != file {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch", "event overflow, forcing change", "path", w.path)
				trigger()
				continue
			}
			w.logger.Warn("watch", "watch error", "path", w.path, "err", err)
		}
	}
}
