// Package watcher observes content directories and fires a debounced
// callback on changes. Lint watch mode and the HTTP server use it to rebuild
// the catalog when pack content is edited.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/doanchienthangdev/omgkit/pkg/logger"
)

// DefaultDebounce batches editor save bursts into a single callback.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a set of directory trees.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// New creates a watcher. A non-positive debounce falls back to
// DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fsw: fsw, debounce: debounce}, nil
}

// Add registers directory trees. Missing directories are skipped so callers
// can pass every configured content root without checking existence first.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil || !entry.IsDir() {
				return nil
			}
			return w.fsw.Add(path)
		})
		if err != nil {
			return errors.Wrapf(err, "failed to watch directory %s", dir)
		}
	}
	return nil
}

// Watch blocks until ctx is cancelled, invoking onChange after each debounced
// burst of filesystem events. Newly created directories are added to the
// watch set.
func (w *Watcher) Watch(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			logger.G(ctx).WithFields(map[string]interface{}{
				"path": event.Name,
				"op":   event.Op.String(),
			}).Debug("content change detected")

			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("watcher error")

		case <-timerC:
			timer = nil
			timerC = nil
			onChange()
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
