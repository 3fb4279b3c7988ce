package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"datafeed/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher logs changes made to the dataset by external processes.
// It watches the dataset's parent directory so creation of a missing
// dataset is observed too.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	logger  zerolog.Logger
	changes atomic.Int64
	last    atomic.Int64
}

func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	path := filepath.Clean(store.Path())
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		path:   path,
		fsw:    fsw,
		logger: logging.GetLogger("watcher"),
	}, nil
}

// Run consumes filesystem events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.changes.Add(1)
	w.last.Store(time.Now().UnixNano())
	w.logger.Info().Str("path", w.path).Str("op", event.Op.String()).Msg("Dataset changed")
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Changes is the number of dataset events observed since the watcher started.
func (w *Watcher) Changes() int64 {
	return w.changes.Load()
}

// LastChange is zero when no change has been observed.
func (w *Watcher) LastChange() time.Time {
	n := w.last.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
