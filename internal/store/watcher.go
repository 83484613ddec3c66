package store

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ChangeEvent reports a write to the state directory that did not come
// through this process. It is the analog of the storage event another
// browser tab would observe; the engine remains the sole writer, so these
// are surfaced for diagnostics only.
type ChangeEvent struct {
	Key string
}

// Watcher watches a file store's directory for external modification.
type Watcher struct {
	dir    string
	logger *log.Logger
	events chan ChangeEvent
}

// NewWatcher creates a watcher for the given file store.
func NewWatcher(fs *FileStore, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		dir:    fs.Dir(),
		logger: logger,
		events: make(chan ChangeEvent, 16),
	}
}

// Events returns the channel external changes are reported on.
func (w *Watcher) Events() <-chan ChangeEvent {
	return w.events
}

// Start begins watching until ctx is cancelled. Delivery is best-effort:
// events are dropped when the buffer is full.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return err
	}

	go func() {
		defer fsw.Close()
		defer close(w.events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				key := filenameToKey(filepath.Base(ev.Name))
				select {
				case w.events <- ChangeEvent{Key: key}:
				default:
				}
				w.logger.Debug("state dir changed", "key", key, "op", ev.Op.String())
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				w.logger.Error("state watcher error", "error", err)
			}
		}
	}()
	return nil
}
