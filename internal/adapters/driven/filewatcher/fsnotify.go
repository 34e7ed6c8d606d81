// Package filewatcher provides directory monitoring for the auto-ingest
// loop, backed by fsnotify.
package filewatcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// eventBuffer bounds how many pending events the channel holds before the
// forwarding goroutine blocks.
const eventBuffer = 100

// Watcher emits events for files whose extensions are watched.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
}

// New creates a file watcher for the given extensions (with dot). Empty
// input watches the extraction-supported text formats.
func New(extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = []string{".txt", ".md", ".pdf"}
	}
	watched := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		watched[strings.ToLower(ext)] = true
	}

	return &Watcher{
		watcher:    w,
		extensions: watched,
	}, nil
}

// Watch starts monitoring dir. The returned channel closes when ctx is
// cancelled or the watcher stops.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan driven.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan driven.FileEvent, eventBuffer)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.watched(event.Name) {
					continue
				}

				var op driven.FileOperation
				switch {
				case event.Op.Has(fsnotify.Create):
					op = driven.FileCreated
				case event.Op.Has(fsnotify.Write):
					op = driven.FileModified
				case event.Op.Has(fsnotify.Remove):
					op = driven.FileDeleted
				default:
					continue
				}

				select {
				case events <- driven.FileEvent{Path: event.Name, Operation: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("File watcher error: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) watched(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}
