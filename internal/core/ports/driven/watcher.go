package driven

import "context"

// FileOperation classifies a file system event.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

// FileEvent is one observed change in a watched directory.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileWatcher monitors a directory and emits events for files whose
// extensions the ingestion pipeline supports.
type FileWatcher interface {
	// Watch starts monitoring dir. The returned channel closes when ctx
	// is cancelled or the watcher stops.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher and releases resources.
	Stop() error
}
