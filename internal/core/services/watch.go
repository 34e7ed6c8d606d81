package services

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// WatchResult reports the outcome of handling one file event.
type WatchResult struct {
	Event    driven.FileEvent
	Document *domain.Document
	Report   *driving.IngestReport
	Err      error
}

// WatchService runs the auto-ingest loop: files created or modified in a
// watched directory are ingested, files deleted from it are removed from
// the index when they were ingested during this run.
type WatchService struct {
	ingest  driving.IngestService
	watcher driven.FileWatcher
}

// NewWatchService creates a watch service.
func NewWatchService(ingest driving.IngestService, watcher driven.FileWatcher) *WatchService {
	return &WatchService{
		ingest:  ingest,
		watcher: watcher,
	}
}

// Run watches dir and processes events until ctx is cancelled or the
// watcher stops. onResult is invoked after every handled event; nil means
// results are only logged. Per-file ingest failures do not stop the loop.
func (s *WatchService) Run(
	ctx context.Context, dir, userID string, opts driving.IngestOptions,
	onResult func(WatchResult),
) error {
	if err := domain.ValidateID("user", userID); err != nil {
		return err
	}

	events, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	logger.Info("Watching %s for changes", dir)

	// Documents ingested during this run, for delete handling. Files
	// deleted without a prior ingest in this run are skipped: the path
	// to document mapping is not persisted.
	ingested := make(map[string]string)

	for event := range events {
		result := WatchResult{Event: event}

		switch event.Operation {
		case driven.FileCreated, driven.FileModified:
			doc, report, err := s.ingest.IngestFile(ctx, event.Path, userID, opts)
			result.Document = doc
			result.Report = report
			result.Err = err
			if err != nil {
				logger.Error("Auto-ingest failed for %s: %v", event.Path, err)
			} else {
				ingested[event.Path] = doc.ID
			}

		case driven.FileDeleted:
			docID, ok := ingested[event.Path]
			if !ok {
				logger.Debug("Deleted file %s was not ingested this run; skipping", event.Path)
				continue
			}
			if _, err := s.ingest.DeleteDocument(ctx, docID, userID); err != nil {
				result.Err = err
				logger.Error("Auto-delete failed for %s: %v", event.Path, err)
			} else {
				delete(ingested, event.Path)
			}
		}

		if onResult != nil {
			onResult(result)
		}
	}

	return nil
}
