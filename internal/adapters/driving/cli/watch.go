package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/adapters/driven/filewatcher"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/core/services"
)

var (
	watchExtensions []string
	watchCollection string
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest changed files",
	Long: `Monitors a directory and runs the ingestion pipeline for every created
or modified file with a watched extension. Files deleted from the directory
are removed from the index when they were ingested during this session.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", nil, "file extensions to watch (default from config, then .txt,.md,.pdf)")
	watchCmd.Flags().StringVar(&watchCollection, "collection", "documents", "target collection (documents or training)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	collection, err := parseCollection(watchCollection)
	if err != nil {
		return err
	}

	extensions := watchExtensions
	if len(extensions) == 0 && appConfig != nil {
		extensions = appConfig.Watch.Extensions
	}

	watcher, err := filewatcher.New(extensions)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)...\n", args[0])

	svc := services.NewWatchService(ingestService, watcher)
	err = svc.Run(ctx, args[0], flagUser, driving.IngestOptions{Collection: collection}, func(r services.WatchResult) {
		switch {
		case r.Err != nil:
			cmd.PrintErrf("Failed for %s: %v\n", r.Event.Path, r.Err)
		case r.Event.Operation == driven.FileDeleted:
			cmd.Printf("Removed %s from the index\n", r.Event.Path)
		default:
			cmd.Printf("Ingested %s (%d chunks)\n", r.Event.Path, r.Report.ChunksCreated)
		}
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", args[0], err)
	}

	cmd.Println("Watch stopped.")
	return nil
}
