package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
)

var (
	ingestCollection string
	ingestJSON       bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a document into the index",
	Long: `Extracts text from the file, chunks it, embeds the chunks, and stores
them in the record store and the vector index. Supported formats: plain text
(.txt, .md, .markdown, .csv, .log) and PDF (requires pdftotext).`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "documents", "target collection (documents or training)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	collection, err := parseCollection(ingestCollection)
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, report, err := ingestService.IngestFile(ctx, args[0], flagUser, driving.IngestOptions{
		Collection: collection,
	})
	if err != nil {
		if doc != nil {
			printProcessingLog(ctx, cmd, doc.ID)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, struct {
			DocumentID string `json:"document_id"`
			Title      string `json:"title"`
			*driving.IngestReport
		}{doc.ID, doc.Title, report})
	}

	cmd.Printf("Ingested %s\n", doc.Title)
	cmd.Printf("  Document:  %s\n", doc.ID)
	cmd.Printf("  Chunks:    %d (%s strategy)\n", report.ChunksCreated, report.ChunkingStrategy)
	cmd.Printf("  Embedding: %s\n", report.EmbeddingModel)
	cmd.Printf("  Took:      %dms\n", report.ProcessingTimeMS)
	return nil
}

func parseCollection(name string) (driven.Collection, error) {
	switch name {
	case "documents":
		return driven.CollectionDocuments, nil
	case "training":
		return driven.CollectionTraining, nil
	default:
		return "", fmt.Errorf("unknown collection %q (want documents or training)", name)
	}
}

// printProcessingLog shows which pipeline stage failed after an ingest
// error. Best effort: a log read failure is not worth a second error.
func printProcessingLog(ctx context.Context, cmd *cobra.Command, documentID string) {
	if documentStore == nil {
		return
	}
	entries, err := documentStore.ProcessingLog(ctx, documentID)
	if err != nil || len(entries) == 0 {
		return
	}

	cmd.PrintErrln("Pipeline stages:")
	for _, e := range entries {
		cmd.PrintErrf("  %-20s %-10s %dms  %s\n", e.Stage, e.Status, e.ElapsedMS, e.Message)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
