package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete an ingested document",
	Long: `Removes a document's chunks from the vector index and deletes the
document and its chunks from the record store.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	found, err := ingestService.DeleteDocument(context.Background(), args[0], flagUser)
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if !found {
		cmd.Printf("Document %s not found.\n", args[0])
		return nil
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}
