package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var logsJSON bool

var logsCmd = &cobra.Command{
	Use:   "logs [document-id]",
	Short: "Show a document's ingestion stage log",
	Long: `Prints the recorded pipeline stages for a document: extraction,
chunking, embedding and indexing, with status, timing and messages. Useful
for diagnosing failed ingests.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVar(&logsJSON, "json", false, "output the log as JSON")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	if documentStore == nil {
		return errors.New("record store not configured")
	}

	entries, err := documentStore.ProcessingLog(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("reading processing log: %w", err)
	}
	if len(entries) == 0 {
		cmd.Printf("No processing log for document %s.\n", args[0])
		return nil
	}

	if logsJSON {
		return printJSON(cmd, entries)
	}

	for _, e := range entries {
		cmd.Printf("%s  %-20s %-10s %6dms  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.Stage, e.Status, e.ElapsedMS, e.Message)
	}
	return nil
}
