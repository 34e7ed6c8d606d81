package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the optional backends",
	Long: `Probes the vector store, the result cache, and the embedding provider.
The pipeline stays usable when components are down: search degrades to
lexical matching and embeddings fall back to the zero-vector stub.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errors.New("health service not configured")
	}

	health := healthService.Check(context.Background())

	if healthJSON {
		return printJSON(cmd, health)
	}

	cmd.Printf("Status: %s\n", health.Status)
	for _, name := range []string{"vector_store", "cache", "embedding_provider"} {
		cmd.Printf("  %-20s %s\n", name, health.Components[name])
	}
	return nil
}
