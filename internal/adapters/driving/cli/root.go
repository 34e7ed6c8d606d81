// Package cli wires the cobra command tree to the retrieval services.
// Commands talk to package-level service variables so tests can swap in
// fakes; live wiring happens in bootstrap.go on first use.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services the commands depend on. Nil until bootstrap (or a test) sets
// them; every RunE checks before use.
var (
	ingestService    driving.IngestService
	searchService    driving.SearchService
	analyticsService driving.AnalyticsService
	healthService    driving.HealthService
	documentStore    driven.DocumentStore
)

var (
	flagConfig  string
	flagVerbose bool
	flagUser    string
	flagScope   string
)

var rootCmd = &cobra.Command{
	Use:   "ragpipe",
	Short: "Ingest documents and search them with hybrid retrieval",
	Long: `ragpipe ingests local documents into a chunked, embedded index and
answers queries with hybrid retrieval: vector similarity when the index is
reachable, lexical matching when it is not.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return ensureServices(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.ragpipe/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print pipeline stage logs")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "user ID (default: local identity from config)")
	rootCmd.PersistentFlags().StringVar(&flagScope, "scope", "", "scope ID for per-scope configuration")
}

// Execute runs the command tree and releases backend resources afterwards.
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}
