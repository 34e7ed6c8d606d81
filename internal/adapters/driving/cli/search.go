package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// snippetLen bounds how much chunk content the table output shows.
const snippetLen = 120

var (
	searchLimit   int
	searchJSON    bool
	searchFilters []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Runs hybrid retrieval over the user's chunks: vector similarity with
lexical reranking when the vector store is reachable, keyword matching
otherwise. Results are cached and logged for analytics.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringArrayVar(&searchFilters, "filter", nil, "metadata filter as key=value (repeatable)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	filters, err := parseFilters(searchFilters)
	if err != nil {
		return err
	}

	resp, err := searchService.HybridSearch(context.Background(), args[0], flagUser, flagScope, filters, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp)
}

func parseFilters(pairs []string) (domain.SearchFilters, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(domain.SearchFilters, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q (want key=value)", pair)
		}
		filters[key] = value
	}
	return filters, nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%s, %dms):\n\n", resp.SearchAlgorithm, resp.ResponseTimeMS)
	for i := range resp.Results {
		r := &resp.Results[i]
		cmd.Printf("  [%d] %.3f %-9s chunk %s\n", i+1, r.EffectiveScore(), r.RelevanceTier, r.ChunkID)
		cmd.Printf("      Document: %s\n", r.DocumentID)
		if snippet := makeSnippet(r.Content); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}
	return nil
}

func makeSnippet(content string) string {
	snippet := strings.Join(strings.Fields(content), " ")
	if len(snippet) > snippetLen {
		snippet = snippet[:snippetLen] + "..."
	}
	return snippet
}
