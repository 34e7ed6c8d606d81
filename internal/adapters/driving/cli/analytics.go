package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyticsDays int
	analyticsJSON bool
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show search analytics for the current user",
	Long: `Reports aggregate search activity over the reporting window: total
searches, average response time, click-through rate, and top queries.`,
	Args: cobra.NoArgs,
	RunE: runAnalytics,
}

func init() {
	analyticsCmd.Flags().IntVar(&analyticsDays, "days", 30, "reporting window in days")
	analyticsCmd.Flags().BoolVar(&analyticsJSON, "json", false, "output the summary as JSON")
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(cmd *cobra.Command, _ []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	summary, err := analyticsService.Summary(context.Background(), flagUser, analyticsDays)
	if err != nil {
		return fmt.Errorf("analytics failed: %w", err)
	}

	if analyticsJSON {
		return printJSON(cmd, summary)
	}

	cmd.Printf("Search analytics (last %d days):\n", summary.PeriodDays)
	cmd.Printf("  Total searches:     %d\n", summary.TotalSearches)
	cmd.Printf("  Avg response time:  %.1fms\n", summary.AvgResponseTimeMS)
	cmd.Printf("  Click-through rate: %.1f%%\n", summary.ClickThroughRate*100)
	if len(summary.TopQueries) > 0 {
		cmd.Println("  Top queries:")
		for _, q := range summary.TopQueries {
			cmd.Printf("    %3dx %s\n", q.Count, q.Query)
		}
	}
	return nil
}
