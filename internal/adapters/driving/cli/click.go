package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	clickPosition    int
	clickScore       float64
	clickRerankScore float64
)

var clickCmd = &cobra.Command{
	Use:   "click [search-log-id] [chunk-id]",
	Short: "Record a click on a search result",
	Long: `Records a click-through against a logged search so analytics can
compute click-through rates, and bumps the chunk's click counter.`,
	Args: cobra.ExactArgs(2),
	RunE: runClick,
}

func init() {
	clickCmd.Flags().IntVar(&clickPosition, "position", 1, "result position that was clicked (1-based)")
	clickCmd.Flags().Float64Var(&clickScore, "score", 0, "similarity score of the clicked result")
	clickCmd.Flags().Float64Var(&clickRerankScore, "rerank-score", 0, "rerank score of the clicked result")
	rootCmd.AddCommand(clickCmd)
}

func runClick(cmd *cobra.Command, args []string) error {
	if analyticsService == nil {
		return errors.New("analytics service not configured")
	}

	var rerank *float64
	if cmd.Flags().Changed("rerank-score") {
		rerank = &clickRerankScore
	}

	err := analyticsService.TrackResultClick(
		context.Background(), args[0], args[1], flagUser,
		clickPosition, clickScore, rerank,
	)
	if err != nil {
		return fmt.Errorf("click tracking failed: %w", err)
	}

	cmd.Println("Click recorded.")
	return nil
}
