package driving

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// AnalyticsService records click-throughs and reports on search usage.
type AnalyticsService interface {
	// TrackResultClick records a click on a search result and bumps the
	// chunk's click counter.
	TrackResultClick(ctx context.Context, searchQueryLogID, chunkID, userID string, position int, similarityScore float64, rerankScore *float64) error

	// Summary aggregates a user's search activity over the last days days.
	Summary(ctx context.Context, userID string, days int) (*domain.AnalyticsSummary, error)
}
