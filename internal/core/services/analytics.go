package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// Ensure AnalyticsService implements the interface.
var _ driving.AnalyticsService = (*AnalyticsService)(nil)

// defaultSummaryDays is the reporting window when the caller does not
// specify one.
const defaultSummaryDays = 30

// AnalyticsService records click-through events and aggregates search
// usage for reporting.
type AnalyticsService struct {
	docStore  driven.DocumentStore
	analytics driven.AnalyticsStore
}

// NewAnalyticsService creates an analytics service.
func NewAnalyticsService(docStore driven.DocumentStore, analytics driven.AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{
		docStore:  docStore,
		analytics: analytics,
	}
}

// TrackResultClick records the click and bumps the chunk's click counter.
func (s *AnalyticsService) TrackResultClick(
	ctx context.Context, searchQueryLogID, chunkID, userID string, position int, similarityScore float64, rerankScore *float64,
) error {
	if err := domain.ValidateID("search query log", searchQueryLogID); err != nil {
		return err
	}
	if err := domain.ValidateID("chunk", chunkID); err != nil {
		return err
	}
	if err := domain.ValidateID("user", userID); err != nil {
		return err
	}

	click := &domain.ResultClick{
		ID:               domain.NewID(),
		SearchQueryLogID: searchQueryLogID,
		ChunkID:          chunkID,
		UserID:           userID,
		Position:         position,
		SimilarityScore:  similarityScore,
		RerankScore:      rerankScore,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.analytics.SaveClick(ctx, click); err != nil {
		return fmt.Errorf("save click: %w", err)
	}

	// The counter is a usage heuristic; losing one bump is not worth
	// failing a recorded click.
	if err := s.docStore.IncrementChunkClicks(ctx, chunkID); err != nil {
		logger.Warn("Chunk click counter update failed for %s: %v", chunkID, err)
	}

	logger.Debug("Recorded click on chunk %s at position %d", chunkID, position)
	return nil
}

// Summary aggregates a user's recent search activity.
func (s *AnalyticsService) Summary(ctx context.Context, userID string, days int) (*domain.AnalyticsSummary, error) {
	if err := domain.ValidateID("user", userID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultSummaryDays
	}

	summary, err := s.analytics.Summary(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("aggregate analytics: %w", err)
	}
	summary.PeriodDays = days
	return summary, nil
}
