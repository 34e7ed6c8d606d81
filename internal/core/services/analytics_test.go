package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

func TestTrackResultClick(t *testing.T) {
	store := newFakeDocStore()
	analytics := &fakeAnalyticsStore{}
	svc := NewAnalyticsService(store, analytics)

	logID := domain.NewID()
	chunkID := domain.NewID()
	userID := domain.NewID()
	rerank := 0.85

	err := svc.TrackResultClick(context.Background(), logID, chunkID, userID, 2, 0.9, &rerank)
	require.NoError(t, err)

	require.Len(t, analytics.clicks, 1)
	click := analytics.clicks[0]
	assert.Equal(t, logID, click.SearchQueryLogID)
	assert.Equal(t, chunkID, click.ChunkID)
	assert.Equal(t, userID, click.UserID)
	assert.Equal(t, 2, click.Position)
	assert.Equal(t, 0.9, click.SimilarityScore)
	require.NotNil(t, click.RerankScore)
	assert.Equal(t, 0.85, *click.RerankScore)

	assert.Equal(t, []string{chunkID}, store.clicked)
}

func TestTrackResultClick_CounterFailureTolerated(t *testing.T) {
	store := newFakeDocStore()
	store.clickErr = errors.New("chunk row locked")
	analytics := &fakeAnalyticsStore{}
	svc := NewAnalyticsService(store, analytics)

	err := svc.TrackResultClick(context.Background(), domain.NewID(), domain.NewID(), domain.NewID(), 0, 0.5, nil)
	require.NoError(t, err, "a recorded click outweighs a lost counter bump")
	assert.Len(t, analytics.clicks, 1)
}

func TestTrackResultClick_SaveFailureSurfaces(t *testing.T) {
	analytics := &fakeAnalyticsStore{saveClickErr: errors.New("insert failed")}
	svc := NewAnalyticsService(newFakeDocStore(), analytics)

	err := svc.TrackResultClick(context.Background(), domain.NewID(), domain.NewID(), domain.NewID(), 0, 0.5, nil)
	assert.ErrorContains(t, err, "insert failed")
}

func TestTrackResultClick_RejectsInvalidIDs(t *testing.T) {
	svc := NewAnalyticsService(newFakeDocStore(), &fakeAnalyticsStore{})
	valid := domain.NewID()

	for _, tc := range [][3]string{
		{"bad", valid, valid},
		{valid, "bad", valid},
		{valid, valid, "bad"},
	} {
		err := svc.TrackResultClick(context.Background(), tc[0], tc[1], tc[2], 0, 0.5, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestSummary(t *testing.T) {
	analytics := &fakeAnalyticsStore{summary: &domain.AnalyticsSummary{
		TotalSearches:     42,
		AvgResponseTimeMS: 120.5,
		ClickThroughRate:  0.25,
	}}
	svc := NewAnalyticsService(newFakeDocStore(), analytics)

	summary, err := svc.Summary(context.Background(), domain.NewID(), 7)
	require.NoError(t, err)

	assert.Equal(t, 42, summary.TotalSearches)
	assert.Equal(t, 7, summary.PeriodDays)
}

func TestSummary_DefaultWindow(t *testing.T) {
	svc := NewAnalyticsService(newFakeDocStore(), &fakeAnalyticsStore{})

	summary, err := svc.Summary(context.Background(), domain.NewID(), 0)
	require.NoError(t, err)
	assert.Equal(t, 30, summary.PeriodDays)

	summary, err = svc.Summary(context.Background(), domain.NewID(), -5)
	require.NoError(t, err)
	assert.Equal(t, 30, summary.PeriodDays)
}

func TestSummary_RejectsInvalidUser(t *testing.T) {
	svc := NewAnalyticsService(newFakeDocStore(), &fakeAnalyticsStore{})

	_, err := svc.Summary(context.Background(), "not-a-uuid", 7)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
