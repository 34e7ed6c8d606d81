package driving

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// SearchService answers queries over a user's indexed chunks.
//
// The primary hybrid path may return an error after cache and config
// resolution; the fallback paths never do — a degraded (possibly empty)
// response is preferred over an error reaching the end user.
type SearchService interface {
	// HybridSearch runs the multi-stage retrieval pipeline: cache lookup,
	// query embedding, ANN retrieval, hydration, lexical reranking,
	// business-rules filtering, caching, and analytics.
	HybridSearch(ctx context.Context, query, userID, scopeID string, filters domain.SearchFilters, limit int) (*domain.SearchResponse, error)
}
