package services

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// Ensure HealthService implements the interface.
var _ driving.HealthService = (*HealthService)(nil)

// HealthService probes the optional backends. A nil backend (never
// configured or unreachable at startup) reports unavailable without a
// probe.
type HealthService struct {
	index    driven.VectorIndex
	cache    driven.Cache
	embedder driven.EmbeddingService
}

// NewHealthService creates a health service. Any parameter may be nil.
func NewHealthService(index driven.VectorIndex, cache driven.Cache, embedder driven.EmbeddingService) *HealthService {
	return &HealthService{
		index:    index,
		cache:    cache,
		embedder: embedder,
	}
}

// Check pings every component and reports healthy only when all respond.
func (s *HealthService) Check(ctx context.Context) driving.Health {
	components := map[string]string{
		"vector_store":       driving.ComponentUnavailable,
		"cache":              driving.ComponentUnavailable,
		"embedding_provider": driving.ComponentUnavailable,
	}
	if s.index != nil {
		components["vector_store"] = s.probe(ctx, "vector_store", s.index.Ping)
	}
	if s.cache != nil {
		components["cache"] = s.probe(ctx, "cache", s.cache.Ping)
	}
	if s.embedder != nil {
		components["embedding_provider"] = s.probe(ctx, "embedding_provider", s.embedder.Ping)
	}

	status := "healthy"
	for _, state := range components {
		if state != driving.ComponentOK {
			status = "degraded"
			break
		}
	}

	return driving.Health{
		Status:     status,
		Components: components,
	}
}

func (s *HealthService) probe(ctx context.Context, name string, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		logger.Warn("Health probe %s failed: %v", name, err)
		return driving.ComponentUnavailable
	}
	return driving.ComponentOK
}
