// Package gateway wraps a raw embedding provider with the soft-failure
// policy: provider errors become zero-vector sentinels instead of
// propagating, so a flapping provider degrades retrieval quality without
// stopping ingestion or search.
package gateway

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// Ensure Gateway implements the interface.
var _ driven.EmbeddingService = (*Gateway)(nil)

// Gateway decorates an embedding provider. Embed and EmbedBatch never
// return an error; callers detect soft failures with domain.IsZeroVector.
type Gateway struct {
	provider driven.EmbeddingService
}

// New wraps the given provider.
func New(provider driven.EmbeddingService) *Gateway {
	return &Gateway{provider: provider}
}

// Embed returns the provider's embedding, or the zero-vector sentinel when
// the provider fails or returns a malformed vector.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := g.provider.Embed(ctx, text)
	if err != nil {
		logger.Warn("Embedding failed, substituting zero vector: %v", err)
		return domain.ZeroVector(), nil
	}
	if len(vec) != domain.EmbeddingDimensions {
		logger.Warn("Embedding has %d dimensions, expected %d, substituting zero vector",
			len(vec), domain.EmbeddingDimensions)
		return domain.ZeroVector(), nil
	}
	return vec, nil
}

// EmbedBatch embeds all texts, substituting the zero-vector sentinel for
// the whole batch on provider failure and per entry for malformed vectors.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := g.provider.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) != len(texts) {
		logger.Warn("Batch embedding failed (%d texts): %v", len(texts), err)
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = domain.ZeroVector()
		}
		return out, nil
	}
	for i, vec := range vecs {
		if len(vec) != domain.EmbeddingDimensions {
			logger.Warn("Batch embedding %d has %d dimensions, expected %d, substituting zero vector",
				i, len(vec), domain.EmbeddingDimensions)
			vecs[i] = domain.ZeroVector()
		}
	}
	return vecs, nil
}

// Dimensions returns the provider's embedding size.
func (g *Gateway) Dimensions() int {
	return g.provider.Dimensions()
}

// ModelName returns the provider's model name.
func (g *Gateway) ModelName() string {
	return g.provider.ModelName()
}

// Ping reports the raw provider state; health checks must see through the
// soft-failure policy.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.provider.Ping(ctx)
}

// Close releases the provider's resources.
func (g *Gateway) Close() error {
	return g.provider.Close()
}
