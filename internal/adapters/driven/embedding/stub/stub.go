// Package stub provides a no-op embedding service used when no provider is
// configured. Every embedding it returns is the zero-vector sentinel, which
// keeps ingestion running and routes search to the lexical fallback path.
package stub

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService returns zero vectors for every input.
type EmbeddingService struct{}

// NewEmbeddingService creates a stub embedding service.
func NewEmbeddingService() *EmbeddingService {
	return &EmbeddingService{}
}

// Embed returns the zero-vector sentinel.
func (s *EmbeddingService) Embed(_ context.Context, _ string) ([]float32, error) {
	return domain.ZeroVector(), nil
}

// EmbedBatch returns one zero vector per input.
func (s *EmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = domain.ZeroVector()
	}
	return out, nil
}

// Dimensions returns the standard embedding size.
func (s *EmbeddingService) Dimensions() int {
	return domain.EmbeddingDimensions
}

// ModelName identifies the stub.
func (s *EmbeddingService) ModelName() string {
	return "stub"
}

// Ping always fails: the stub exists because no real provider is reachable.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return domain.ErrEmbeddingUnavailable
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
