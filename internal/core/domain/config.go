package domain

import "time"

// Default retrieval configuration values.
const (
	DefaultChunkSize           = 500
	DefaultChunkOverlap        = 50
	DefaultEmbeddingModel      = "text-embedding-3-small"
	DefaultSearchAlgorithm     = AlgorithmHybrid
	DefaultSimilarityThreshold = 0.1
	DefaultMaxResults          = 10
)

// RAGConfig is the per-user (optionally per-scope) retrieval tunable set.
// One default config exists per user (empty scope); narrower scopes may
// carry their own. Created lazily on first use, never deleted here.
type RAGConfig struct {
	ID     string
	UserID string

	// ScopeID narrows the config to a sub-context. Empty means the
	// user's default configuration.
	ScopeID string

	ChunkingStrategy    ChunkStrategy
	ChunkSize           int
	ChunkOverlap        int
	EmbeddingModel      string
	SearchAlgorithm     string
	SimilarityThreshold float64
	MaxResults          int
	EnableReranking     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultRAGConfig returns the documented defaults for a user and scope.
// The ID is left empty; the store assigns one on save.
func DefaultRAGConfig(userID, scopeID string) RAGConfig {
	return RAGConfig{
		UserID:              userID,
		ScopeID:             scopeID,
		ChunkingStrategy:    StrategySemantic,
		ChunkSize:           DefaultChunkSize,
		ChunkOverlap:        DefaultChunkOverlap,
		EmbeddingModel:      DefaultEmbeddingModel,
		SearchAlgorithm:     DefaultSearchAlgorithm,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxResults:          DefaultMaxResults,
		EnableReranking:     true,
	}
}
