package driven

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// DocumentStore persists documents, chunks, and ingestion processing logs.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// SetDocumentStatus updates a document's status and chunk count.
	SetDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int) error

	// DeleteDocument removes a document and cascades to its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// SaveChunk stores a chunk, including its serialized embedding.
	SaveChunk(ctx context.Context, chunk *domain.Chunk) error

	// GetChunk retrieves a chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunksByDocument returns all chunks for a document ordered by
	// chunk index.
	GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// SearchChunksByContent returns chunks whose content contains the
	// given term (case-insensitive), scoped to one user. Used by the
	// lexical fallback search path.
	SearchChunksByContent(ctx context.Context, userID, term string, limit int) ([]domain.Chunk, error)

	// TouchChunkSearch increments search_count and refreshes last_accessed
	// for every listed chunk.
	TouchChunkSearch(ctx context.Context, chunkIDs []string) error

	// IncrementChunkClicks bumps a chunk's click counter.
	IncrementChunkClicks(ctx context.Context, chunkID string) error

	// AppendProcessingLog records one ingestion stage transition.
	AppendProcessingLog(ctx context.Context, entry *domain.ProcessingLogEntry) error

	// ProcessingLog returns a document's stage log in order.
	ProcessingLog(ctx context.Context, documentID string) ([]domain.ProcessingLogEntry, error)
}

// ConfigStore persists per-user retrieval configuration.
type ConfigStore interface {
	// GetOrCreate returns the config for (user, scope), creating it with
	// defaults on first use.
	GetOrCreate(ctx context.Context, userID, scopeID string) (*domain.RAGConfig, error)

	// Save stores or updates a config.
	Save(ctx context.Context, cfg *domain.RAGConfig) error
}

// AnalyticsStore persists search query logs and click-through events.
type AnalyticsStore interface {
	// SaveQueryLog appends one search query log record.
	SaveQueryLog(ctx context.Context, log *domain.SearchQueryLog) error

	// SaveClick appends one result click record.
	SaveClick(ctx context.Context, click *domain.ResultClick) error

	// Summary aggregates a user's query logs and clicks over the last
	// days days.
	Summary(ctx context.Context, userID string, days int) (*domain.AnalyticsSummary, error)
}
