package driven

import (
	"context"
	"time"
)

// Collection names a logical vector collection.
type Collection string

const (
	// CollectionDocuments holds embeddings for user document chunks.
	CollectionDocuments Collection = "documents"

	// CollectionTraining holds embeddings for training example chunks.
	CollectionTraining Collection = "training"
)

// VectorPayload is the denormalised data stored with each point. It carries
// enough context to filter search without joining back to the record store.
type VectorPayload struct {
	UserID      string         `json:"user_id"`
	DocumentID  string         `json:"document_id"`
	ChunkIndex  int            `json:"chunk_index"`
	ScopeID     string         `json:"scope_id,omitempty"`
	ContentType string         `json:"content_type,omitempty"`
	Preview     string         `json:"preview,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// VectorFilter constrains a similarity search. UserID is always applied;
// ScopeID narrows further when set. Extra carries caller-supplied context
// from which only a whitelist of keys is honoured — unrecognised keys are
// silently ignored so callers can pass extra context freely.
type VectorFilter struct {
	UserID  string
	ScopeID string
	Extra   map[string]any
}

// VectorHit is one similarity search candidate.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the cosine similarity (0-1).
	Score float64

	// Payload is the stored point payload.
	Payload VectorPayload
}

// VectorIndex provides approximate-nearest-neighbour operations over named
// collections. The index is optional infrastructure: when the backing
// service is unreachable at startup the orchestrators receive nil and route
// to the lexical fallback path instead of failing requests.
type VectorIndex interface {
	// Upsert inserts or replaces the point for a chunk. Idempotent by id,
	// safe to retry.
	Upsert(ctx context.Context, collection Collection, chunkID string, embedding []float32, payload VectorPayload) error

	// Search returns up to limit candidates ranked by similarity, with
	// scores at or above scoreThreshold. Vectors are not returned.
	Search(ctx context.Context, collection Collection, query []float32, filter VectorFilter, limit int, scoreThreshold float64) ([]VectorHit, error)

	// Delete bulk-removes points by chunk id.
	Delete(ctx context.Context, collection Collection, chunkIDs []string) error

	// Ping validates the backing service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
