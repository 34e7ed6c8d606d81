package domain

import "time"

// MaxChunkContentLen is the hard ceiling on chunk content length.
// The record store's chunk column is sized for this; every chunking
// strategy re-splits oversized output to stay under it.
const MaxChunkContentLen = 3500

// EmbeddingDimensions is the fixed embedding vector size.
// Both vector collections and the embedding provider are configured for it.
const EmbeddingDimensions = 1536

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

const (
	DocumentPending    DocumentStatus = "pending"
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

// Document represents an ingested source document.
// Content extraction, chunking, and indexing all hang off this record.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// UserID is the owning user.
	UserID string

	// Title is the human-readable title, usually the file name.
	Title string

	// FilePath is the original file location handed to the extractor.
	FilePath string

	// ContentType is the file extension without the dot (pdf, docx, txt).
	ContentType string

	// Status is the current ingestion state.
	Status DocumentStatus

	// ChunkCount is the number of chunks produced, set on completion.
	ChunkCount int

	// CreatedAt is when the document was first registered.
	CreatedAt time.Time

	// UpdatedAt is when the document record last changed.
	UpdatedAt time.Time
}

// Chunk is the atomic retrieval unit produced by the chunking engine.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// UserID is denormalised from the parent document for filtered search.
	UserID string

	// Content is the chunk text. Never longer than MaxChunkContentLen.
	Content string

	// ChunkIndex is the 0-based, contiguous position within the document.
	ChunkIndex int

	// TotalChunks is the final chunk count for the document. Back-filled
	// once the whole document has been chunked; not meaningful before that.
	TotalChunks int

	// Strategy is the chunking strategy that produced this chunk.
	Strategy ChunkStrategy

	// ChunkSizeTarget is the configured size the strategy aimed for.
	ChunkSizeTarget int

	// ActualSize is the character length of Content.
	ActualSize int

	// Metadata holds strategy-specific values (sentence_count,
	// coherence_score, start/end offsets).
	Metadata map[string]any

	// Embedding is the vector representation. All-zero means the
	// embedding provider failed; see IsZeroVector.
	Embedding []float32

	// EmbeddingModel is the model that produced Embedding.
	EmbeddingModel string

	// SearchCount is how often this chunk appeared in final search results.
	SearchCount int

	// ClickCount is how often a user clicked through to this chunk.
	ClickCount int

	// LastAccessed is when the chunk last appeared in search results.
	LastAccessed *time.Time

	// CreatedAt is when the chunk was produced.
	CreatedAt time.Time
}

// ZeroVector returns the soft-failure sentinel embedding: a zero vector of
// the standard dimension. Callers must not treat it as a semantic embedding.
func ZeroVector() []float32 {
	return make([]float32, EmbeddingDimensions)
}

// IsZeroVector reports whether v is empty or all zeros.
func IsZeroVector(v []float32) bool {
	for _, f := range v {
		if f != 0 {
			return false
		}
	}
	return true
}
