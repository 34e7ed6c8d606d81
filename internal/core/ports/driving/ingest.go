package driving

import (
	"context"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// IngestOptions tunes one ingestion run.
type IngestOptions struct {
	// Collection selects the target vector collection. Defaults to
	// driven.CollectionDocuments.
	Collection driven.Collection

	// Config overrides the user's stored retrieval configuration for
	// this run. Nil means resolve from the config store.
	Config *domain.RAGConfig
}

// IngestReport summarises a completed ingestion run.
type IngestReport struct {
	Status           string `json:"status"`
	ChunksCreated    int    `json:"chunks_created"`
	ProcessingTimeMS int64  `json:"processing_time_ms"`
	EmbeddingModel   string `json:"embedding_model"`
	ChunkingStrategy string `json:"chunking_strategy"`
}

// IngestService runs the document ingestion pipeline.
// Unlike search, ingestion failures are surfaced: any pipeline error marks
// the document failed and is returned to the caller.
type IngestService interface {
	// ProcessDocument runs extraction, chunking, embedding, persistence,
	// and indexing for an already-registered document.
	ProcessDocument(ctx context.Context, doc *domain.Document, userID string, opts IngestOptions) (*IngestReport, error)

	// IngestFile registers a document for the file at path and processes it.
	IngestFile(ctx context.Context, path, userID string, opts IngestOptions) (*domain.Document, *IngestReport, error)

	// DeleteDocument removes a document's chunks from the vector index and
	// the record store. Returns true when the document existed.
	DeleteDocument(ctx context.Context, documentID, userID string) (bool, error)
}
