package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The raw provider adapters return errors; the gateway decorator wraps a
// provider and converts every failure into the zero-vector sentinel so the
// ingestion and search pipelines keep moving. Orchestrators always hold a
// gateway, never a raw provider.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the vector index collection configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
