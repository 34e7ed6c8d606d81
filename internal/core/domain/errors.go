package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as a
	// non-UUID identifier crossing a service boundary.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file format the extractor cannot handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured or unreachable. The gateway converts this into a
	// zero-vector result rather than surfacing it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not
	// configured. Search routes to the lexical fallback path.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrCacheUnavailable indicates the cache backend is not configured.
	// Callers treat it exactly like a cache miss.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrForbidden indicates an entity belongs to a different user.
	ErrForbidden = errors.New("forbidden")
)
