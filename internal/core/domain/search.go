package domain

// Search algorithm labels reported in the response envelope.
const (
	// AlgorithmHybrid is the primary path: ANN retrieval plus lexical rerank.
	AlgorithmHybrid = "hybrid"

	// AlgorithmDatabaseOnly is the lexical fallback used when the vector
	// index is unavailable.
	AlgorithmDatabaseOnly = "database_only"

	// AlgorithmErrorFallback labels the empty response returned when the
	// fallback path itself fails. Search never hard-fails in fallback mode.
	AlgorithmErrorFallback = "error_fallback"
)

// RelevanceTier is a coarse bucket derived from the effective score.
type RelevanceTier string

const (
	TierExcellent RelevanceTier = "excellent"
	TierGood      RelevanceTier = "good"
	TierModerate  RelevanceTier = "moderate"
	TierLow       RelevanceTier = "low"
)

// TierFor maps an effective score onto a relevance tier.
// Breakpoints are fixed: >=0.9 excellent, >=0.8 good, >=0.7 moderate.
func TierFor(score float64) RelevanceTier {
	switch {
	case score >= 0.9:
		return TierExcellent
	case score >= 0.8:
		return TierGood
	case score >= 0.7:
		return TierModerate
	default:
		return TierLow
	}
}

// SearchFilters carries optional caller-supplied filter context.
// Only a whitelist of keys reaches the vector index; unknown keys are
// ignored, never an error.
type SearchFilters map[string]any

// SearchResult is a single search hit. It is ephemeral: constructed per
// query, cached only inside a serialized SearchResponse.
type SearchResult struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`

	// SimilarityScore is the raw vector similarity from retrieval
	// (or the naive term-frequency score on the fallback path).
	SimilarityScore float64 `json:"similarity_score"`

	// RerankScore is the combined vector+lexical score. Nil when
	// reranking did not run.
	RerankScore *float64 `json:"rerank_score,omitempty"`

	// TFIDFSimilarity is the lexical cosine similarity component.
	TFIDFSimilarity *float64 `json:"tfidf_similarity,omitempty"`

	AboveThreshold bool          `json:"above_threshold"`
	RelevanceTier  RelevanceTier `json:"relevance_tier"`

	ChunkIndex       int            `json:"chunk_index"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	SemanticMetadata map[string]any `json:"semantic_metadata,omitempty"`
	EmbeddingModel   string         `json:"embedding_model,omitempty"`
}

// EffectiveScore is the score used for thresholding and tiering:
// the rerank score when present, the raw similarity otherwise.
func (r SearchResult) EffectiveScore() float64 {
	if r.RerankScore != nil {
		return *r.RerankScore
	}
	return r.SimilarityScore
}

// SearchResponse is the envelope returned to callers and stored in the
// result cache.
type SearchResponse struct {
	Query               string         `json:"query"`
	Results             []SearchResult `json:"results"`
	TotalFound          int            `json:"total_found"`
	ResponseTimeMS      int64          `json:"response_time_ms"`
	SearchAlgorithm     string         `json:"search_algorithm"`
	SimilarityThreshold float64        `json:"similarity_threshold"`
	RerankingEnabled    bool           `json:"reranking_enabled"`
}
