package domain

import "time"

// Query log statuses recorded by the analytics recorder.
const (
	SearchStatusSuccess  = "success"
	SearchStatusFailed   = "failed"
	SearchStatusCached   = "cached"
	SearchStatusFallback = "fallback"
)

// SearchQueryLog is an append-only record of one search request.
type SearchQueryLog struct {
	ID              string
	UserID          string
	Query           string
	Status          string
	ResultCount     int
	ResponseTimeMS  int64
	SearchAlgorithm string

	// Error holds the failure message for failed searches.
	Error string

	CreatedAt time.Time
}

// ResultClick records a user clicking through to a result chunk.
type ResultClick struct {
	ID               string
	SearchQueryLogID string
	ChunkID          string
	UserID           string

	// Position is the 0-based rank of the clicked result.
	Position int

	SimilarityScore float64
	RerankScore     *float64

	CreatedAt time.Time
}

// QueryCount pairs a query string with how often it was issued.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// AnalyticsSummary is the reporting view over a user's recent searches.
type AnalyticsSummary struct {
	TotalSearches     int          `json:"total_searches"`
	AvgResponseTimeMS float64      `json:"avg_response_time_ms"`
	ClickThroughRate  float64      `json:"click_through_rate"`
	TopQueries        []QueryCount `json:"top_queries"`
	PeriodDays        int          `json:"period_days"`
}

// Processing log statuses for ingestion stages.
const (
	StageStarted   = "started"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// ProcessingLogEntry records one ingestion stage transition for a document.
// The log supports post-mortem diagnosis; failures are terminal for the
// run and retried by re-invoking ingestion.
type ProcessingLogEntry struct {
	ID         string
	DocumentID string

	// Stage is the pipeline stage name (text_extraction, chunking,
	// embedding, indexing).
	Stage string

	Status    string
	Message   string
	ElapsedMS int64
	CreatedAt time.Time
}
