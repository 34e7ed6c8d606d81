package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
	"github.com/custodia-labs/ragpipe/internal/reranker"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// maxCandidates caps how many ANN candidates are requested regardless of
// the caller's limit. Retrieval asks for more than the final limit so
// re-ranking can change the order without starving the result set.
const maxCandidates = 50

// fallbackLimit is the default result limit on the lexical path, where no
// user configuration is resolved.
const fallbackLimit = 10

// SearchService answers queries with the multi-stage hybrid pipeline,
// degrading to a lexical-only path when the vector index is unavailable.
type SearchService struct {
	docStore   driven.DocumentStore
	cfgStore   driven.ConfigStore
	analytics  driven.AnalyticsStore
	index      driven.VectorIndex
	embedder   driven.EmbeddingService
	cache      driven.Cache
	reranker   *reranker.Reranker
	collection driven.Collection
}

// NewSearchService creates a search service. index and cache are optional
// (nil when their backends are unreachable); embedder is expected to be the
// degrade-not-fail gateway.
func NewSearchService(
	docStore driven.DocumentStore,
	cfgStore driven.ConfigStore,
	analytics driven.AnalyticsStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	cache driven.Cache,
) *SearchService {
	return &SearchService{
		docStore:   docStore,
		cfgStore:   cfgStore,
		analytics:  analytics,
		index:      index,
		embedder:   embedder,
		cache:      cache,
		reranker:   reranker.New(),
		collection: driven.CollectionDocuments,
	}
}

// HybridSearch runs the retrieval pipeline. The primary path may return an
// error after cache and config resolution; the fallback paths never do.
func (s *SearchService) HybridSearch(
	ctx context.Context, query, userID, scopeID string, filters domain.SearchFilters, limit int,
) (*domain.SearchResponse, error) {
	if err := domain.ValidateID("user", userID); err != nil {
		return nil, err
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q, user: %s, scope: %q, limit: %d", query, userID, scopeID, limit)

	start := time.Now()

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.SearchResponse{
			Query:           query,
			Results:         []domain.SearchResult{},
			SearchAlgorithm: domain.AlgorithmHybrid,
			ResponseTimeMS:  time.Since(start).Milliseconds(),
		}, nil
	}

	// No vector index: route directly to the lexical-only path, which
	// catches its own errors and never raises.
	if s.index == nil {
		logger.Info("Vector index unavailable, using lexical fallback")
		return s.fallbackSearch(ctx, query, userID, limit, start), nil
	}

	cfg, err := s.cfgStore.GetOrCreate(ctx, userID, scopeID)
	if err != nil {
		err = fmt.Errorf("resolve config: %w", err)
		logger.Error("Hybrid search failed: %v", err)
		s.logQuery(ctx, userID, query, domain.SearchStatusFailed, 0,
			time.Since(start).Milliseconds(), domain.AlgorithmHybrid, err.Error())
		return nil, err
	}
	// The limit is resolved before the cache key so an explicit limit
	// equal to the configured default shares one cache entry.
	if limit <= 0 {
		limit = cfg.MaxResults
	}

	key := s.cacheKey(query, userID, scopeID, filters, limit)
	if cached := s.cacheLookup(ctx, key); cached != nil {
		logger.Info("Cache hit")
		s.logQuery(ctx, userID, query, domain.SearchStatusCached, len(cached.Results),
			time.Since(start).Milliseconds(), cached.SearchAlgorithm, "")
		return cached, nil
	}

	resp, err := s.primarySearch(ctx, query, userID, scopeID, filters, cfg, limit, start)
	if err != nil {
		// Primary-path failures are surfaced, but recorded first.
		logger.Error("Hybrid search failed: %v", err)
		s.logQuery(ctx, userID, query, domain.SearchStatusFailed, 0,
			time.Since(start).Milliseconds(), domain.AlgorithmHybrid, err.Error())
		return nil, err
	}

	if resp.SearchAlgorithm != domain.AlgorithmHybrid {
		// The pipeline degraded to the lexical path mid-flight; that path
		// already recorded its own analytics entry, and a degraded
		// response must not be cached or it would mask recovery.
		return resp, nil
	}

	s.cacheStore(ctx, key, resp)
	s.logQuery(ctx, userID, query, domain.SearchStatusSuccess, len(resp.Results),
		resp.ResponseTimeMS, resp.SearchAlgorithm, "")
	s.touchResults(ctx, resp.Results)

	return resp, nil
}

// primarySearch is the hybrid path: embed, retrieve, hydrate, rerank,
// filter.
func (s *SearchService) primarySearch(
	ctx context.Context, query, userID, scopeID string, filters domain.SearchFilters, cfg *domain.RAGConfig, limit int, start time.Time,
) (*domain.SearchResponse, error) {
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil || domain.IsZeroVector(queryVector) {
		// The gateway substitutes zero vectors on provider failure, and
		// cosine against a zero vector is undefined. Degrade to the
		// lexical path rather than running a meaningless ANN query.
		logger.Warn("Query embedding unavailable (err=%v), using lexical fallback", err)
		return s.fallbackSearch(ctx, query, userID, limit, start), nil
	}

	candidateLimit := limit * 2
	if candidateLimit > maxCandidates {
		candidateLimit = maxCandidates
	}
	logger.Debug("Requesting %d candidates for limit %d", candidateLimit, limit)

	filter := driven.VectorFilter{
		UserID:  userID,
		ScopeID: scopeID,
		Extra:   filters,
	}
	// Threshold filtering happens in the business rules stage; the index
	// query is intentionally permissive.
	hits, err := s.index.Search(ctx, s.collection, queryVector, filter, candidateLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))

	results, err := s.hydrate(ctx, hits)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}
	logger.Debug("Hydrated: %d results", len(results))

	if cfg.EnableReranking && len(results) >= 2 {
		logger.Debug("Reranking %d results", len(results))
		results = s.reranker.Rerank(query, results)
	}

	final := applyBusinessRules(results, cfg.SimilarityThreshold, limit)
	logger.Info("Final results: %d (threshold %.2f)", len(final), cfg.SimilarityThreshold)

	return &domain.SearchResponse{
		Query:               query,
		Results:             final,
		TotalFound:          len(final),
		ResponseTimeMS:      time.Since(start).Milliseconds(),
		SearchAlgorithm:     domain.AlgorithmHybrid,
		SimilarityThreshold: cfg.SimilarityThreshold,
		RerankingEnabled:    cfg.EnableReranking,
	}, nil
}

// hydrate resolves ANN hits into full results from the record store.
// Candidates whose backing record has disappeared are skipped with a
// warning: index/store drift is tolerated, not fatal.
func (s *SearchService) hydrate(ctx context.Context, hits []driven.VectorHit) ([]domain.SearchResult, error) {
	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Chunk %s in index but missing from record store, skipping", hit.ChunkID)
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}

		results = append(results, domain.SearchResult{
			ChunkID:          chunk.ID,
			DocumentID:       chunk.DocumentID,
			Content:          chunk.Content,
			SimilarityScore:  hit.Score,
			ChunkIndex:       chunk.ChunkIndex,
			Metadata:         chunk.Metadata,
			SemanticMetadata: semanticMetadata(chunk),
			EmbeddingModel:   chunk.EmbeddingModel,
		})
	}
	return results, nil
}

// semanticMetadata surfaces the semantic-strategy diagnostics when present.
func semanticMetadata(chunk *domain.Chunk) map[string]any {
	out := make(map[string]any)
	for _, key := range []string{"coherence_score", "sentence_count"} {
		if v, ok := chunk.Metadata[key]; ok {
			out[key] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// applyBusinessRules marks each candidate against the similarity
// threshold, drops the ones below it, assigns relevance tiers, sorts by
// effective score, and truncates to limit.
func applyBusinessRules(results []domain.SearchResult, threshold float64, limit int) []domain.SearchResult {
	final := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		effective := r.EffectiveScore()
		r.AboveThreshold = effective >= threshold
		r.RelevanceTier = domain.TierFor(effective)
		if r.AboveThreshold {
			final = append(final, r)
		}
	}

	sort.SliceStable(final, func(i, j int) bool {
		return final[i].EffectiveScore() > final[j].EffectiveScore()
	})

	if len(final) > limit {
		final = final[:limit]
	}
	return final
}

// fallbackSearch is the lexical-only path: case-insensitive substring
// matching with naive term-frequency scoring. It catches its own errors
// and degrades to an empty response; search never hard-fails here.
func (s *SearchService) fallbackSearch(
	ctx context.Context, query, userID string, limit int, start time.Time,
) *domain.SearchResponse {
	resp, err := s.lexicalSearch(ctx, query, userID, limit, start)
	if err != nil {
		logger.Error("Lexical fallback failed: %v", err)
		s.logQuery(ctx, userID, query, domain.SearchStatusFailed, 0,
			time.Since(start).Milliseconds(), domain.AlgorithmErrorFallback, err.Error())
		return &domain.SearchResponse{
			Query:           query,
			Results:         []domain.SearchResult{},
			ResponseTimeMS:  time.Since(start).Milliseconds(),
			SearchAlgorithm: domain.AlgorithmErrorFallback,
		}
	}

	s.logQuery(ctx, userID, query, domain.SearchStatusFallback, len(resp.Results),
		resp.ResponseTimeMS, resp.SearchAlgorithm, "")
	return resp
}

func (s *SearchService) lexicalSearch(
	ctx context.Context, query, userID string, limit int, start time.Time,
) (*domain.SearchResponse, error) {
	if limit <= 0 {
		limit = fallbackLimit
	}

	terms := strings.Fields(strings.ToLower(query))
	seen := make(map[string]domain.Chunk)
	for _, term := range terms {
		chunks, err := s.docStore.SearchChunksByContent(ctx, userID, term, maxCandidates)
		if err != nil {
			return nil, fmt.Errorf("content search for %q: %w", term, err)
		}
		for _, c := range chunks {
			seen[c.ID] = c
		}
	}

	results := make([]domain.SearchResult, 0, len(seen))
	for _, chunk := range seen {
		score := termFrequencyScore(chunk.Content, terms)
		if score == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			ChunkID:          chunk.ID,
			DocumentID:       chunk.DocumentID,
			Content:          chunk.Content,
			SimilarityScore:  score,
			AboveThreshold:   true,
			RelevanceTier:    domain.TierFor(score),
			ChunkIndex:       chunk.ChunkIndex,
			Metadata:         chunk.Metadata,
			SemanticMetadata: semanticMetadata(&chunk),
			EmbeddingModel:   chunk.EmbeddingModel,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return &domain.SearchResponse{
		Query:           query,
		Results:         results,
		TotalFound:      len(results),
		ResponseTimeMS:  time.Since(start).Milliseconds(),
		SearchAlgorithm: domain.AlgorithmDatabaseOnly,
	}, nil
}

// termFrequencyScore is the naive fallback score: total matched term
// occurrences divided by content length, capped at 1.
func termFrequencyScore(content string, terms []string) float64 {
	if len(content) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	occurrences := 0
	for _, term := range terms {
		occurrences += strings.Count(lower, term)
	}
	score := float64(occurrences) / float64(len(content))
	if score > 1 {
		score = 1
	}
	return score
}

// cacheKey hashes the canonical request tuple so semantically identical
// requests hit the same entry regardless of field ordering or query case.
func (s *SearchService) cacheKey(query, userID, scopeID string, filters domain.SearchFilters, limit int) string {
	// json.Marshal sorts map keys, giving a canonical filter encoding.
	filterJSON, err := json.Marshal(filters)
	if err != nil {
		filterJSON = []byte("null")
	}
	canonical := fmt.Sprintf("%s|%s|%s|%s|%d",
		strings.ToLower(strings.TrimSpace(query)), userID, scopeID, filterJSON, limit)
	sum := sha256.Sum256([]byte(canonical))
	return "search:" + hex.EncodeToString(sum[:])
}

// cacheLookup treats every cache error identically to a miss.
func (s *SearchService) cacheLookup(ctx context.Context, key string) *domain.SearchResponse {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Cache get failed: %v", err)
		}
		return nil
	}
	var resp domain.SearchResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		logger.Warn("Cache entry corrupt, ignoring: %v", err)
		return nil
	}
	return &resp
}

// cacheStore failures only affect latency, never correctness.
func (s *SearchService) cacheStore(ctx context.Context, key string, resp *domain.SearchResponse) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		logger.Warn("Cache marshal failed: %v", err)
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), driven.DefaultCacheTTL); err != nil {
		logger.Warn("Cache set failed: %v", err)
	}
}

// logQuery records one analytics entry. Recording failures are logged and
// swallowed so analytics never break a served search.
func (s *SearchService) logQuery(
	ctx context.Context, userID, query, status string, resultCount int, responseMS int64, algorithm, errMsg string,
) {
	entry := &domain.SearchQueryLog{
		ID:              domain.NewID(),
		UserID:          userID,
		Query:           query,
		Status:          status,
		ResultCount:     resultCount,
		ResponseTimeMS:  responseMS,
		SearchAlgorithm: algorithm,
		Error:           errMsg,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.analytics.SaveQueryLog(ctx, entry); err != nil {
		logger.Warn("Query log failed: %v", err)
	}
}

// touchResults bumps per-chunk usage counters for the final result set.
func (s *SearchService) touchResults(ctx context.Context, results []domain.SearchResult) {
	if len(results) == 0 {
		return
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ChunkID
	}
	if err := s.docStore.TouchChunkSearch(ctx, ids); err != nil {
		logger.Warn("Chunk usage update failed: %v", err)
	}
}
