package reranker

import (
	"sort"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// Score blend weights: vector similarity dominates, the lexical signal
// adjusts within it.
const (
	VectorWeight  = 0.7
	LexicalWeight = 0.3
)

// Reranker re-scores candidates with a lexical TF-IDF similarity against
// the query and blends it with the retrieval similarity. Re-ranking is an
// enhancement, never a hard dependency: any internal failure returns the
// input unchanged.
type Reranker struct{}

// New creates a reranker.
func New() *Reranker {
	return &Reranker{}
}

// Rerank populates RerankScore and TFIDFSimilarity on each result and
// re-sorts descending by rerank score. The query is appended to the fitting
// corpus so vocabulary and IDF weights are derived jointly with the
// candidates.
func (r *Reranker) Rerank(query string, results []domain.SearchResult) []domain.SearchResult {
	if len(results) < 2 {
		return results
	}

	corpus := make([]string, 0, len(results)+1)
	for _, res := range results {
		corpus = append(corpus, res.Content)
	}
	corpus = append(corpus, query)

	vectorizer := NewVectorizer()
	if err := vectorizer.Fit(corpus); err != nil {
		logger.Warn("Reranking skipped: %v", err)
		return results
	}

	queryVec, err := vectorizer.Transform(query)
	if err != nil {
		logger.Warn("Reranking skipped: %v", err)
		return results
	}

	reranked := make([]domain.SearchResult, len(results))
	copy(reranked, results)
	for i := range reranked {
		candVec, err := vectorizer.Transform(reranked[i].Content)
		if err != nil {
			logger.Warn("Reranking skipped: %v", err)
			return results
		}
		lexical := Cosine(queryVec, candVec)
		score := VectorWeight*reranked[i].SimilarityScore + LexicalWeight*lexical

		reranked[i].TFIDFSimilarity = &lexical
		reranked[i].RerankScore = &score
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return *reranked[i].RerankScore > *reranked[j].RerankScore
	})

	return reranked
}
