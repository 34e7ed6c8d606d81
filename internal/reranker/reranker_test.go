package reranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

func TestRerank_PopulatesBlendedScores(t *testing.T) {
	results := []domain.SearchResult{
		{ChunkID: "a", Content: "the quick brown fox jumps over the lazy dog", SimilarityScore: 0.9},
		{ChunkID: "b", Content: "an unrelated passage about cooking pasta", SimilarityScore: 0.8},
	}

	reranked := New().Rerank("quick brown fox", results)

	require.Len(t, reranked, 2)
	for _, r := range reranked {
		require.NotNil(t, r.RerankScore)
		require.NotNil(t, r.TFIDFSimilarity)
		assert.InDelta(t,
			VectorWeight*r.SimilarityScore+LexicalWeight**r.TFIDFSimilarity,
			*r.RerankScore, 1e-9)
		assert.GreaterOrEqual(t, *r.TFIDFSimilarity, 0.0)
		assert.LessOrEqual(t, *r.TFIDFSimilarity, 1.0)
	}
}

func TestRerank_LexicalMatchOvertakesCloseVectorScore(t *testing.T) {
	results := []domain.SearchResult{
		{ChunkID: "vector-favourite", Content: "completely different topic entirely", SimilarityScore: 0.81},
		{ChunkID: "lexical-match", Content: "error handling in distributed systems", SimilarityScore: 0.80},
	}

	reranked := New().Rerank("error handling in distributed systems", results)

	require.Len(t, reranked, 2)
	assert.Equal(t, "lexical-match", reranked[0].ChunkID)
}

func TestRerank_SingleResultUntouched(t *testing.T) {
	results := []domain.SearchResult{
		{ChunkID: "only", Content: "anything", SimilarityScore: 0.5},
	}

	reranked := New().Rerank("query", results)

	require.Len(t, reranked, 1)
	assert.Nil(t, reranked[0].RerankScore)
}

func TestRerank_ReturnsInputOnUntokenizableCorpus(t *testing.T) {
	results := []domain.SearchResult{
		{ChunkID: "a", Content: "!!!", SimilarityScore: 0.9},
		{ChunkID: "b", Content: "???", SimilarityScore: 0.4},
	}

	reranked := New().Rerank("***", results)

	require.Len(t, reranked, 2)
	assert.Equal(t, "a", reranked[0].ChunkID)
	assert.Nil(t, reranked[0].RerankScore)
	assert.Nil(t, reranked[1].RerankScore)
}

func TestVectorizer_BigramsInVocabulary(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"alpha beta", "beta gamma"}))

	_, hasBigram := v.vocabulary["alpha beta"]
	assert.True(t, hasBigram)
	_, hasUnigram := v.vocabulary["beta"]
	assert.True(t, hasUnigram)
}

func TestVectorizer_TransformIsL2Normalised(t *testing.T) {
	v := NewVectorizer()
	require.NoError(t, v.Fit([]string{"alpha beta gamma", "delta epsilon"}))

	vec, err := v.Transform("alpha beta")
	require.NoError(t, err)

	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 0}, []float64{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}), 1e-9)
}

func TestRerank_IdenticalContentScoresHighest(t *testing.T) {
	// The hybrid end-to-end scenario shape: a strong vector match whose
	// content also matches the query lexically keeps the top slot.
	results := []domain.SearchResult{
		{ChunkID: "strong", Content: "database indexing strategies for postgres", SimilarityScore: 0.95},
		{ChunkID: "weak", Content: "holiday recipes and meal planning", SimilarityScore: 0.3},
	}

	reranked := New().Rerank("database indexing strategies", results)

	require.Len(t, reranked, 2)
	assert.Equal(t, "strong", reranked[0].ChunkID)
	assert.Greater(t, *reranked[0].RerankScore, *reranked[1].RerankScore)
}
