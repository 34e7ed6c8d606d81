package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "aligned",
		[]float32{1, 0}, driven.VectorPayload{UserID: "u"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "diagonal",
		[]float32{1, 1}, driven.VectorPayload{UserID: "u"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "orthogonal",
		[]float32{0, 1}, driven.VectorPayload{UserID: "u"}))

	hits, err := idx.Search(ctx, driven.CollectionDocuments, []float32{1, 0}, driven.VectorFilter{UserID: "u"}, 10, 0.1)
	require.NoError(t, err)

	require.Len(t, hits, 2, "orthogonal vector is below the threshold")
	assert.Equal(t, "aligned", hits[0].ChunkID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
	assert.Equal(t, "diagonal", hits[1].ChunkID)
}

func TestSearch_FiltersByUserAndScope(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "mine",
		[]float32{1}, driven.VectorPayload{UserID: "u1", ScopeID: "work"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "other-scope",
		[]float32{1}, driven.VectorPayload{UserID: "u1", ScopeID: "home"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "other-user",
		[]float32{1}, driven.VectorPayload{UserID: "u2"}))

	hits, err := idx.Search(ctx, driven.CollectionDocuments, []float32{1}, driven.VectorFilter{UserID: "u1", ScopeID: "work"}, 10, 0)
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "mine", hits[0].ChunkID)
}

func TestSearch_ExtraFilterWhitelist(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "old-pdf",
		[]float32{1}, driven.VectorPayload{UserID: "u", ContentType: "pdf", CreatedAt: old}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "recent-pdf",
		[]float32{1}, driven.VectorPayload{UserID: "u", ContentType: "pdf", CreatedAt: recent}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "recent-txt",
		[]float32{1}, driven.VectorPayload{UserID: "u", ContentType: "txt", CreatedAt: recent}))

	filter := driven.VectorFilter{UserID: "u", Extra: map[string]any{
		"content_type":  "pdf",
		"created_after": "2026-01-01T00:00:00Z",
		"unknown_key":   "ignored",
	}}
	hits, err := idx.Search(ctx, driven.CollectionDocuments, []float32{1}, filter, 10, 0)
	require.NoError(t, err)

	require.Len(t, hits, 1)
	assert.Equal(t, "recent-pdf", hits[0].ChunkID)
}

func TestCollectionsAreIsolated(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "doc",
		[]float32{1}, driven.VectorPayload{UserID: "u"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionTraining, "train",
		[]float32{1}, driven.VectorPayload{UserID: "u"}))

	hits, err := idx.Search(ctx, driven.CollectionTraining, []float32{1}, driven.VectorFilter{UserID: "u"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "train", hits[0].ChunkID)
}

func TestDelete(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "a", []float32{1}, driven.VectorPayload{UserID: "u"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "b", []float32{1}, driven.VectorPayload{UserID: "u"}))

	require.NoError(t, idx.Delete(ctx, driven.CollectionDocuments, []string{"a"}))

	hits, err := idx.Search(ctx, driven.CollectionDocuments, []float32{1}, driven.VectorFilter{UserID: "u"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].ChunkID)
}

func TestUpsert_ReplacesExistingPoint(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "a", []float32{1, 0}, driven.VectorPayload{UserID: "u"}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionDocuments, "a", []float32{0, 1}, driven.VectorPayload{UserID: "u"}))

	hits, err := idx.Search(ctx, driven.CollectionDocuments, []float32{0, 1}, driven.VectorFilter{UserID: "u"}, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-6)
}
