package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "ragpipe-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	})
	return store
}

// createTestDocument registers a document to satisfy foreign key constraints.
func createTestDocument(t *testing.T, store *Store, userID string) *domain.Document {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	doc := &domain.Document{
		ID:          domain.NewID(),
		UserID:      userID,
		Title:       "notes.txt",
		FilePath:    "/tmp/notes.txt",
		ContentType: "txt",
		Status:      domain.DocumentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.DocumentStore().SaveDocument(context.Background(), doc))
	return doc
}

func testChunk(doc *domain.Document, index int, content string) *domain.Chunk {
	embedding := domain.ZeroVector()
	embedding[0] = 0.25
	return &domain.Chunk{
		ID:              domain.NewID(),
		DocumentID:      doc.ID,
		UserID:          doc.UserID,
		Content:         content,
		ChunkIndex:      index,
		TotalChunks:     1,
		Strategy:        domain.StrategySimple,
		ChunkSizeTarget: 500,
		ActualSize:      len(content),
		Metadata:        map[string]any{"start_offset": float64(0)},
		Embedding:       embedding,
		EmbeddingModel:  "test-embedding-model",
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
}

// ==================== Document Tests ====================

func TestDocumentRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	userID := domain.NewID()

	doc := createTestDocument(t, store, userID)

	got, err := store.DocumentStore().GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "notes.txt", got.Title)
	assert.Equal(t, domain.DocumentPending, got.Status)
}

func TestGetDocument_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.DocumentStore().GetDocument(context.Background(), domain.NewID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetDocumentStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	require.NoError(t, store.DocumentStore().SetDocumentStatus(ctx, doc.ID, domain.DocumentCompleted, 7))

	got, err := store.DocumentStore().GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentCompleted, got.Status)
	assert.Equal(t, 7, got.ChunkCount)

	err = store.DocumentStore().SetDocumentStatus(ctx, domain.NewID(), domain.DocumentFailed, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDocument_CascadesToChunks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	chunk := testChunk(doc, 0, "cascade me")
	require.NoError(t, store.DocumentStore().SaveChunk(ctx, chunk))

	require.NoError(t, store.DocumentStore().DeleteDocument(ctx, doc.ID))

	_, err := store.DocumentStore().GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.DocumentStore().GetChunk(ctx, chunk.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ==================== Chunk Tests ====================

func TestChunkRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	chunk := testChunk(doc, 2, "some chunk content")
	require.NoError(t, store.DocumentStore().SaveChunk(ctx, chunk))

	got, err := store.DocumentStore().GetChunk(ctx, chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, chunk.Content, got.Content)
	assert.Equal(t, 2, got.ChunkIndex)
	assert.Equal(t, domain.StrategySimple, got.Strategy)
	assert.Equal(t, chunk.Embedding, got.Embedding)
	assert.Equal(t, "test-embedding-model", got.EmbeddingModel)
	assert.Equal(t, float64(0), got.Metadata["start_offset"])
}

func TestGetChunksByDocument_OrderedByIndex(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	for _, i := range []int{2, 0, 1} {
		require.NoError(t, store.DocumentStore().SaveChunk(ctx, testChunk(doc, i, "chunk")))
	}

	chunks, err := store.DocumentStore().GetChunksByDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.Equal(t, i, c.ChunkIndex)
	}
}

func TestSearchChunksByContent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	userID := domain.NewID()
	doc := createTestDocument(t, store, userID)
	otherDoc := createTestDocument(t, store, domain.NewID())

	require.NoError(t, store.DocumentStore().SaveChunk(ctx, testChunk(doc, 0, "Postgres INDEXING guide")))
	require.NoError(t, store.DocumentStore().SaveChunk(ctx, testChunk(doc, 1, "cooking recipes")))
	require.NoError(t, store.DocumentStore().SaveChunk(ctx, testChunk(otherDoc, 0, "indexing for someone else")))

	chunks, err := store.DocumentStore().SearchChunksByContent(ctx, userID, "indexing", 10)
	require.NoError(t, err)

	require.Len(t, chunks, 1, "matching is case-insensitive and user-scoped")
	assert.Contains(t, chunks[0].Content, "INDEXING")
}

func TestTouchChunkSearch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	chunk := testChunk(doc, 0, "touched")
	require.NoError(t, store.DocumentStore().SaveChunk(ctx, chunk))

	require.NoError(t, store.DocumentStore().TouchChunkSearch(ctx, []string{chunk.ID}))
	require.NoError(t, store.DocumentStore().TouchChunkSearch(ctx, []string{chunk.ID}))

	got, err := store.DocumentStore().GetChunk(ctx, chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.SearchCount)
	require.NotNil(t, got.LastAccessed)

	// Empty input is a no-op.
	require.NoError(t, store.DocumentStore().TouchChunkSearch(ctx, nil))
}

func TestIncrementChunkClicks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	chunk := testChunk(doc, 0, "clicked")
	require.NoError(t, store.DocumentStore().SaveChunk(ctx, chunk))

	require.NoError(t, store.DocumentStore().IncrementChunkClicks(ctx, chunk.ID))

	got, err := store.DocumentStore().GetChunk(ctx, chunk.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ClickCount)
}

// ==================== Processing Log Tests ====================

func TestProcessingLog(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	doc := createTestDocument(t, store, domain.NewID())

	base := time.Now().UTC().Truncate(time.Second)
	for i, stage := range []string{"text_extraction", "chunking", "embedding_indexing"} {
		require.NoError(t, store.DocumentStore().AppendProcessingLog(ctx, &domain.ProcessingLogEntry{
			ID:         domain.NewID(),
			DocumentID: doc.ID,
			Stage:      stage,
			Status:     domain.StageCompleted,
			ElapsedMS:  int64(i * 10),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := store.DocumentStore().ProcessingLog(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "text_extraction", entries[0].Stage)
	assert.Equal(t, "embedding_indexing", entries[2].Stage)
}

// ==================== Config Tests ====================

func TestConfigGetOrCreate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	userID := domain.NewID()

	cfg, err := store.ConfigStore().GetOrCreate(ctx, userID, "")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ID)
	assert.Equal(t, domain.StrategySemantic, cfg.ChunkingStrategy)
	assert.Equal(t, domain.DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, domain.DefaultSimilarityThreshold, cfg.SimilarityThreshold)
	assert.True(t, cfg.EnableReranking)

	// Second call returns the stored row, not a fresh default.
	again, err := store.ConfigStore().GetOrCreate(ctx, userID, "")
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, again.ID)
}

func TestConfigScopesAreIndependent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	userID := domain.NewID()

	base, err := store.ConfigStore().GetOrCreate(ctx, userID, "")
	require.NoError(t, err)
	scoped, err := store.ConfigStore().GetOrCreate(ctx, userID, "project-x")
	require.NoError(t, err)
	assert.NotEqual(t, base.ID, scoped.ID)

	scoped.ChunkSize = 1200
	require.NoError(t, store.ConfigStore().Save(ctx, scoped))

	base2, err := store.ConfigStore().GetOrCreate(ctx, userID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChunkSize, base2.ChunkSize)

	scoped2, err := store.ConfigStore().GetOrCreate(ctx, userID, "project-x")
	require.NoError(t, err)
	assert.Equal(t, 1200, scoped2.ChunkSize)
}

// ==================== Analytics Tests ====================

func TestAnalyticsSummary(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	userID := domain.NewID()

	logIDs := make([]string, 0, 3)
	for i, query := range []string{"alpha", "alpha", "beta"} {
		log := &domain.SearchQueryLog{
			ID:              domain.NewID(),
			UserID:          userID,
			Query:           query,
			Status:          domain.SearchStatusSuccess,
			ResultCount:     3,
			ResponseTimeMS:  int64(100 + i*100),
			SearchAlgorithm: domain.AlgorithmHybrid,
		}
		require.NoError(t, store.AnalyticsStore().SaveQueryLog(ctx, log))
		logIDs = append(logIDs, log.ID)
	}

	rerank := 0.8
	require.NoError(t, store.AnalyticsStore().SaveClick(ctx, &domain.ResultClick{
		ID:               domain.NewID(),
		SearchQueryLogID: logIDs[0],
		ChunkID:          domain.NewID(),
		UserID:           userID,
		Position:         1,
		SimilarityScore:  0.9,
		RerankScore:      &rerank,
	}))

	summary, err := store.AnalyticsStore().Summary(ctx, userID, 30)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalSearches)
	assert.InDelta(t, 200.0, summary.AvgResponseTimeMS, 1e-9)
	assert.InDelta(t, 1.0/3.0, summary.ClickThroughRate, 1e-9)

	require.NotEmpty(t, summary.TopQueries)
	assert.Equal(t, "alpha", summary.TopQueries[0].Query)
	assert.Equal(t, 2, summary.TopQueries[0].Count)
}

func TestAnalyticsSummary_ScopedToUserAndWindow(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	userID := domain.NewID()

	// Another user's traffic must not leak into the summary.
	require.NoError(t, store.AnalyticsStore().SaveQueryLog(ctx, &domain.SearchQueryLog{
		ID:     domain.NewID(),
		UserID: domain.NewID(),
		Query:  "other",
		Status: domain.SearchStatusSuccess,
	}))

	// An old entry falls outside the window.
	require.NoError(t, store.AnalyticsStore().SaveQueryLog(ctx, &domain.SearchQueryLog{
		ID:        domain.NewID(),
		UserID:    userID,
		Query:     "ancient",
		Status:    domain.SearchStatusSuccess,
		CreatedAt: time.Now().UTC().AddDate(0, 0, -60),
	}))

	require.NoError(t, store.AnalyticsStore().SaveQueryLog(ctx, &domain.SearchQueryLog{
		ID:     domain.NewID(),
		UserID: userID,
		Query:  "recent",
		Status: domain.SearchStatusSuccess,
	}))

	summary, err := store.AnalyticsStore().Summary(ctx, userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalSearches)
}

// ==================== Migration Tests ====================

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "ragpipe-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same directory re-runs migrate against the existing
	// schema version.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestEmbeddingBlobRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 0, 1536.25}
	out := bytesToFloat32Slice(float32SliceToBytes(in))
	assert.Equal(t, in, out)

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
