package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

func TestUpsert_CreatesCollectionOnFirstWrite(t *testing.T) {
	var createBody map[string]any
	var pointsBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/documents/points":
			assert.Equal(t, "true", r.URL.Query().Get("wait"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pointsBody))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	idx := NewIndex(Config{BaseURL: srv.URL})
	chunkID := domain.NewID()

	err := idx.Upsert(context.Background(), driven.CollectionDocuments, chunkID, []float32{0.1, 0.2}, driven.VectorPayload{
		UserID:     "u",
		DocumentID: "d",
		ChunkIndex: 3,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	vectors := createBody["vectors"].(map[string]any)
	assert.Equal(t, float64(domain.EmbeddingDimensions), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	points := pointsBody["points"].([]any)
	require.Len(t, points, 1)
	point := points[0].(map[string]any)
	assert.Equal(t, chunkID, point["id"])
	payload := point["payload"].(map[string]any)
	assert.Equal(t, "u", payload["user_id"])
	assert.Equal(t, float64(3), payload["chunk_index"])

	// Second upsert must not recreate the collection.
	createBody = nil
	err = idx.Upsert(context.Background(), driven.CollectionDocuments, domain.NewID(), []float32{0.3}, driven.VectorPayload{})
	require.NoError(t, err)
	assert.Nil(t, createBody)
}

func TestSearch_BuildsFilterAndParsesHits(t *testing.T) {
	var searchBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/documents/points/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&searchBody))
		fmt.Fprint(w, `{"result":[
			{"id":"chunk-1","score":0.92,"payload":{"user_id":"u","document_id":"d","chunk_index":0}},
			{"id":"chunk-2","score":0.71,"payload":{"user_id":"u","document_id":"d","chunk_index":1}}
		]}`)
	}))
	defer srv.Close()

	idx := NewIndex(Config{BaseURL: srv.URL, APIKey: "secret"})

	filter := driven.VectorFilter{
		UserID:  "u",
		ScopeID: "s",
		Extra: map[string]any{
			"content_type":  "pdf",
			"created_after": "2026-01-01T00:00:00Z",
			"unknown_key":   "ignored",
		},
	}
	hits, err := idx.Search(context.Background(), driven.CollectionDocuments, []float32{0.1}, filter, 5, 0.2)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	assert.Equal(t, "chunk-1", hits[0].ChunkID)
	assert.Equal(t, 0.92, hits[0].Score)
	assert.Equal(t, 1, hits[1].Payload.ChunkIndex)

	assert.Equal(t, float64(5), searchBody["limit"])
	assert.Equal(t, 0.2, searchBody["score_threshold"])

	must := searchBody["filter"].(map[string]any)["must"].([]any)
	keys := make(map[string]bool)
	for _, clause := range must {
		keys[clause.(map[string]any)["key"].(string)] = true
	}
	assert.True(t, keys["user_id"])
	assert.True(t, keys["scope_id"])
	assert.True(t, keys["content_type"])
	assert.True(t, keys["created_at"])
	assert.False(t, keys["unknown_key"], "non-whitelisted filter keys are dropped")
}

func TestDelete(t *testing.T) {
	var deleteBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/documents/points/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&deleteBody))
		fmt.Fprint(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	idx := NewIndex(Config{BaseURL: srv.URL})
	require.NoError(t, idx.Delete(context.Background(), driven.CollectionDocuments, []string{"a", "b"}))

	points := deleteBody["points"].([]any)
	assert.Len(t, points, 2)

	// Empty deletes are a no-op, no request issued.
	deleteBody = nil
	require.NoError(t, idx.Delete(context.Background(), driven.CollectionDocuments, nil))
	assert.Nil(t, deleteBody)
}

func TestSearch_SurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer srv.Close()

	idx := NewIndex(Config{BaseURL: srv.URL})
	_, err := idx.Search(context.Background(), driven.CollectionDocuments, []float32{0.1}, driven.VectorFilter{UserID: "u"}, 5, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection not found")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections", r.URL.Path)
		fmt.Fprint(w, `{"result":{"collections":[]}}`)
	}))
	defer srv.Close()

	idx := NewIndex(Config{BaseURL: srv.URL})
	assert.NoError(t, idx.Ping(context.Background()))
}
