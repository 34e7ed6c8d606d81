// Package qdrant provides a vector index adapter backed by Qdrant's REST
// API. Collections are created lazily on first write with cosine distance
// and the standard embedding dimension.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:6333"
	DefaultTimeout = 15 * time.Second
)

// filterKeys is the whitelist of caller-supplied filter keys honoured by
// Search. Unrecognised keys are silently ignored.
var filterKeys = map[string]bool{
	"document_id":    true,
	"content_type":   true,
	"created_after":  true,
	"created_before": true,
}

// Config holds configuration for the Qdrant index.
type Config struct {
	// BaseURL is the Qdrant REST endpoint (default: http://localhost:6333).
	BaseURL string

	// APIKey authenticates requests when the instance requires it.
	APIKey string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration
}

// Index is a REST client for Qdrant.
type Index struct {
	client  *http.Client
	baseURL string
	apiKey  string

	mu      sync.Mutex
	created map[driven.Collection]bool
}

// NewIndex creates a Qdrant index client.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Index{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		created: make(map[driven.Collection]bool),
	}
}

// Upsert inserts or replaces the point for a chunk. Idempotent by id.
func (x *Index) Upsert(ctx context.Context, collection driven.Collection, chunkID string, embedding []float32, payload driven.VectorPayload) error {
	if err := x.ensureCollection(ctx, collection); err != nil {
		return err
	}

	body := map[string]any{
		"points": []map[string]any{{
			"id":      chunkID,
			"vector":  embedding,
			"payload": payloadMap(payload),
		}},
	}
	url := fmt.Sprintf("%s/collections/%s/points?wait=true", x.baseURL, collection)
	return x.do(ctx, http.MethodPut, url, body, nil)
}

// Search returns up to limit candidates ranked by cosine similarity.
func (x *Index) Search(ctx context.Context, collection driven.Collection, query []float32, filter driven.VectorFilter, limit int, scoreThreshold float64) ([]driven.VectorHit, error) {
	if limit <= 0 {
		limit = 10
	}

	body := map[string]any{
		"vector":       query,
		"limit":        limit,
		"with_payload": true,
		"filter":       buildFilter(filter),
	}
	if scoreThreshold > 0 {
		body["score_threshold"] = scoreThreshold
	}

	var resp struct {
		Result []struct {
			ID      string               `json:"id"`
			Score   float64              `json:"score"`
			Payload driven.VectorPayload `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", x.baseURL, collection)
	if err := x.do(ctx, http.MethodPost, url, body, &resp); err != nil {
		return nil, err
	}

	hits := make([]driven.VectorHit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, driven.VectorHit{
			ChunkID: r.ID,
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

// Delete bulk-removes points by chunk id.
func (x *Index) Delete(ctx context.Context, collection driven.Collection, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}
	body := map[string]any{"points": chunkIDs}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", x.baseURL, collection)
	return x.do(ctx, http.MethodPost, url, body, nil)
}

// Ping validates the instance is reachable.
func (x *Index) Ping(ctx context.Context) error {
	return x.do(ctx, http.MethodGet, x.baseURL+"/collections", nil, nil)
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// ensureCollection creates the collection on first use. Qdrant answers 200
// when the collection already exists with the same schema.
func (x *Index) ensureCollection(ctx context.Context, collection driven.Collection) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.created[collection] {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     domain.EmbeddingDimensions,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", x.baseURL, collection)
	if err := x.do(ctx, http.MethodPut, url, body, nil); err != nil {
		return fmt.Errorf("ensure collection %s: %w", collection, err)
	}
	x.created[collection] = true
	return nil
}

func payloadMap(p driven.VectorPayload) map[string]any {
	m := map[string]any{
		"user_id":     p.UserID,
		"document_id": p.DocumentID,
		"chunk_index": p.ChunkIndex,
		"created_at":  p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.ScopeID != "" {
		m["scope_id"] = p.ScopeID
	}
	if p.ContentType != "" {
		m["content_type"] = p.ContentType
	}
	if p.Preview != "" {
		m["preview"] = p.Preview
	}
	if len(p.Metadata) > 0 {
		m["metadata"] = p.Metadata
	}
	return m
}

// buildFilter translates a VectorFilter into Qdrant must clauses. The user
// clause is always present; extra keys outside the whitelist are dropped.
func buildFilter(filter driven.VectorFilter) map[string]any {
	must := []map[string]any{
		{"key": "user_id", "match": map[string]any{"value": filter.UserID}},
	}
	if filter.ScopeID != "" {
		must = append(must, map[string]any{
			"key": "scope_id", "match": map[string]any{"value": filter.ScopeID},
		})
	}
	for key, value := range filter.Extra {
		if !filterKeys[key] {
			continue
		}
		switch key {
		case "created_after":
			must = append(must, map[string]any{
				"key": "created_at", "range": map[string]any{"gte": value},
			})
		case "created_before":
			must = append(must, map[string]any{
				"key": "created_at", "range": map[string]any{"lte": value},
			})
		default:
			must = append(must, map[string]any{
				"key": key, "match": map[string]any{"value": value},
			})
		}
	}
	return map[string]any{"must": must}
}

func (x *Index) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("qdrant %s %s: %s: %s", method, url, resp.Status, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
