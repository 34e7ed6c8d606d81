// Package memory provides an in-process vector index with brute-force
// cosine scoring. It backs single-binary deployments that want semantic
// search without running Qdrant, and doubles as a test fixture.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type point struct {
	vector  []float32
	payload driven.VectorPayload
}

// Index stores points per collection and scores queries by exact cosine
// similarity. Safe for concurrent use.
type Index struct {
	mu          sync.RWMutex
	collections map[driven.Collection]map[string]point
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		collections: make(map[driven.Collection]map[string]point),
	}
}

// Upsert inserts or replaces the point for a chunk.
func (x *Index) Upsert(_ context.Context, collection driven.Collection, chunkID string, embedding []float32, payload driven.VectorPayload) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	points, ok := x.collections[collection]
	if !ok {
		points = make(map[string]point)
		x.collections[collection] = points
	}
	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	points[chunkID] = point{vector: vec, payload: payload}
	return nil
}

// Search scores every point in the collection against the query.
func (x *Index) Search(_ context.Context, collection driven.Collection, query []float32, filter driven.VectorFilter, limit int, scoreThreshold float64) ([]driven.VectorHit, error) {
	if limit <= 0 {
		limit = 10
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var hits []driven.VectorHit
	for id, p := range x.collections[collection] {
		if !matches(p.payload, filter) {
			continue
		}
		score := cosine(query, p.vector)
		if score < scoreThreshold {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: id, Score: score, Payload: p.payload})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Delete bulk-removes points by chunk id.
func (x *Index) Delete(_ context.Context, collection driven.Collection, chunkIDs []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	points := x.collections[collection]
	for _, id := range chunkIDs {
		delete(points, id)
	}
	return nil
}

// Ping always succeeds.
func (x *Index) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// matches applies the user clause, the scope clause, and the whitelisted
// extra filter keys.
func matches(p driven.VectorPayload, filter driven.VectorFilter) bool {
	if p.UserID != filter.UserID {
		return false
	}
	if filter.ScopeID != "" && p.ScopeID != filter.ScopeID {
		return false
	}
	for key, value := range filter.Extra {
		switch key {
		case "document_id":
			if s, ok := value.(string); ok && p.DocumentID != s {
				return false
			}
		case "content_type":
			if s, ok := value.(string); ok && p.ContentType != s {
				return false
			}
		case "created_after":
			if ts, ok := parseTime(value); ok && p.CreatedAt.Before(ts) {
				return false
			}
		case "created_before":
			if ts, ok := parseTime(value); ok && p.CreatedAt.After(ts) {
				return false
			}
		}
	}
	return true
}

func parseTime(value any) (time.Time, bool) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
