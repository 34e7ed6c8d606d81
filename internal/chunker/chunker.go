// Package chunker splits document text into bounded, metadata-tagged chunks
// using a selectable strategy. Strategy failures never abort ingestion: the
// engine degrades to the simple fixed-size strategy and always produces
// output for non-empty input.
package chunker

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// sentenceOverlapDivisor converts the character-denominated overlap setting
// into a sentence count for the sentence and semantic strategies. The
// overlap is specified in characters but applied in whole sentences, so
// overlap/50 is a heuristic approximation, floored at one sentence.
const sentenceOverlapDivisor = 50

// Engine is the chunking engine. Safe for concurrent use.
type Engine struct {
	// embedder enables the semantic strategy's coherence scoring. When
	// nil, semantic requests degrade to the sentence strategy.
	embedder driven.EmbeddingService
}

// Option configures the engine.
type Option func(*Engine)

// WithEmbedder supplies the sentence-embedding backend used for semantic
// coherence scoring.
func WithEmbedder(e driven.EmbeddingService) Option {
	return func(eng *Engine) {
		eng.embedder = e
	}
}

// New creates a chunking engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// piece is an intermediate chunk before post-processing.
type piece struct {
	content   string
	sentences []string
	metadata  map[string]any
}

// Chunk splits text into ordered chunks. A fresh call always reprocesses
// from scratch; chunking the same input with the same parameters produces
// identical boundaries and metadata.
func (e *Engine) Chunk(ctx context.Context, text string, chunkSize, overlap int, strategy domain.ChunkStrategy) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if chunkSize <= 0 {
		chunkSize = domain.DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	// An overlap at or above the chunk size would stall or reverse the
	// simple strategy's window. Clamp to a quarter of the chunk size.
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	pieces, effective := e.split(ctx, text, chunkSize, overlap, strategy)
	return finalize(pieces, effective, chunkSize)
}

// split dispatches to the selected strategy, degrading to simple on panic.
func (e *Engine) split(
	ctx context.Context, text string, chunkSize, overlap int, strategy domain.ChunkStrategy,
) (pieces []piece, effective domain.ChunkStrategy) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Chunking strategy %s failed: %v, falling back to simple", strategy, r)
			pieces = splitSimple(text, chunkSize, overlap)
			effective = domain.StrategySimple
		}
	}()

	switch strategy {
	case domain.StrategyParagraph:
		return splitParagraph(text, chunkSize), domain.StrategyParagraph
	case domain.StrategySentence:
		return splitSentenceWise(text, chunkSize, overlap), domain.StrategySentence
	case domain.StrategySemantic:
		return e.splitSemantic(ctx, text, chunkSize, overlap)
	default:
		return splitSimple(text, chunkSize, overlap), domain.StrategySimple
	}
}

// finalize applies the uniform post-pass: the hard content-length ceiling,
// contiguous index assignment, and total-count backfill.
func finalize(pieces []piece, strategy domain.ChunkStrategy, chunkSize int) []domain.Chunk {
	bounded := make([]piece, 0, len(pieces))
	for _, p := range pieces {
		if len(p.content) <= domain.MaxChunkContentLen {
			bounded = append(bounded, p)
			continue
		}
		// Safety net: re-split oversized output into contiguous
		// fixed-size sub-chunks with no content loss. No semantic
		// awareness at this stage.
		for start := 0; start < len(p.content); start += domain.MaxChunkContentLen {
			end := start + domain.MaxChunkContentLen
			if end > len(p.content) {
				end = len(p.content)
			}
			meta := copyMetadata(p.metadata)
			meta["oversize_split"] = true
			bounded = append(bounded, piece{content: p.content[start:end], metadata: meta})
		}
	}

	now := time.Now().UTC()
	total := len(bounded)
	chunks := make([]domain.Chunk, 0, total)
	for i, p := range bounded {
		chunks = append(chunks, domain.Chunk{
			ID:              domain.NewID(),
			Content:         p.content,
			ChunkIndex:      i,
			TotalChunks:     total,
			Strategy:        strategy,
			ChunkSizeTarget: chunkSize,
			ActualSize:      len(p.content),
			Metadata:        p.metadata,
			CreatedAt:       now,
		})
	}
	return chunks
}

func copyMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
