package chunker

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// splitSimple applies a fixed-size sliding window. The window advances by
// chunkSize-overlap; the caller guarantees overlap < chunkSize.
func splitSimple(text string, chunkSize, overlap int) []piece {
	estimated := len(text)/(chunkSize-overlap) + 1
	pieces := make([]piece, 0, estimated)

	for start := 0; start < len(text); {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		pieces = append(pieces, piece{
			content: text[start:end],
			metadata: map[string]any{
				"start_offset": start,
				"end_offset":   end,
			},
		})
		// Backstop against a non-advancing window.
		if chunkSize <= overlap {
			break
		}
		start += chunkSize - overlap
	}
	return pieces
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// splitParagraph accumulates blank-line-separated paragraphs until adding
// the next would exceed chunkSize, then flushes and starts a new chunk with
// the overflowing paragraph. No overlap is carried between paragraph chunks.
func splitParagraph(text string, chunkSize int) []piece {
	var paragraphs []string
	for _, p := range blankLine.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	var pieces []piece
	var current []string
	length := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		pieces = append(pieces, piece{
			content:  strings.Join(current, "\n\n"),
			metadata: map[string]any{"paragraph_count": len(current)},
		})
		current = nil
		length = 0
	}

	for _, p := range paragraphs {
		addition := len(p)
		if length > 0 {
			addition += 2 // joining blank line
		}
		if length > 0 && length+addition > chunkSize {
			flush()
			addition = len(p)
		}
		current = append(current, p)
		length += addition
	}
	flush()

	return pieces
}

// splitSentenceWise accumulates sentences until the size budget is
// exceeded, then flushes. The next chunk is seeded with the last
// max(1, overlap/50) sentences of the previous one as an approximate
// overlap; see sentenceOverlapDivisor for the unit mismatch.
func splitSentenceWise(text string, chunkSize, overlap int) []piece {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	overlapCount := overlap / sentenceOverlapDivisor
	if overlapCount < 1 {
		overlapCount = 1
	}

	var pieces []piece
	var current []string
	length := 0

	flush := func() []string {
		if len(current) == 0 {
			return nil
		}
		pieces = append(pieces, piece{
			content:   strings.Join(current, " "),
			sentences: append([]string(nil), current...),
			metadata:  map[string]any{"sentence_count": len(current)},
		})
		flushed := current
		current = nil
		length = 0
		return flushed
	}

	for _, s := range sentences {
		addition := len(s)
		if length > 0 {
			addition++ // joining space
		}
		if length > 0 && length+addition > chunkSize {
			flushed := flush()
			tail := overlapCount
			if tail > len(flushed) {
				tail = len(flushed)
			}
			current = append([]string(nil), flushed[len(flushed)-tail:]...)
			for i, o := range current {
				length += len(o)
				if i > 0 {
					length++
				}
			}
			addition = len(s) + 1
		}
		current = append(current, s)
		length += addition
	}
	flush()

	return pieces
}

// splitSemantic is sentence chunking plus a per-chunk coherence score
// computed from sentence embeddings. It degrades to the sentence strategy
// when no embedding backend is available or the backend fails, producing
// output identical to requesting sentence directly.
func (e *Engine) splitSemantic(ctx context.Context, text string, chunkSize, overlap int) ([]piece, domain.ChunkStrategy) {
	pieces := splitSentenceWise(text, chunkSize, overlap)
	if e.embedder == nil {
		logger.Debug("Semantic chunking unavailable (no embedding backend), using sentence strategy")
		return pieces, domain.StrategySentence
	}

	annotated := make([]piece, len(pieces))
	for i, p := range pieces {
		score, err := e.coherence(ctx, p.sentences)
		if err != nil {
			logger.Warn("Coherence scoring failed: %v, using sentence strategy", err)
			return pieces, domain.StrategySentence
		}
		meta := copyMetadata(p.metadata)
		meta["coherence_score"] = score
		annotated[i] = piece{content: p.content, sentences: p.sentences, metadata: meta}
	}
	return annotated, domain.StrategySemantic
}

// coherence is the mean pairwise cosine similarity between the sentence
// embeddings of one chunk. Chunks with fewer than two sentences score 1.0.
// Diagnostic only; it never gates chunk admission.
func (e *Engine) coherence(ctx context.Context, sentences []string) (float64, error) {
	if len(sentences) < 2 {
		return 1.0, nil
	}

	vectors, err := e.embedder.EmbedBatch(ctx, sentences)
	if err != nil {
		return 0, err
	}

	var sum float64
	var pairs int
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			sum += cosineSimilarity(vectors[i], vectors[j])
			pairs++
		}
	}
	if pairs == 0 {
		return 1.0, nil
	}
	return sum / float64(pairs), nil
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// splitSentences splits text on sentence-terminal punctuation, collapsing
// runs of terminators into a single boundary.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	terminal := false

	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			current.WriteRune(r)
			terminal = true
			continue
		}
		if terminal {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
			terminal = false
		}
		current.WriteRune(r)
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
