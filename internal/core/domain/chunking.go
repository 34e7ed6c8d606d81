package domain

// ChunkStrategy selects how documents are split into chunks.
// The set is closed; unknown names parse to StrategySimple.
type ChunkStrategy string

const (
	// StrategySimple is a fixed-size sliding window with character overlap.
	StrategySimple ChunkStrategy = "simple"

	// StrategyParagraph accumulates blank-line-separated paragraphs.
	StrategyParagraph ChunkStrategy = "paragraph"

	// StrategySentence accumulates sentences with sentence-level overlap.
	StrategySentence ChunkStrategy = "sentence"

	// StrategySemantic is sentence chunking plus a per-chunk coherence
	// score from sentence embeddings. Degrades to StrategySentence when
	// no embedding backend is available.
	StrategySemantic ChunkStrategy = "semantic"
)

// ParseStrategy maps a strategy name to a ChunkStrategy.
// Unknown or empty names fall back to StrategySimple so a bad
// configuration value never aborts ingestion.
func ParseStrategy(name string) ChunkStrategy {
	switch ChunkStrategy(name) {
	case StrategySimple, StrategyParagraph, StrategySentence, StrategySemantic:
		return ChunkStrategy(name)
	default:
		return StrategySimple
	}
}
