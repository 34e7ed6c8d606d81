package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/ragpipe/internal/chunker"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ragpipe/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestService = (*IngestionService)(nil)

// Ingestion pipeline stage names recorded in the processing log.
const (
	stageExtraction = "text_extraction"
	stageChunking   = "chunking"
	stageIndexing   = "embedding_indexing"
	stagePipeline   = "pipeline"
)

// IngestionService runs the document ingestion pipeline:
// extraction, chunking, embedding, persistence, indexing.
type IngestionService struct {
	docStore  driven.DocumentStore
	cfgStore  driven.ConfigStore
	extractor driven.TextExtractor
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	engine    *chunker.Engine
}

// NewIngestionService creates an ingestion service. The index parameter is
// optional (nil when the vector store is unreachable); embedder is expected
// to be the degrade-not-fail gateway.
func NewIngestionService(
	docStore driven.DocumentStore,
	cfgStore driven.ConfigStore,
	extractor driven.TextExtractor,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	engine *chunker.Engine,
) *IngestionService {
	return &IngestionService{
		docStore:  docStore,
		cfgStore:  cfgStore,
		extractor: extractor,
		embedder:  embedder,
		index:     index,
		engine:    engine,
	}
}

// ProcessDocument runs the full pipeline for an already-registered
// document. Any failure marks the document failed, records the failing
// stage in the processing log, and is returned to the caller: ingestion
// failures are surfaced, unlike search-path failures.
func (s *IngestionService) ProcessDocument(
	ctx context.Context, doc *domain.Document, userID string, opts driving.IngestOptions,
) (*driving.IngestReport, error) {
	if err := domain.ValidateID("user", userID); err != nil {
		return nil, err
	}
	if err := domain.ValidateID("document", doc.ID); err != nil {
		return nil, err
	}

	logger.Section("Document Ingestion")
	logger.Info("Processing document %s (%s)", doc.ID, doc.Title)

	start := time.Now()

	collection := opts.Collection
	if collection == "" {
		collection = driven.CollectionDocuments
	}

	cfg := opts.Config
	if cfg == nil {
		resolved, err := s.cfgStore.GetOrCreate(ctx, userID, "")
		if err != nil {
			return nil, fmt.Errorf("resolve config: %w", err)
		}
		cfg = resolved
	}

	if err := s.docStore.SetDocumentStatus(ctx, doc.ID, domain.DocumentProcessing, 0); err != nil {
		return nil, fmt.Errorf("mark document processing: %w", err)
	}
	s.logStage(ctx, doc.ID, stagePipeline, domain.StageStarted, "", start)

	// Stage 1: text extraction.
	stageStart := time.Now()
	text, err := s.extractor.Extract(ctx, doc.FilePath)
	if err != nil {
		return nil, s.fail(ctx, doc.ID, stageExtraction, stageStart, err)
	}
	s.logStage(ctx, doc.ID, stageExtraction, domain.StageCompleted,
		fmt.Sprintf("%d characters extracted", len(text)), stageStart)

	// Stage 2: chunking. The size handed to the engine is capped at the
	// hard chunk ceiling so the post-hoc re-split is a safety net, not
	// the normal path.
	stageStart = time.Now()
	chunkSize := cfg.ChunkSize
	if chunkSize > domain.MaxChunkContentLen {
		chunkSize = domain.MaxChunkContentLen
	}
	chunks := s.engine.Chunk(ctx, text, chunkSize, cfg.ChunkOverlap, cfg.ChunkingStrategy)
	s.logStage(ctx, doc.ID, stageChunking, domain.StageCompleted,
		fmt.Sprintf("%d chunks (%s)", len(chunks), cfg.ChunkingStrategy), stageStart)

	// Stage 3: per-chunk embed, persist, index. Chunks are processed one
	// at a time; chunk_index assignment already happened in the engine,
	// so ordering is fixed before any embedding work.
	stageStart = time.Now()
	for i := range chunks {
		chunk := &chunks[i]
		chunk.DocumentID = doc.ID
		chunk.UserID = userID
		chunk.EmbeddingModel = s.embedder.ModelName()

		embedding, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return nil, s.fail(ctx, doc.ID, stageIndexing, stageStart, fmt.Errorf("embed chunk %d: %w", chunk.ChunkIndex, err))
		}
		chunk.Embedding = embedding

		if err := s.docStore.SaveChunk(ctx, chunk); err != nil {
			return nil, s.fail(ctx, doc.ID, stageIndexing, stageStart, fmt.Errorf("persist chunk %d: %w", chunk.ChunkIndex, err))
		}

		if s.index == nil {
			continue
		}
		if domain.IsZeroVector(embedding) {
			// Zero vectors are the embedding soft-failure sentinel;
			// indexing them in cosine space is meaningless.
			logger.Warn("Skipping index upsert for chunk %d of %s: zero-vector embedding", chunk.ChunkIndex, doc.ID)
			continue
		}
		payload := driven.VectorPayload{
			UserID:      userID,
			DocumentID:  doc.ID,
			ChunkIndex:  chunk.ChunkIndex,
			ContentType: doc.ContentType,
			Preview:     preview(chunk.Content, 200),
			Metadata:    chunk.Metadata,
			CreatedAt:   chunk.CreatedAt,
		}
		if err := s.index.Upsert(ctx, collection, chunk.ID, embedding, payload); err != nil {
			return nil, s.fail(ctx, doc.ID, stageIndexing, stageStart, fmt.Errorf("index chunk %d: %w", chunk.ChunkIndex, err))
		}
	}
	s.logStage(ctx, doc.ID, stageIndexing, domain.StageCompleted,
		fmt.Sprintf("%d chunks embedded and indexed", len(chunks)), stageStart)

	if err := s.docStore.SetDocumentStatus(ctx, doc.ID, domain.DocumentCompleted, len(chunks)); err != nil {
		return nil, s.fail(ctx, doc.ID, stagePipeline, start, fmt.Errorf("mark document completed: %w", err))
	}
	s.logStage(ctx, doc.ID, stagePipeline, domain.StageCompleted, "", start)

	elapsed := time.Since(start)
	logger.Info("Document %s processed: %d chunks in %s", doc.ID, len(chunks), elapsed)

	strategy := cfg.ChunkingStrategy
	if len(chunks) > 0 {
		// Report the strategy that actually ran, which may be a
		// fallback of the configured one.
		strategy = chunks[0].Strategy
	}

	return &driving.IngestReport{
		Status:           string(domain.DocumentCompleted),
		ChunksCreated:    len(chunks),
		ProcessingTimeMS: elapsed.Milliseconds(),
		EmbeddingModel:   s.embedder.ModelName(),
		ChunkingStrategy: string(strategy),
	}, nil
}

// IngestFile registers a document for the file at path and processes it.
func (s *IngestionService) IngestFile(
	ctx context.Context, path, userID string, opts driving.IngestOptions,
) (*domain.Document, *driving.IngestReport, error) {
	if err := domain.ValidateID("user", userID); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:          domain.NewID(),
		UserID:      userID,
		Title:       filepath.Base(path),
		FilePath:    path,
		ContentType: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Status:      domain.DocumentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("register document: %w", err)
	}

	report, err := s.ProcessDocument(ctx, doc, userID, opts)
	if err != nil {
		return doc, nil, err
	}
	return doc, report, nil
}

// DeleteDocument removes a document's chunks from the vector index and the
// record store. Returns true when the document existed and belonged to the
// user.
func (s *IngestionService) DeleteDocument(ctx context.Context, documentID, userID string) (bool, error) {
	if err := domain.ValidateID("user", userID); err != nil {
		return false, err
	}
	if err := domain.ValidateID("document", documentID); err != nil {
		return false, err
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get document: %w", err)
	}
	if doc.UserID != userID {
		return false, domain.ErrForbidden
	}

	chunks, err := s.docStore.GetChunksByDocument(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("get chunks: %w", err)
	}

	if s.index != nil && len(chunks) > 0 {
		ids := make([]string, len(chunks))
		for i, c := range chunks {
			ids[i] = c.ID
		}
		// Index/store drift is tolerated: a failed index delete is
		// logged but does not block removing the records.
		if err := s.index.Delete(ctx, driven.CollectionDocuments, ids); err != nil {
			logger.Warn("Vector index delete failed for document %s: %v", documentID, err)
		}
	}

	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}

	logger.Info("Deleted document %s (%d chunks)", documentID, len(chunks))
	return true, nil
}

// fail marks the document failed, records the failing stage, and returns
// the error for the caller to surface.
func (s *IngestionService) fail(ctx context.Context, documentID, stage string, stageStart time.Time, err error) error {
	logger.Error("Ingestion of %s failed at %s: %v", documentID, stage, err)

	if statusErr := s.docStore.SetDocumentStatus(ctx, documentID, domain.DocumentFailed, 0); statusErr != nil {
		logger.Warn("Could not mark document %s failed: %v", documentID, statusErr)
	}
	s.logStage(ctx, documentID, stage, domain.StageFailed, err.Error(), stageStart)

	return fmt.Errorf("%s: %w", stage, err)
}

// logStage appends one processing log entry. Log failures are not fatal.
func (s *IngestionService) logStage(ctx context.Context, documentID, stage, status, message string, stageStart time.Time) {
	entry := &domain.ProcessingLogEntry{
		ID:         domain.NewID(),
		DocumentID: documentID,
		Stage:      stage,
		Status:     status,
		Message:    message,
		ElapsedMS:  time.Since(stageStart).Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.docStore.AppendProcessingLog(ctx, entry); err != nil {
		logger.Warn("Could not append processing log for %s: %v", documentID, err)
	}
	logger.Debug("Stage %s: %s (%dms)", stage, status, entry.ElapsedMS)
}

// preview truncates content to at most max bytes without splitting a
// multi-byte rune.
func preview(content string, max int) string {
	if len(content) <= max {
		return content
	}
	for max > 0 && !utf8.RuneStart(content[max]) {
		max--
	}
	return content[:max]
}
