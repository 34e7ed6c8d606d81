package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragpipe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragpipe/internal/core/domain"
	"github.com/custodia-labs/ragpipe/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// topQueriesLimit bounds the top-query list in analytics summaries.
const topQueriesLimit = 5

// Store is a unified SQLite-based storage that provides access to the
// record store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ragpipe/data/ragpipe.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragpipe", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ragpipe.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ConfigStore returns a ConfigStore interface backed by this store.
func (s *Store) ConfigStore() driven.ConfigStore {
	return &configStore{store: s}
}

// AnalyticsStore returns an AnalyticsStore interface backed by this store.
func (s *Store) AnalyticsStore() driven.AnalyticsStore {
	return &analyticsStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, title, file_path, content_type, status, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			file_path = excluded.file_path,
			content_type = excluded.content_type,
			status = excluded.status,
			chunk_count = excluded.chunk_count,
			updated_at = excluded.updated_at
	`, doc.ID, doc.UserID, doc.Title, doc.FilePath, doc.ContentType,
		string(doc.Status), doc.ChunkCount, doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, file_path, content_type, status, chunk_count, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	var doc domain.Document
	var status string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.FilePath, &doc.ContentType,
		&status, &doc.ChunkCount, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}
	return &doc, nil
}

// SetDocumentStatus updates a document's status and chunk count.
func (s *documentStore) SetDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE documents SET status = ?, chunk_count = ?, updated_at = ? WHERE id = ?
	`, string(status), chunkCount, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteDocument removes a document and cascades to its chunks.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// SaveChunk stores a chunk, including its serialized embedding.
func (s *documentStore) SaveChunk(ctx context.Context, chunk *domain.Chunk) error {
	metadataJSON, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	embeddingBlob := float32SliceToBytes(chunk.Embedding)

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO chunks (
			id, document_id, user_id, content, chunk_index, total_chunks,
			strategy, chunk_size_target, actual_size, metadata,
			embedding, embedding_model, search_count, click_count, last_accessed, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			chunk_index = excluded.chunk_index,
			total_chunks = excluded.total_chunks,
			strategy = excluded.strategy,
			chunk_size_target = excluded.chunk_size_target,
			actual_size = excluded.actual_size,
			metadata = excluded.metadata,
			embedding = excluded.embedding,
			embedding_model = excluded.embedding_model
	`, chunk.ID, chunk.DocumentID, chunk.UserID, chunk.Content, chunk.ChunkIndex, chunk.TotalChunks,
		string(chunk.Strategy), chunk.ChunkSizeTarget, chunk.ActualSize, string(metadataJSON),
		embeddingBlob, nullString(chunk.EmbeddingModel), chunk.SearchCount, chunk.ClickCount,
		nullTime(chunk.LastAccessed), chunk.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving chunk: %w", err)
	}
	return nil
}

// chunkColumns is the SELECT column list matched by scanChunk.
const chunkColumns = `id, document_id, user_id, content, chunk_index, total_chunks,
	strategy, chunk_size_target, actual_size, metadata,
	embedding, embedding_model, search_count, click_count, last_accessed, created_at`

// GetChunk retrieves a chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE id = ?", id)

	chunk, err := scanChunk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return chunk, nil
}

// GetChunksByDocument returns all chunks for a document ordered by index.
func (s *documentStore) GetChunksByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE document_id = ? ORDER BY chunk_index", documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// SearchChunksByContent returns chunks whose content contains the term,
// case-insensitively, scoped to one user.
func (s *documentStore) SearchChunksByContent(ctx context.Context, userID, term string, limit int) ([]domain.Chunk, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+chunkColumns+` FROM chunks
		WHERE user_id = ? AND instr(lower(content), lower(?)) > 0
		LIMIT ?`, userID, term, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// TouchChunkSearch increments search_count and refreshes last_accessed for
// every listed chunk.
func (s *documentStore) TouchChunkSearch(ctx context.Context, chunkIDs []string) error {
	if len(chunkIDs) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(chunkIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(chunkIDs)+1)
	args = append(args, time.Now().UTC())
	for _, id := range chunkIDs {
		args = append(args, id)
	}

	_, err := s.store.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE chunks SET search_count = search_count + 1, last_accessed = ?
		WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return fmt.Errorf("updating chunk usage: %w", err)
	}
	return nil
}

// IncrementChunkClicks bumps a chunk's click counter.
func (s *documentStore) IncrementChunkClicks(ctx context.Context, chunkID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"UPDATE chunks SET click_count = click_count + 1 WHERE id = ?", chunkID)
	if err != nil {
		return fmt.Errorf("updating chunk clicks: %w", err)
	}
	return nil
}

// AppendProcessingLog records one ingestion stage transition.
func (s *documentStore) AppendProcessingLog(ctx context.Context, entry *domain.ProcessingLogEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO processing_logs (id, document_id, stage, status, message, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.DocumentID, entry.Stage, entry.Status, entry.Message, entry.ElapsedMS, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("appending processing log: %w", err)
	}
	return nil
}

// ProcessingLog returns a document's stage log in order.
func (s *documentStore) ProcessingLog(ctx context.Context, documentID string) ([]domain.ProcessingLogEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, document_id, stage, status, message, elapsed_ms, created_at
		FROM processing_logs WHERE document_id = ? ORDER BY created_at, id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying processing log: %w", err)
	}
	defer rows.Close()

	var entries []domain.ProcessingLogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.ProcessingLogEntry
		var createdAt sql.NullTime
		if err := rows.Scan(&entry.ID, &entry.DocumentID, &entry.Stage, &entry.Status,
			&entry.Message, &entry.ElapsedMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning processing log: %w", err)
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// ==================== Config Store ====================

// configStore implements driven.ConfigStore.
type configStore struct {
	store *Store
}

var _ driven.ConfigStore = (*configStore)(nil)

// GetOrCreate returns the config for (user, scope), creating it with
// defaults on first use.
func (s *configStore) GetOrCreate(ctx context.Context, userID, scopeID string) (*domain.RAGConfig, error) {
	cfg, err := s.get(ctx, userID, scopeID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	created := domain.DefaultRAGConfig(userID, scopeID)
	created.ID = domain.NewID()
	if err := s.Save(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *configStore) get(ctx context.Context, userID, scopeID string) (*domain.RAGConfig, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, user_id, scope_id, chunking_strategy, chunk_size, chunk_overlap,
			embedding_model, search_algorithm, similarity_threshold, max_results,
			enable_reranking, created_at, updated_at
		FROM rag_configs WHERE user_id = ? AND scope_id = ?
	`, userID, scopeID)

	var cfg domain.RAGConfig
	var strategy string
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&cfg.ID, &cfg.UserID, &cfg.ScopeID, &strategy, &cfg.ChunkSize, &cfg.ChunkOverlap,
		&cfg.EmbeddingModel, &cfg.SearchAlgorithm, &cfg.SimilarityThreshold, &cfg.MaxResults,
		&cfg.EnableReranking, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning config: %w", err)
	}

	cfg.ChunkingStrategy = domain.ChunkStrategy(strategy)
	if createdAt.Valid {
		cfg.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		cfg.UpdatedAt = updatedAt.Time
	}
	return &cfg, nil
}

// Save stores or updates a config.
func (s *configStore) Save(ctx context.Context, cfg *domain.RAGConfig) error {
	if cfg.ID == "" {
		cfg.ID = domain.NewID()
	}
	now := time.Now().UTC()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO rag_configs (
			id, user_id, scope_id, chunking_strategy, chunk_size, chunk_overlap,
			embedding_model, search_algorithm, similarity_threshold, max_results,
			enable_reranking, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, scope_id) DO UPDATE SET
			chunking_strategy = excluded.chunking_strategy,
			chunk_size = excluded.chunk_size,
			chunk_overlap = excluded.chunk_overlap,
			embedding_model = excluded.embedding_model,
			search_algorithm = excluded.search_algorithm,
			similarity_threshold = excluded.similarity_threshold,
			max_results = excluded.max_results,
			enable_reranking = excluded.enable_reranking,
			updated_at = excluded.updated_at
	`, cfg.ID, cfg.UserID, cfg.ScopeID, string(cfg.ChunkingStrategy), cfg.ChunkSize, cfg.ChunkOverlap,
		cfg.EmbeddingModel, cfg.SearchAlgorithm, cfg.SimilarityThreshold, cfg.MaxResults,
		cfg.EnableReranking, cfg.CreatedAt, cfg.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// ==================== Analytics Store ====================

// analyticsStore implements driven.AnalyticsStore.
type analyticsStore struct {
	store *Store
}

var _ driven.AnalyticsStore = (*analyticsStore)(nil)

// SaveQueryLog appends one search query log record.
func (s *analyticsStore) SaveQueryLog(ctx context.Context, log *domain.SearchQueryLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO search_query_logs (id, user_id, query, status, result_count, response_time_ms, search_algorithm, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.UserID, log.Query, log.Status, log.ResultCount, log.ResponseTimeMS,
		log.SearchAlgorithm, log.Error, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving query log: %w", err)
	}
	return nil
}

// SaveClick appends one result click record.
func (s *analyticsStore) SaveClick(ctx context.Context, click *domain.ResultClick) error {
	if click.CreatedAt.IsZero() {
		click.CreatedAt = time.Now().UTC()
	}
	var rerank sql.NullFloat64
	if click.RerankScore != nil {
		rerank = sql.NullFloat64{Float64: *click.RerankScore, Valid: true}
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO result_clicks (id, search_query_log_id, chunk_id, user_id, position, similarity_score, rerank_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, click.ID, click.SearchQueryLogID, click.ChunkID, click.UserID, click.Position,
		click.SimilarityScore, rerank, click.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving click: %w", err)
	}
	return nil
}

// Summary aggregates a user's query logs and clicks over the last days days.
func (s *analyticsStore) Summary(ctx context.Context, userID string, days int) (*domain.AnalyticsSummary, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)

	summary := &domain.AnalyticsSummary{PeriodDays: days}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(response_time_ms), 0)
		FROM search_query_logs WHERE user_id = ? AND created_at >= ?
	`, userID, since)
	if err := row.Scan(&summary.TotalSearches, &summary.AvgResponseTimeMS); err != nil {
		return nil, fmt.Errorf("aggregating query logs: %w", err)
	}

	var clicks int
	row = s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM result_clicks WHERE user_id = ? AND created_at >= ?
	`, userID, since)
	if err := row.Scan(&clicks); err != nil {
		return nil, fmt.Errorf("aggregating clicks: %w", err)
	}
	if summary.TotalSearches > 0 {
		summary.ClickThroughRate = float64(clicks) / float64(summary.TotalSearches)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT query, COUNT(*) AS n
		FROM search_query_logs WHERE user_id = ? AND created_at >= ?
		GROUP BY query ORDER BY n DESC, query LIMIT ?
	`, userID, since, topQueriesLimit)
	if err != nil {
		return nil, fmt.Errorf("querying top queries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var qc domain.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scanning top query: %w", err)
		}
		summary.TopQueries = append(summary.TopQueries, qc)
	}
	return summary, rows.Err()
}

// ==================== Helpers ====================

// scanner abstracts sql.Row and sql.Rows for shared chunk scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanChunk(row scanner) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var strategy, metadataJSON string
	var embeddingBlob []byte
	var embeddingModel sql.NullString
	var lastAccessed, createdAt sql.NullTime

	if err := row.Scan(&chunk.ID, &chunk.DocumentID, &chunk.UserID, &chunk.Content,
		&chunk.ChunkIndex, &chunk.TotalChunks, &strategy, &chunk.ChunkSizeTarget,
		&chunk.ActualSize, &metadataJSON, &embeddingBlob, &embeddingModel,
		&chunk.SearchCount, &chunk.ClickCount, &lastAccessed, &createdAt); err != nil {
		return nil, err
	}

	chunk.Strategy = domain.ChunkStrategy(strategy)
	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	chunk.EmbeddingModel = embeddingModel.String
	if lastAccessed.Valid {
		t := lastAccessed.Time
		chunk.LastAccessed = &t
	}
	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}
	return &chunk, nil
}

func collectChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, *chunk)
	}
	return chunks, rows.Err()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
