package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/docfold/docfold-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Document operations

func (s *SQLiteStorage) UpsertDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (id, source_path, title, content_hash, size_bytes,
		                       total_chunks, total_tokens, strategy, ingested_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			title = excluded.title,
			content_hash = excluded.content_hash,
			size_bytes = excluded.size_bytes,
			total_chunks = excluded.total_chunks,
			total_tokens = excluded.total_tokens,
			strategy = excluded.strategy,
			ingested_at = excluded.ingested_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		doc.ID, doc.SourcePath, doc.Title, doc.ContentHash[:], doc.SizeBytes,
		doc.TotalChunks, doc.TotalTokens, string(doc.Strategy), doc.IngestedAt, now, now).Scan(&doc.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	doc.UpdatedAt = now
	return nil
}

func scanDocument(row *sql.Row) (*Document, error) {
	var doc Document
	var hash []byte
	var title sql.NullString
	var strategy string
	var ingestedAt sql.NullTime
	err := row.Scan(
		&doc.ID, &doc.SourcePath, &title, &hash, &doc.SizeBytes,
		&doc.TotalChunks, &doc.TotalTokens, &strategy,
		&ingestedAt, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(doc.ContentHash[:], hash)
	if title.Valid {
		doc.Title = title.String
	}
	doc.Strategy = types.Strategy(strategy)
	if ingestedAt.Valid {
		doc.IngestedAt = ingestedAt.Time
	}
	return &doc, nil
}

const documentColumns = `id, source_path, title, content_hash, size_bytes,
	       total_chunks, total_tokens, strategy, ingested_at, created_at, updated_at`

func (s *SQLiteStorage) GetDocument(ctx context.Context, sourcePath string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE source_path = ?`
	return scanDocument(s.db.QueryRowContext(ctx, query, sourcePath))
}

func (s *SQLiteStorage) GetDocumentByID(ctx context.Context, documentID string) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	return scanDocument(s.db.QueryRowContext(ctx, query, documentID))
}

func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY source_path`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		var doc Document
		var hash []byte
		var title sql.NullString
		var strategy string
		var ingestedAt sql.NullTime
		err := rows.Scan(
			&doc.ID, &doc.SourcePath, &title, &hash, &doc.SizeBytes,
			&doc.TotalChunks, &doc.TotalTokens, &strategy,
			&ingestedAt, &doc.CreatedAt, &doc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		copy(doc.ContentHash[:], hash)
		if title.Valid {
			doc.Title = title.String
		}
		doc.Strategy = types.Strategy(strategy)
		if ingestedAt.Valid {
			doc.IngestedAt = ingestedAt.Time
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStorage) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID)
	return err
}

// Chunk operations

// ReplaceChunks swaps the chunk set of a document atomically. Embeddings of
// removed chunks go with them via the foreign key cascade.
func (s *SQLiteStorage) ReplaceChunks(ctx context.Context, documentID string, chunks []types.DocumentChunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("failed to delete stale chunks: %w", err)
	}
	for i := range chunks {
		if err := insertChunk(ctx, tx, &chunks[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertChunk(ctx context.Context, q querier, chunk *types.DocumentChunk) error {
	query := `
		INSERT INTO chunks (id, document_id, chunk_index, content, token_count, word_count,
		                    page_number, section_title, strategy,
		                    has_overlap_before, has_overlap_after, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		chunk.ID, chunk.DocumentID, chunk.ChunkIndex, chunk.Content,
		chunk.TokenCount, chunk.Metadata.WordCount,
		chunk.PageNumber, chunk.SectionTitle, string(chunk.Strategy),
		chunk.Metadata.HasOverlapBefore, chunk.Metadata.HasOverlapAfter,
		chunk.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
	}
	return nil
}

const chunkColumns = `id, document_id, chunk_index, content, token_count, word_count,
	       page_number, section_title, strategy, has_overlap_before, has_overlap_after, created_at`

func scanChunk(scan func(dest ...interface{}) error) (types.DocumentChunk, error) {
	var chunk types.DocumentChunk
	var pageNumber sql.NullInt64
	var sectionTitle sql.NullString
	var strategy string
	err := scan(
		&chunk.ID, &chunk.DocumentID, &chunk.ChunkIndex, &chunk.Content,
		&chunk.TokenCount, &chunk.Metadata.WordCount,
		&pageNumber, &sectionTitle, &strategy,
		&chunk.Metadata.HasOverlapBefore, &chunk.Metadata.HasOverlapAfter,
		&chunk.CreatedAt,
	)
	if err != nil {
		return chunk, err
	}
	if pageNumber.Valid {
		page := int(pageNumber.Int64)
		chunk.PageNumber = &page
	}
	if sectionTitle.Valid {
		title := sectionTitle.String
		chunk.SectionTitle = &title
	}
	chunk.Strategy = types.Strategy(strategy)
	return chunk, nil
}

func (s *SQLiteStorage) GetChunk(ctx context.Context, chunkID string) (*types.DocumentChunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, chunkID)
	chunk, err := scanChunk(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

func (s *SQLiteStorage) ListChunksByDocument(ctx context.Context, documentID string) ([]types.DocumentChunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE document_id = ? ORDER BY chunk_index`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.DocumentChunk
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func (s *SQLiteStorage) CountChunks(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks WHERE document_id = ?`, documentID).Scan(&count)
	return count, err
}

// Embedding operations

func (s *SQLiteStorage) UpsertEmbedding(ctx context.Context, embedding *Embedding) error {
	query := `
		INSERT INTO embeddings (chunk_id, vector, dimension, provider, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			vector = excluded.vector,
			dimension = excluded.dimension,
			provider = excluded.provider,
			model = excluded.model,
			created_at = excluded.created_at
		RETURNING id
	`
	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		embedding.ChunkID, embedding.Vector, embedding.Dimension,
		embedding.Provider, embedding.Model, now).Scan(&embedding.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	embedding.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) GetEmbedding(ctx context.Context, chunkID string) (*Embedding, error) {
	query := `
		SELECT id, chunk_id, vector, dimension, provider, model, created_at
		FROM embeddings
		WHERE chunk_id = ?
	`
	var emb Embedding
	err := s.db.QueryRowContext(ctx, query, chunkID).Scan(
		&emb.ID, &emb.ChunkID, &emb.Vector, &emb.Dimension,
		&emb.Provider, &emb.Model, &emb.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emb, nil
}

// ListChunksWithoutEmbeddings returns chunks of a document that have no
// embedding yet, in index order. A limit <= 0 means no limit.
func (s *SQLiteStorage) ListChunksWithoutEmbeddings(ctx context.Context, documentID string, limit int) ([]types.DocumentChunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM chunks
		WHERE document_id = ?
		  AND id NOT IN (SELECT chunk_id FROM embeddings)
		ORDER BY chunk_index
	`
	args := []interface{}{documentID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []types.DocumentChunk
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM chunks),
			(SELECT COUNT(*) FROM embeddings),
			(SELECT COALESCE(SUM(total_tokens), 0) FROM documents)
	`).Scan(&status.DocumentsCount, &status.ChunksCount, &status.EmbeddingsCount, &status.TotalTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			status.DatabaseSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
		}
	}

	status.Health = HealthStatus{
		DatabaseAccessible:  true,
		EmbeddingsAvailable: status.EmbeddingsCount > 0,
	}
	return status, nil
}

func (s *SQLiteStorage) GetDocumentStatus(ctx context.Context, documentID string) (*DocumentStatus, error) {
	doc, err := s.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	status := &DocumentStatus{Document: doc}
	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM chunks WHERE document_id = ?),
			(SELECT COUNT(*) FROM embeddings WHERE chunk_id IN
				(SELECT id FROM chunks WHERE document_id = ?))
	`, documentID, documentID).Scan(&status.ChunksCount, &status.EmbeddingsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read document status: %w", err)
	}
	status.PendingChunks = status.ChunksCount - status.EmbeddingsCount
	return status, nil
}
