package storage

import (
	"context"
	"time"

	"github.com/docfold/docfold-mcp/pkg/types"
)

// Storage defines the interface for persisting documents, their chunks and
// chunk embeddings.
type Storage interface {
	// Document operations
	UpsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, sourcePath string) (*Document, error)
	GetDocumentByID(ctx context.Context, documentID string) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, documentID string) error

	// Chunk operations. ReplaceChunks atomically swaps a document's chunk
	// set: stale chunks (and their embeddings, via cascade) are removed and
	// the new set inserted in one transaction.
	ReplaceChunks(ctx context.Context, documentID string, chunks []types.DocumentChunk) error
	GetChunk(ctx context.Context, chunkID string) (*types.DocumentChunk, error)
	ListChunksByDocument(ctx context.Context, documentID string) ([]types.DocumentChunk, error)
	CountChunks(ctx context.Context, documentID string) (int, error)

	// Embedding operations
	UpsertEmbedding(ctx context.Context, embedding *Embedding) error
	GetEmbedding(ctx context.Context, chunkID string) (*Embedding, error)
	ListChunksWithoutEmbeddings(ctx context.Context, documentID string, limit int) ([]types.DocumentChunk, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)
	GetDocumentStatus(ctx context.Context, documentID string) (*DocumentStatus, error)

	// Database operations
	Close() error
}

// Document represents one ingested source document
type Document struct {
	ID          string
	SourcePath  string
	Title       string
	ContentHash [32]byte
	SizeBytes   int64
	TotalChunks int
	TotalTokens int
	Strategy    types.Strategy
	IngestedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Embedding represents a vector embedding for a chunk
type Embedding struct {
	ID        int64
	ChunkID   string
	Vector    []byte // Serialized float32 array
	Dimension int
	Provider  string
	Model     string
	CreatedAt time.Time
}

// Status contains store-wide statistics
type Status struct {
	DocumentsCount  int
	ChunksCount     int
	EmbeddingsCount int
	TotalTokens     int
	DatabaseSizeMB  float64
	Health          HealthStatus
}

// DocumentStatus contains statistics for one document
type DocumentStatus struct {
	Document        *Document
	ChunksCount     int
	EmbeddingsCount int
	PendingChunks   int
}

// HealthStatus represents the health of the store
type HealthStatus struct {
	DatabaseAccessible  bool
	EmbeddingsAvailable bool
}
