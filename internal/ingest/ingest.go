package ingest

import (
	"bufio"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docfold/docfold-mcp/internal/chunker"
	"github.com/docfold/docfold-mcp/internal/embedder"
	"github.com/docfold/docfold-mcp/internal/storage"
	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// DefaultExtensions are the file extensions ingested when none are configured
var DefaultExtensions = []string{".txt", ".md", ".markdown"}

// Pipeline coordinates the ingestion flow: read -> chunk -> store -> embed
type Pipeline struct {
	store   storage.Storage
	embed   embedder.Embedder
	counter token.Counter
}

// Config contains configuration for an ingestion run
type Config struct {
	Workers        int           // Number of concurrent workers (default: runtime.NumCPU())
	Extensions     []string      // File extensions to ingest (default: DefaultExtensions)
	Force          bool          // Re-ingest even when the content hash is unchanged
	SkipEmbeddings bool          // Chunk and store only, leave embeddings pending
	Options        types.Options // Chunking options
}

func (c *Config) normalized() Config {
	out := Config{Options: types.DefaultOptions()}
	if c != nil {
		out = *c
	}
	if out.Workers <= 0 {
		out.Workers = runtime.NumCPU()
	}
	if len(out.Extensions) == 0 {
		out.Extensions = DefaultExtensions
	}
	if out.Options == (types.Options{}) {
		out.Options = types.DefaultOptions()
	}
	out.Options = out.Options.Normalized()
	return out
}

// FileResult reports the outcome of ingesting one document
type FileResult struct {
	Document       *storage.Document
	ChunkCount     int
	EmbeddingCount int
	Skipped        bool
}

// Statistics contains aggregate statistics for a directory ingestion run
type Statistics struct {
	DocumentsIngested int
	DocumentsSkipped  int
	DocumentsFailed   int
	ChunksCreated     int
	EmbeddingsCreated int
	Duration          time.Duration
	ErrorMessages     []string
}

// New creates a new ingestion Pipeline using the heuristic token counter
func New(store storage.Storage, embed embedder.Embedder) *Pipeline {
	return NewWithCounter(store, embed, nil)
}

// NewWithCounter creates a Pipeline whose chunkers measure budgets with the
// given counter, e.g. one from token.NewTiktokenCounter. A nil counter means
// the default heuristic estimate.
func NewWithCounter(store storage.Storage, embed embedder.Embedder, counter token.Counter) *Pipeline {
	return &Pipeline{
		store:   store,
		embed:   embed,
		counter: counter,
	}
}

// IngestFile ingests a single document from disk. Unchanged documents are
// skipped unless cfg.Force is set.
func (p *Pipeline) IngestFile(ctx context.Context, path string, cfg *Config) (*FileResult, error) {
	conf := cfg.normalized()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	hash := sha256.Sum256(content)

	// Reuse the existing document id so chunk history stays attached.
	documentID := uuid.NewString()
	existing, err := p.store.GetDocument(ctx, path)
	switch {
	case err == nil:
		if existing.ContentHash == hash && !conf.Force {
			return &FileResult{Document: existing, Skipped: true}, nil
		}
		documentID = existing.ID
	case err != storage.ErrNotFound:
		return nil, err
	}

	return p.ingestContent(ctx, documentID, path, string(content), hash, info.Size(), conf)
}

// IngestText ingests in-memory text under a synthetic source path. Used by
// the MCP ingest tool when the caller supplies content directly.
func (p *Pipeline) IngestText(ctx context.Context, sourcePath, text string, cfg *Config) (*FileResult, error) {
	conf := cfg.normalized()
	hash := sha256.Sum256([]byte(text))

	documentID := uuid.NewString()
	existing, err := p.store.GetDocument(ctx, sourcePath)
	switch {
	case err == nil:
		if existing.ContentHash == hash && !conf.Force {
			return &FileResult{Document: existing, Skipped: true}, nil
		}
		documentID = existing.ID
	case err != storage.ErrNotFound:
		return nil, err
	}

	return p.ingestContent(ctx, documentID, sourcePath, text, hash, int64(len(text)), conf)
}

func (p *Pipeline) ingestContent(ctx context.Context, documentID, sourcePath, text string,
	hash [32]byte, sizeBytes int64, conf Config) (*FileResult, error) {

	c, err := chunker.NewWithCounter(conf.Options.Strategy, p.counter)
	if err != nil {
		return nil, err
	}
	res := c.Chunk(text, documentID, conf.Options)
	if !res.Success {
		return nil, fmt.Errorf("chunking %s failed: %s (%s)", sourcePath, res.Error, res.ErrorCode)
	}

	doc := &storage.Document{
		ID:          documentID,
		SourcePath:  sourcePath,
		Title:       documentTitle(text, sourcePath),
		ContentHash: hash,
		SizeBytes:   sizeBytes,
		TotalChunks: len(res.Chunks),
		TotalTokens: res.TotalTokens,
		Strategy:    conf.Options.Strategy,
		IngestedAt:  time.Now().UTC(),
	}
	if err := p.store.UpsertDocument(ctx, doc); err != nil {
		return nil, err
	}
	if err := p.store.ReplaceChunks(ctx, doc.ID, res.Chunks); err != nil {
		return nil, err
	}

	result := &FileResult{Document: doc, ChunkCount: len(res.Chunks)}
	if !conf.SkipEmbeddings && p.embed != nil {
		embedded, err := p.EmbedPending(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
		result.EmbeddingCount = embedded
	}
	return result, nil
}

// EmbedPending computes and stores embeddings for every chunk of a document
// that has none yet. It returns the number of embeddings created.
func (p *Pipeline) EmbedPending(ctx context.Context, documentID string) (int, error) {
	if p.embed == nil {
		return 0, fmt.Errorf("no embedder configured")
	}

	total := 0
	for {
		pending, err := p.store.ListChunksWithoutEmbeddings(ctx, documentID, embedder.DefaultBatchSize)
		if err != nil {
			return total, err
		}
		if len(pending) == 0 {
			return total, nil
		}

		texts := make([]string, len(pending))
		for i, chunk := range pending {
			texts[i] = chunk.Content
		}
		resp, err := p.embed.GenerateBatch(ctx, embedder.BatchEmbeddingRequest{Texts: texts})
		if err != nil {
			return total, fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(resp.Embeddings) != len(pending) {
			return total, fmt.Errorf("embedder returned %d vectors for %d chunks", len(resp.Embeddings), len(pending))
		}

		for i, emb := range resp.Embeddings {
			record := &storage.Embedding{
				ChunkID:   pending[i].ID,
				Vector:    embedder.EncodeVector(emb.Vector),
				Dimension: emb.Dimension,
				Provider:  resp.Provider,
				Model:     resp.Model,
			}
			if err := p.store.UpsertEmbedding(ctx, record); err != nil {
				return total, err
			}
			total++
		}
	}
}

// IngestDir walks a directory tree and ingests every matching document
// concurrently. Per-file failures are recorded in the statistics and do not
// abort the run.
func (p *Pipeline) IngestDir(ctx context.Context, root string, cfg *Config) (*Statistics, error) {
	conf := cfg.normalized()
	started := time.Now()

	files, err := discoverFiles(root, conf.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	var (
		ingested   int32
		skipped    int32
		failed     int32
		chunks     int32
		embeddings int32
	)
	var mu sync.Mutex
	stats := &Statistics{ErrorMessages: make([]string, 0)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(conf.Workers)

	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.IngestFile(gctx, path, &conf)
			if err != nil {
				atomic.AddInt32(&failed, 1)
				mu.Lock()
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				return nil // Continue with other files
			}
			if res.Skipped {
				atomic.AddInt32(&skipped, 1)
				return nil
			}
			atomic.AddInt32(&ingested, 1)
			atomic.AddInt32(&chunks, int32(res.ChunkCount))
			atomic.AddInt32(&embeddings, int32(res.EmbeddingCount))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.DocumentsIngested = int(ingested)
	stats.DocumentsSkipped = int(skipped)
	stats.DocumentsFailed = int(failed)
	stats.ChunksCreated = int(chunks)
	stats.EmbeddingsCreated = int(embeddings)
	stats.Duration = time.Since(started)
	return stats, nil
}

// discoverFiles finds all ingestable documents under root
func discoverFiles(root string, extensions []string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(info.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, allowed := range extensions {
			if ext == allowed {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	return files, err
}

// documentTitle derives a display title: the first heading in the text, or
// the base file name when no heading is found near the top.
func documentTitle(text, sourcePath string) string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for lines := 0; scanner.Scan() && lines < 20; lines++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if title, ok := chunker.HeadingTitle(line); ok {
			return title
		}
		break
	}
	return filepath.Base(sourcePath)
}
