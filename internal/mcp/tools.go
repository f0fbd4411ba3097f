package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docfold/docfold-mcp/internal/chunker"
	"github.com/docfold/docfold-mcp/internal/ingest"
	"github.com/docfold/docfold-mcp/internal/storage"
	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602 // Invalid method parameters
	ErrorCodeInternalError    = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyText        = -32001 // Text parameter is empty or whitespace
	ErrorCodeDocumentNotFound = -32002 // No document ingested from the given source
	ErrorCodeIngestFailed     = -32003 // Ingestion pipeline failure
)

// handleChunkDocument handles the chunk_document tool invocation
func (s *Server) handleChunkDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing",
		})
	}

	opts := optionsFromArgs(args)
	documentID := getStringDefault(args, "document_id", "")
	if documentID == "" {
		documentID = uuid.NewString()
	}

	c, err := chunker.NewWithCounter(opts.Strategy, s.counter)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to build chunker", map[string]interface{}{
			"error": err.Error(),
		})
	}

	res := c.Chunk(text, documentID, opts)
	if !res.Success {
		code := ErrorCodeInternalError
		if res.ErrorCode == types.CodeEmptyText {
			code = ErrorCodeEmptyText
		}
		return nil, newMCPError(code, res.Error, map[string]interface{}{
			"error_code": res.ErrorCode,
		})
	}

	chunks := make([]map[string]interface{}, len(res.Chunks))
	for i, chunk := range res.Chunks {
		entry := map[string]interface{}{
			"id":                 chunk.ID,
			"chunk_index":        chunk.ChunkIndex,
			"content":            chunk.Content,
			"token_count":        chunk.TokenCount,
			"word_count":         chunk.Metadata.WordCount,
			"has_overlap_before": chunk.Metadata.HasOverlapBefore,
			"has_overlap_after":  chunk.Metadata.HasOverlapAfter,
		}
		if chunk.PageNumber != nil {
			entry["page_number"] = *chunk.PageNumber
		}
		if chunk.SectionTitle != nil {
			entry["section_title"] = *chunk.SectionTitle
		}
		chunks[i] = entry
	}

	response := map[string]interface{}{
		"document_id":  documentID,
		"strategy":     string(opts.Strategy),
		"chunk_count":  len(res.Chunks),
		"total_tokens": res.TotalTokens,
		"duration_ms":  res.ProcessingDurationMs,
		"chunks":       chunks,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCountTokens handles the count_tokens tool invocation
func (s *Server) handleCountTokens(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, ok := args["text"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "text parameter is required", map[string]interface{}{
			"param":  "text",
			"reason": "missing",
		})
	}

	count := token.CountTokens(text)
	if s.counter != nil {
		count = s.counter(text)
	}
	response := map[string]interface{}{
		"token_count": count,
		"word_count":  token.CountWords(text),
		"rune_count":  len([]rune(text)),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIngestDocument handles the ingest_document tool invocation
func (s *Server) handleIngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	info, err := validatePath(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	cfg := &ingest.Config{
		Force:          getBoolDefault(args, "force", false),
		SkipEmbeddings: getBoolDefault(args, "skip_embeddings", false),
		Options:        optionsFromArgs(args),
	}

	if info.IsDir() {
		stats, err := s.pipeline.IngestDir(ctx, path, cfg)
		if err != nil {
			return nil, newMCPError(ErrorCodeIngestFailed, "ingestion failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response := map[string]interface{}{
			"ingested":           true,
			"documents_ingested": stats.DocumentsIngested,
			"documents_skipped":  stats.DocumentsSkipped,
			"documents_failed":   stats.DocumentsFailed,
			"chunks_created":     stats.ChunksCreated,
			"embeddings_created": stats.EmbeddingsCreated,
			"duration_ms":        stats.Duration.Milliseconds(),
		}
		if len(stats.ErrorMessages) > 0 {
			// Include first few errors
			if len(stats.ErrorMessages) > 5 {
				response["errors"] = stats.ErrorMessages[:5]
				response["error_count"] = len(stats.ErrorMessages)
			} else {
				response["errors"] = stats.ErrorMessages
			}
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	res, err := s.pipeline.IngestFile(ctx, path, cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeIngestFailed, "ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	response := map[string]interface{}{
		"ingested":           !res.Skipped,
		"skipped":            res.Skipped,
		"document_id":        res.Document.ID,
		"title":              res.Document.Title,
		"chunks_created":     res.ChunkCount,
		"embeddings_created": res.EmbeddingCount,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sourcePath := getStringDefault(args, "source_path", "")

	if sourcePath != "" {
		doc, err := s.storage.GetDocument(ctx, sourcePath)
		if err == storage.ErrNotFound {
			response := map[string]interface{}{
				"ingested":    false,
				"source_path": sourcePath,
				"message":     "Document not ingested. Use the ingest_document tool first.",
			}
			return mcp.NewToolResultText(formatJSON(response)), nil
		}
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get document", map[string]interface{}{
				"error": err.Error(),
			})
		}

		status, err := s.storage.GetDocumentStatus(ctx, doc.ID)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get document status", map[string]interface{}{
				"error": err.Error(),
			})
		}
		response := map[string]interface{}{
			"ingested": true,
			"document": map[string]interface{}{
				"id":          doc.ID,
				"source_path": doc.SourcePath,
				"title":       doc.Title,
				"strategy":    string(doc.Strategy),
				"ingested_at": doc.IngestedAt.Format("2006-01-02T15:04:05Z07:00"),
			},
			"statistics": map[string]interface{}{
				"chunks_count":     status.ChunksCount,
				"embeddings_count": status.EmbeddingsCount,
				"pending_chunks":   status.PendingChunks,
				"total_tokens":     doc.TotalTokens,
			},
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	status, err := s.storage.GetStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}
	response := map[string]interface{}{
		"statistics": map[string]interface{}{
			"documents_count":  status.DocumentsCount,
			"chunks_count":     status.ChunksCount,
			"embeddings_count": status.EmbeddingsCount,
			"total_tokens":     status.TotalTokens,
			"database_size_mb": fmt.Sprintf("%.2f", status.DatabaseSizeMB),
		},
		"health": map[string]interface{}{
			"database_accessible":  status.Health.DatabaseAccessible,
			"embeddings_available": status.Health.EmbeddingsAvailable,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListDocuments handles the list_documents tool invocation
func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.storage.ListDocuments(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list documents", map[string]interface{}{
			"error": err.Error(),
		})
	}

	entries := make([]map[string]interface{}, len(docs))
	for i, doc := range docs {
		entries[i] = map[string]interface{}{
			"id":           doc.ID,
			"source_path":  doc.SourcePath,
			"title":        doc.Title,
			"strategy":     string(doc.Strategy),
			"total_chunks": doc.TotalChunks,
			"total_tokens": doc.TotalTokens,
		}
	}
	response := map[string]interface{}{
		"count":     len(entries),
		"documents": entries,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// optionsFromArgs builds chunking options from tool arguments; out-of-range
// values are normalized by the chunker, not rejected here.
func optionsFromArgs(args map[string]interface{}) types.Options {
	defaults := types.DefaultOptions()
	return types.Options{
		MaxTokens:          getIntDefault(args, "max_tokens", defaults.MaxTokens),
		OverlapTokens:      getIntDefault(args, "overlap_tokens", defaults.OverlapTokens),
		MinTokens:          getIntDefault(args, "min_tokens", defaults.MinTokens),
		PreserveParagraphs: getBoolDefault(args, "preserve_paragraphs", defaults.PreserveParagraphs),
		PreserveSentences:  getBoolDefault(args, "preserve_sentences", defaults.PreserveSentences),
		Strategy:           types.Strategy(getStringDefault(args, "strategy", string(defaults.Strategy))),
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that a path is absolute and readable, returning its info
func validatePath(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	if !filepath.IsAbs(path) {
		return nil, ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, ErrPathNotFound
	}
	if err != nil {
		return nil, ErrPathNotReadable
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrPathNotReadable
	}
	_ = f.Close()

	return info, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
)
