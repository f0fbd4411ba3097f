package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/docfold/docfold-mcp/pkg/types"
)

// chunkingProperties are the option fields shared by tools that chunk text
func chunkingProperties() map[string]interface{} {
	return map[string]interface{}{
		"strategy": map[string]interface{}{
			"type":        "string",
			"description": "Chunking strategy",
			"enum":        []string{"fixed", "semantic", "hybrid"},
			"default":     "hybrid",
		},
		"max_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Token budget per chunk",
			"default":     types.DefaultMaxTokens,
			"minimum":     1,
		},
		"overlap_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Tokens of trailing context shared with the next chunk",
			"default":     types.DefaultOverlapTokens,
			"minimum":     0,
		},
		"min_tokens": map[string]interface{}{
			"type":        "integer",
			"description": "Floor below which a trailing fragment is merged into its neighbor",
			"default":     types.DefaultMinTokens,
			"minimum":     0,
		},
		"preserve_paragraphs": map[string]interface{}{
			"type":        "boolean",
			"description": "Prefer paragraph boundaries when grouping",
			"default":     true,
		},
		"preserve_sentences": map[string]interface{}{
			"type":        "boolean",
			"description": "Prefer sentence boundaries when re-splitting oversized units",
			"default":     true,
		},
	}
}

// chunkDocumentTool returns the tool definition for chunk_document
func chunkDocumentTool() mcp.Tool {
	props := chunkingProperties()
	props["text"] = map[string]interface{}{
		"type":        "string",
		"description": "Document text to chunk",
	}
	props["document_id"] = map[string]interface{}{
		"type":        "string",
		"description": "Identifier stamped on the produced chunks (generated when omitted)",
	}
	return mcp.Tool{
		Name:        "chunk_document",
		Description: "Split document text into token-bounded chunks without persisting anything",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"text"},
		},
	}
}

// countTokensTool returns the tool definition for count_tokens
func countTokensTool() mcp.Tool {
	return mcp.Tool{
		Name:        "count_tokens",
		Description: "Estimate the token count of a text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Text to measure",
				},
			},
			Required: []string{"text"},
		},
	}
}

// ingestDocumentTool returns the tool definition for ingest_document
func ingestDocumentTool() mcp.Tool {
	props := chunkingProperties()
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a document file or a directory of documents",
	}
	props["force"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, re-ingest even when the content hash is unchanged",
		"default":     false,
	}
	props["skip_embeddings"] = map[string]interface{}{
		"type":        "boolean",
		"description": "If true, chunk and store only; embeddings stay pending",
		"default":     false,
	}
	return mcp.Tool{
		Name:        "ingest_document",
		Description: "Chunk a document (or directory of documents), persist the chunks and compute embeddings",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: props,
			Required:   []string{"path"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query store statistics, or the chunk and embedding counts of one document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_path": map[string]interface{}{
					"type":        "string",
					"description": "Source path of a single document to report on (omit for store-wide status)",
				},
			},
		},
	}
}

// listDocumentsTool returns the tool definition for list_documents
func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents with their chunk totals",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
