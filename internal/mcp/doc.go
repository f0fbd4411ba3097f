// Package mcp implements the Model Context Protocol (MCP) server for docfold.
//
// The MCP server exposes five tools to AI assistants:
//   - chunk_document: Split text into token-bounded chunks without persisting
//   - count_tokens: Estimate the token count of a text
//   - ingest_document: Chunk, store and embed a document or directory
//   - get_status: Report store statistics or one document's chunk counts
//   - list_documents: List ingested documents
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	docfold serve
//
// It then listens on stdin for MCP protocol messages and writes responses to stdout.
//
// # Tool: chunk_document
//
// Chunk text without touching the store:
//
//	Request:
//	{
//	  "name": "chunk_document",
//	  "arguments": {
//	    "text": "# Title\n\nBody paragraph...",
//	    "strategy": "hybrid",
//	    "max_tokens": 512,
//	    "overlap_tokens": 50
//	  }
//	}
//
//	Response:
//	{
//	  "document_id": "3f2c...",
//	  "strategy": "hybrid",
//	  "chunk_count": 3,
//	  "total_tokens": 1204,
//	  "chunks": [
//	    {
//	      "chunk_index": 0,
//	      "content": "# Title\n\nBody paragraph...",
//	      "token_count": 402,
//	      "section_title": "Title"
//	    }
//	  ]
//	}
//
// # Tool: ingest_document
//
// Persist a document (or every document under a directory):
//
//	Request:
//	{
//	  "name": "ingest_document",
//	  "arguments": {
//	    "path": "/docs/report.md",
//	    "strategy": "hybrid",
//	    "force": false
//	  }
//	}
//
//	Response:
//	{
//	  "ingested": true,
//	  "document_id": "3f2c...",
//	  "title": "Quarterly Report",
//	  "chunks_created": 12,
//	  "embeddings_created": 12
//	}
//
// Re-ingesting an unchanged file is a no-op; the response carries
// "skipped": true. Pass "force": true to re-chunk regardless.
//
// # Tool: get_status
//
// Store-wide when source_path is omitted, per-document otherwise:
//
//	Request:
//	{
//	  "name": "get_status",
//	  "arguments": {
//	    "source_path": "/docs/report.md"
//	  }
//	}
//
//	Response:
//	{
//	  "ingested": true,
//	  "document": {
//	    "id": "3f2c...",
//	    "source_path": "/docs/report.md",
//	    "title": "Quarterly Report"
//	  },
//	  "statistics": {
//	    "chunks_count": 12,
//	    "embeddings_count": 12,
//	    "pending_chunks": 0
//	  }
//	}
//
// # MCP Client Configuration
//
// Configure in an MCP client's settings:
//
//	{
//	  "mcpServers": {
//	    "docfold": {
//	      "command": "/usr/local/bin/docfold",
//	      "args": ["serve"],
//	      "env": {
//	        "DOCFOLD_EMBEDDING_PROVIDER": "local"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "path",
//	      "reason": "path must be absolute"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Text parameter is empty or whitespace
//   - -32002: Document not ingested
//   - -32003: Ingestion pipeline failure
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol):
//
//	log.SetOutput(os.Stderr)
//	log.Printf("MCP server started")
package mcp
