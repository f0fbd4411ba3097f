// Package storage provides SQLite-based persistence for ingested documents,
// their chunks and chunk embeddings.
//
// # Database Schema
//
// Tables:
//   - documents: Source metadata (path, title, SHA-256 content hash)
//   - chunks: Ordered document chunks with token counts and overlap flags
//   - embeddings: Vector embeddings keyed by chunk id
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.docfold/docfold.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Record a document, then swap its chunk set atomically.
//	err = db.UpsertDocument(ctx, doc)
//	err = db.ReplaceChunks(ctx, doc.ID, result.Chunks)
//
// # Incremental Updates
//
// Compare content hashes to detect changes:
//
//	stored, err := db.GetDocument(ctx, path)
//	if err == nil && stored.ContentHash == sha256.Sum256(content) {
//	    // Document unchanged, skip re-chunking.
//	    return nil
//	}
//
// ReplaceChunks deletes the previous chunk set inside the same transaction
// as the inserts, so readers never observe a half-replaced document. Stale
// embeddings are removed by the foreign key cascade and recomputed lazily
// via ListChunksWithoutEmbeddings.
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (sqlite_cgo tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires C compiler
//
//     CGO_ENABLED=1 go build -tags "sqlite_cgo"
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
package storage
