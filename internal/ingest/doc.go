// Package ingest coordinates the document ingestion pipeline.
//
// For each document the pipeline reads the source, chunks it with the
// configured strategy, swaps the stored chunk set atomically, and computes
// embeddings for chunks that have none. Content hashes make re-ingestion
// cheap: an unchanged document is skipped outright.
//
//	pipeline := ingest.New(store, emb)
//	stats, err := pipeline.IngestDir(ctx, "/corpus", &ingest.Config{
//	    Workers: 8,
//	    Options: types.DefaultOptions(),
//	})
//
// Directory runs process files concurrently; per-file failures are
// collected into the returned statistics instead of aborting the run.
package ingest
