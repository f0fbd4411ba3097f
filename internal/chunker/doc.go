// Package chunker splits long-form document text into bounded, overlapping
// chunks suitable for embedding and retrieval.
//
// Three interchangeable strategies share one contract:
//
//   - fixed: token-bounded word windows with configurable overlap, ignoring
//     document structure entirely.
//   - semantic: paragraph/section-aware grouping up to a token ceiling. Does
//     not guarantee a hard ceiling; a single oversized paragraph is emitted
//     as-is.
//   - hybrid (default): semantic grouping first, then fixed re-splitting of
//     any oversized unit, then an overlap pass across the final sequence.
//
// # Basic Usage
//
//	c, err := chunker.New(types.StrategyHybrid)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := c.Chunk(text, documentID, types.DefaultOptions())
//	if !res.Success {
//	    // res.ErrorCode is EMPTY_TEXT or UNKNOWN_ERROR
//	}
//	for _, chunk := range res.Chunks {
//	    fmt.Printf("chunk %d: %d tokens, section=%v\n",
//	        chunk.ChunkIndex, chunk.TokenCount, chunk.SectionTitle)
//	}
//
// Every chunking call is a single synchronous pass over its own input: no
// I/O, no shared mutable state, safe to run concurrently for different
// documents. Identical input and options produce identical chunk contents
// and indices (ids and timestamps differ per call).
//
// Token budgets are measured by an injectable token.Counter; a chunker
// instance is constructed with exactly one counter so maxTokens means the
// same thing in every strategy.
package chunker
