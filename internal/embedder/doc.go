// Package embedder generates vector embeddings for document chunks.
//
// Three providers are supported:
//   - openai: OpenAI embeddings API (text-embedding-3-small)
//   - ollama: a local Ollama server (nomic-embed-text)
//   - local: deterministic feature hashing, no network required
//
// Provider selection is driven by environment:
//
//	embedder, err := embedder.NewFromEnv()
//
// DOCFOLD_EMBEDDING_PROVIDER picks a provider explicitly; otherwise
// OPENAI_API_KEY, then DOCFOLD_OLLAMA_URL are auto-detected, falling back
// to the local provider.
//
// All providers share an LRU cache keyed by the SHA-256 hash of the input
// text, so re-ingesting an unchanged document never re-calls the API.
// Remote calls retry with exponential backoff and respect context
// cancellation.
//
//	emb, err := e.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: chunk.Content})
//	blob := embedder.EncodeVector(emb.Vector)
package embedder
