// Package types defines the shared domain model for the chunking engine:
// chunks, chunking options, strategy tags, and the structured result every
// chunking call returns.
//
// The types here are consumed by the chunker (which produces them), the
// storage layer (which persists them) and the embedder/ingest pipeline
// (which act on them). They carry no behavior beyond validation.
package types
