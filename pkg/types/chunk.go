package types

import (
	"errors"
	"time"
)

// Strategy identifies which segmentation algorithm produced a chunk.
type Strategy string

const (
	StrategyFixed    Strategy = "fixed"
	StrategySemantic Strategy = "semantic"
	StrategyHybrid   Strategy = "hybrid"
)

// Strategies lists all valid strategy tags.
var Strategies = []Strategy{StrategyFixed, StrategySemantic, StrategyHybrid}

// Valid reports whether s is a known strategy tag.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFixed, StrategySemantic, StrategyHybrid:
		return true
	default:
		return false
	}
}

// ChunkMetadata carries per-chunk statistics derived at assembly time.
type ChunkMetadata struct {
	WordCount        int  `json:"word_count"`
	HasOverlapBefore bool `json:"has_overlap_before"`
	HasOverlapAfter  bool `json:"has_overlap_after"`
}

// DocumentChunk is one retrievable unit of a document's text.
//
// Chunks are created once by a chunker invocation and never mutated
// afterwards; re-chunking a document produces an entirely new set with new
// identifiers.
type DocumentChunk struct {
	// Identification
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`

	// Content
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`

	// Provenance (optional, supplied by the boundary detector)
	PageNumber   *int    `json:"page_number,omitempty"`
	SectionTitle *string `json:"section_title,omitempty"`

	// Metadata
	Strategy  Strategy      `json:"chunking_strategy"`
	Metadata  ChunkMetadata `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

// Validate checks the chunk's structural invariants.
func (c *DocumentChunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk id is required")
	}
	if c.DocumentID == "" {
		return errors.New("document id is required")
	}
	if c.ChunkIndex < 0 {
		return errors.New("chunk index must be non-negative")
	}
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}
	if c.TokenCount <= 0 {
		return errors.New("token count must be positive")
	}
	if !c.Strategy.Valid() {
		return errors.New("invalid chunking strategy")
	}
	return nil
}
