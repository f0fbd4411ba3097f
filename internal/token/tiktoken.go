package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is specified.
// cl100k_base matches the GPT-3.5/4 and text-embedding-3 family.
const DefaultEncoding = "cl100k_base"

// NewTiktokenCounter returns a Counter backed by a real BPE tokenizer for
// callers that need model-true budgets instead of the heuristic estimate.
// The returned Counter is safe for concurrent use; the encoding tables are
// immutable once loaded.
//
// A chunker instance must be constructed with exactly one Counter so a
// maxTokens budget means the same thing across all strategies.
func NewTiktokenCounter(encoding string) (Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("token: load encoding %q: %w", encoding, err)
	}
	return func(text string) int {
		if text == "" {
			return 0
		}
		return len(enc.Encode(text, nil, nil))
	}, nil
}
