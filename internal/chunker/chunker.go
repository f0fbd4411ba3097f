package chunker

import (
	"fmt"
	"strings"
	"time"

	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// Chunker is the contract shared by all three strategies. Implementations
// are stateless and safe for concurrent use.
type Chunker interface {
	// Strategy returns the tag stamped on every chunk this chunker produces.
	Strategy() types.Strategy

	// Chunk splits text into ordered chunks for the given document. It never
	// returns an error or panics: failures are reported on the Result with
	// an error code (EMPTY_TEXT, UNKNOWN_ERROR).
	Chunk(text, documentID string, opts types.Options) types.Result
}

// New returns the chunker for the given strategy tag, using the default
// heuristic token counter.
func New(strategy types.Strategy) (Chunker, error) {
	return NewWithCounter(strategy, token.CountTokens)
}

// NewWithCounter returns the chunker for the given strategy backed by a
// custom token counter, e.g. a tiktoken-based one. The counter must be pure.
func NewWithCounter(strategy types.Strategy, counter token.Counter) (Chunker, error) {
	if counter == nil {
		counter = token.CountTokens
	}
	switch strategy {
	case types.StrategyFixed:
		return &FixedChunker{counter: counter}, nil
	case types.StrategySemantic:
		return &SemanticChunker{counter: counter}, nil
	case types.StrategyHybrid:
		return &HybridChunker{counter: counter}, nil
	default:
		return nil, fmt.Errorf("chunker: unknown strategy %q", strategy)
	}
}

// segmentFunc produces the ordered raw segments for one strategy. It runs
// on trimmed, non-empty text with normalized options.
type segmentFunc func(text string, opts types.Options) []segment

// run drives the shared pipeline: input validation, segmentation, assembly.
// Internal faults are recovered and surfaced as UNKNOWN_ERROR so callers
// always receive a structured result.
func run(strategy types.Strategy, counter token.Counter, text, documentID string, opts types.Options, fn segmentFunc) (res types.Result) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = types.Failure(
				types.CodeUnknownError,
				fmt.Sprintf("chunker: internal fault: %v", r),
				time.Since(started).Milliseconds(),
			)
		}
	}()
	opts = opts.Normalized()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.Failure(types.CodeEmptyText, "chunker: input text is empty", time.Since(started).Milliseconds())
	}
	segs := fn(trimmed, opts)
	return assemble(segs, documentID, strategy, counter, started)
}
