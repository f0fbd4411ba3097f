package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// squireDoc is a multi-paragraph fixture used for coverage checks across
// strategies. The "Squire project" phrase must survive chunking intact.
const squireDoc = `The Squire project was the first consumer of this engine and its corpus
still drives the regression fixtures. Contracts, invoices and scanned
letters all flow through the same pipeline before retrieval.

Each document is segmented before embedding. Boundaries that respect
paragraphs keep clauses whole, and overlap between neighbouring chunks
preserves context across the split points.

When a paragraph outgrows the token budget the engine falls back to
fixed windows, so no single chunk can blow past the ceiling by more
than the configured tolerance.`

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New(types.Strategy("bogus"))
	assert.Error(t, err)
}

func TestChunk_EmptyText(t *testing.T) {
	for _, strategy := range types.Strategies {
		for _, text := range []string{"", "   ", "\n\t \n"} {
			c, err := New(strategy)
			require.NoError(t, err)

			res := c.Chunk(text, "doc-1", types.DefaultOptions())

			assert.False(t, res.Success, "%s %q", strategy, text)
			assert.Equal(t, types.CodeEmptyText, res.ErrorCode, "%s %q", strategy, text)
			assert.Empty(t, res.Chunks)
		}
	}
}

func TestChunk_TinyInputSingleChunk(t *testing.T) {
	text := "eleven words sit in this sentence and fill it right up"
	for _, strategy := range types.Strategies {
		res := mustChunk(t, strategy, text, types.DefaultOptions())

		require.Len(t, res.Chunks, 1, "%s", strategy)
		chunk := res.Chunks[0]
		assert.Equal(t, 0, chunk.ChunkIndex)
		assert.Equal(t, text, chunk.Content)
		assert.Equal(t, 11, chunk.Metadata.WordCount)
		assert.False(t, chunk.Metadata.HasOverlapBefore)
		assert.False(t, chunk.Metadata.HasOverlapAfter)
		assert.Equal(t, strategy, chunk.Strategy)
	}
}

func TestChunk_IndicesContiguous(t *testing.T) {
	opts := types.DefaultOptions()
	opts.MaxTokens = 50
	opts.OverlapTokens = 10
	opts.MinTokens = 10
	for _, strategy := range types.Strategies {
		opts.Strategy = strategy
		res := mustChunk(t, strategy, squireDoc, opts)

		require.Greater(t, len(res.Chunks), 1, "%s", strategy)
		for i, chunk := range res.Chunks {
			assert.Equal(t, i, chunk.ChunkIndex, "%s", strategy)
			assert.Equal(t, "doc-test", chunk.DocumentID)
			assert.Positive(t, chunk.TokenCount)
			assert.NotEmpty(t, chunk.ID)
		}
	}
}

func TestChunk_TotalTokensIsSum(t *testing.T) {
	for _, strategy := range types.Strategies {
		res := mustChunk(t, strategy, squireDoc, types.DefaultOptions())

		sum := 0
		for _, chunk := range res.Chunks {
			sum += chunk.TokenCount
		}
		assert.Equal(t, sum, res.TotalTokens, "%s", strategy)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	opts := types.DefaultOptions()
	opts.MaxTokens = 60
	opts.OverlapTokens = 15
	for _, strategy := range types.Strategies {
		opts.Strategy = strategy
		first := mustChunk(t, strategy, squireDoc, opts)
		second := mustChunk(t, strategy, squireDoc, opts)

		require.Equal(t, len(first.Chunks), len(second.Chunks), "%s", strategy)
		for i := range first.Chunks {
			// IDs and timestamps differ per run; the derived content does not.
			assert.Equal(t, first.Chunks[i].Content, second.Chunks[i].Content, "%s chunk %d", strategy, i)
			assert.Equal(t, first.Chunks[i].TokenCount, second.Chunks[i].TokenCount, "%s chunk %d", strategy, i)
			assert.Equal(t, first.Chunks[i].ChunkIndex, second.Chunks[i].ChunkIndex, "%s chunk %d", strategy, i)
			assert.Equal(t, first.Chunks[i].Strategy, second.Chunks[i].Strategy, "%s chunk %d", strategy, i)
		}
	}
}

func TestChunk_PhraseCoverage(t *testing.T) {
	opts := types.DefaultOptions()
	opts.MaxTokens = 40
	opts.OverlapTokens = 20
	opts.MinTokens = 5
	for _, strategy := range types.Strategies {
		opts.Strategy = strategy
		res := mustChunk(t, strategy, squireDoc, opts)

		var found bool
		for _, chunk := range res.Chunks {
			if strings.Contains(chunk.Content, "Squire project") {
				found = true
				break
			}
		}
		assert.True(t, found, "%s: phrase split across chunks without overlap covering it", strategy)
	}
}

func TestChunk_OverlapCarriesBoundaryWords(t *testing.T) {
	opts := types.DefaultOptions()
	opts.MaxTokens = 50
	opts.OverlapTokens = 20
	opts.MinTokens = 10
	for _, strategy := range []types.Strategy{types.StrategyFixed, types.StrategyHybrid} {
		opts.Strategy = strategy
		res := mustChunk(t, strategy, squireDoc, opts)

		require.Greater(t, len(res.Chunks), 1, "%s", strategy)
		for i := 1; i < len(res.Chunks); i++ {
			shared := sharedBoundaryWords(res.Chunks[i-1].Content, res.Chunks[i].Content)
			assert.GreaterOrEqual(t, shared, 1, "%s chunks %d/%d", strategy, i-1, i)
		}
	}
}

func TestChunk_NormalizesBadOptions(t *testing.T) {
	// Out-of-range options are corrected, not rejected.
	opts := types.Options{
		MaxTokens:     -5,
		OverlapTokens: -1,
		MinTokens:     -1,
		Strategy:      types.Strategy("nope"),
	}
	c, err := New(types.StrategyHybrid)
	require.NoError(t, err)

	res := c.Chunk(squireDoc, "doc-1", opts)
	assert.True(t, res.Success)
}

func TestChunk_PanickingCounterBecomesUnknownError(t *testing.T) {
	boom := func(string) int { panic("counter exploded") }
	c, err := NewWithCounter(types.StrategyHybrid, token.Counter(boom))
	require.NoError(t, err)

	res := c.Chunk(squireDoc, "doc-1", types.DefaultOptions())

	assert.False(t, res.Success)
	assert.Equal(t, types.CodeUnknownError, res.ErrorCode)
	assert.Contains(t, res.Error, "counter exploded")
}

func TestNewWithCounter_NilFallsBackToHeuristic(t *testing.T) {
	c, err := NewWithCounter(types.StrategyFixed, nil)
	require.NoError(t, err)

	res := c.Chunk("some ordinary text", "doc-1", types.DefaultOptions())
	assert.True(t, res.Success)
}

func TestChunk_TiktokenCounter(t *testing.T) {
	counter, err := token.NewTiktokenCounter("")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	opts := types.DefaultOptions()
	opts.MaxTokens = 64
	opts.OverlapTokens = 0
	opts.MinTokens = 0
	opts.Strategy = types.StrategyFixed

	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 120))
	c, err := NewWithCounter(types.StrategyFixed, counter)
	require.NoError(t, err)

	res := c.Chunk(text, "doc-1", opts)
	require.True(t, res.Success)
	require.Greater(t, len(res.Chunks), 1)

	for i, chunk := range res.Chunks {
		// Budgets are measured and reported with the BPE counter itself.
		assert.Equal(t, counter(chunk.Content), chunk.TokenCount, "chunk %d", i)
		assert.LessOrEqual(t, chunk.TokenCount, opts.MaxTokens, "chunk %d", i)
		assert.Equal(t, i, chunk.ChunkIndex)
	}
}
