package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold-mcp/pkg/types"
)

// repeatedWords builds a text of n distinct-ish words.
func repeatedWords(n int) string {
	cycle := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	words := make([]string, n)
	for i := range words {
		words[i] = cycle[i%len(cycle)]
	}
	return strings.Join(words, " ")
}

// sharedBoundaryWords returns the largest k such that the last k words of a
// equal the first k words of b.
func sharedBoundaryWords(a, b string) int {
	aw := strings.Fields(a)
	bw := strings.Fields(b)
	limit := len(aw)
	if len(bw) < limit {
		limit = len(bw)
	}
	for k := limit; k > 0; k-- {
		match := true
		for i := 0; i < k; i++ {
			if aw[len(aw)-k+i] != bw[i] {
				match = false
				break
			}
		}
		if match {
			return k
		}
	}
	return 0
}

func fixedOpts(maxTokens, overlap, min int) types.Options {
	return types.Options{
		MaxTokens:     maxTokens,
		OverlapTokens: overlap,
		MinTokens:     min,
		Strategy:      types.StrategyFixed,
	}
}

func TestFixed_ShortTextSingleChunk(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	res := c.Chunk("just a handful of words here", "doc-1", types.DefaultOptions())

	require.True(t, res.Success)
	require.Len(t, res.Chunks, 1)
	chunk := res.Chunks[0]
	assert.Equal(t, 0, chunk.ChunkIndex)
	assert.Equal(t, "just a handful of words here", chunk.Content)
	assert.False(t, chunk.Metadata.HasOverlapBefore)
	assert.False(t, chunk.Metadata.HasOverlapAfter)
	assert.Equal(t, types.StrategyFixed, chunk.Strategy)
}

func TestFixed_LongParagraphRespectsBudget(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	opts := fixedOpts(100, 20, 20)
	res := c.Chunk(repeatedWords(500), "doc-1", opts)

	require.True(t, res.Success)
	assert.Greater(t, len(res.Chunks), 1)
	for _, chunk := range res.Chunks {
		// Interior windows stay within MaxTokens; the final window may
		// absorb a tail fragment up to MinTokens.
		assert.LessOrEqual(t, chunk.TokenCount, opts.MaxTokens+opts.MinTokens,
			"chunk %d over budget", chunk.ChunkIndex)
	}
}

func TestFixed_OverlapSharedAcrossChunks(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	res := c.Chunk(repeatedWords(300), "doc-1", fixedOpts(50, 10, 10))

	require.True(t, res.Success)
	require.Greater(t, len(res.Chunks), 2)
	for i := 1; i < len(res.Chunks); i++ {
		shared := sharedBoundaryWords(res.Chunks[i-1].Content, res.Chunks[i].Content)
		assert.GreaterOrEqual(t, shared, 1, "chunks %d/%d share no boundary words", i-1, i)
	}
}

func TestFixed_OverlapFlags(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	res := c.Chunk(repeatedWords(300), "doc-1", fixedOpts(50, 10, 10))

	require.True(t, res.Success)
	require.GreaterOrEqual(t, len(res.Chunks), 3)
	first := res.Chunks[0]
	last := res.Chunks[len(res.Chunks)-1]
	assert.False(t, first.Metadata.HasOverlapBefore)
	assert.True(t, first.Metadata.HasOverlapAfter)
	assert.True(t, last.Metadata.HasOverlapBefore)
	assert.False(t, last.Metadata.HasOverlapAfter)
	for _, chunk := range res.Chunks[1 : len(res.Chunks)-1] {
		assert.True(t, chunk.Metadata.HasOverlapBefore, "chunk %d", chunk.ChunkIndex)
		assert.True(t, chunk.Metadata.HasOverlapAfter, "chunk %d", chunk.ChunkIndex)
	}
}

func TestFixed_ZeroOverlapNoFlags(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	res := c.Chunk(repeatedWords(300), "doc-1", fixedOpts(50, 0, 10))

	require.True(t, res.Success)
	require.Greater(t, len(res.Chunks), 1)
	for _, chunk := range res.Chunks {
		assert.False(t, chunk.Metadata.HasOverlapBefore)
		assert.False(t, chunk.Metadata.HasOverlapAfter)
	}
}

func TestFixed_NoContentLost(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	// Distinct words so every input word must appear in some chunk.
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	res := c.Chunk(strings.Join(words, " "), "doc-1", fixedOpts(60, 12, 12))

	require.True(t, res.Success)
	all := " "
	for _, chunk := range res.Chunks {
		all += chunk.Content + " "
	}
	for _, w := range words {
		assert.Contains(t, all, " "+w+" ")
	}
}

func TestFixed_GiantWordHardSplit(t *testing.T) {
	c, err := New(types.StrategyFixed)
	require.NoError(t, err)

	giant := strings.Repeat("x", 600) // ~150 tokens as one unbroken word
	res := c.Chunk("start "+giant+" end", "doc-1", fixedOpts(50, 0, 0))

	require.True(t, res.Success)
	for _, chunk := range res.Chunks {
		assert.LessOrEqual(t, chunk.TokenCount, 50, "chunk %d", chunk.ChunkIndex)
	}
}

func TestFixed_TrailingFragmentAbsorbed(t *testing.T) {
	// 52 two-token words: windows of ~25 words; the last few words fall
	// below the floor and must be absorbed, not emitted alone.
	res := mustChunk(t, types.StrategyFixed, repeatedWords(52), fixedOpts(50, 0, 20))

	require.Greater(t, len(res.Chunks), 1)
	last := res.Chunks[len(res.Chunks)-1]
	assert.GreaterOrEqual(t, last.TokenCount, 20)
}

// mustChunk is a test helper for successful chunking calls.
func mustChunk(t *testing.T, strategy types.Strategy, text string, opts types.Options) types.Result {
	t.Helper()
	c, err := New(strategy)
	require.NoError(t, err)
	res := c.Chunk(text, "doc-test", opts)
	require.True(t, res.Success, "chunking failed: %s (%s)", res.Error, res.ErrorCode)
	return res
}
