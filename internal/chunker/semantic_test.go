package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docfold/docfold-mcp/pkg/types"
)

// sectionedDoc is a small markdown document with two substantial sections.
const sectionedDoc = `# Background

The Squire project began as an internal tool for indexing scanned contracts.
Over the first year it processed several thousand documents and the retrieval
quality problems all traced back to how text was segmented before embedding.
Poorly chosen boundaries split clauses in half and made matches useless.

# Segmentation Design

The redesign keeps paragraphs intact wherever possible and only falls back
to fixed windows when a single paragraph exceeds the configured token budget.
Overlap between adjacent segments carries context across boundaries so that
retrieval can still rank a match that straddles a split point.`

func semanticOpts() types.Options {
	opts := types.DefaultOptions()
	opts.Strategy = types.StrategySemantic
	return opts
}

func TestSemantic_SectionTitles(t *testing.T) {
	res := mustChunk(t, types.StrategySemantic, sectionedDoc, semanticOpts())

	require.GreaterOrEqual(t, len(res.Chunks), 2)
	var titles []string
	for _, chunk := range res.Chunks {
		require.NotNil(t, chunk.SectionTitle, "chunk %d has no section title", chunk.ChunkIndex)
		titles = append(titles, *chunk.SectionTitle)
	}
	assert.Contains(t, titles, "Background")
	assert.Contains(t, titles, "Segmentation Design")
}

func TestSemantic_ChunksDoNotSpanSections(t *testing.T) {
	res := mustChunk(t, types.StrategySemantic, sectionedDoc, semanticOpts())

	for _, chunk := range res.Chunks {
		if strings.Contains(chunk.Content, "Squire project") {
			assert.NotContains(t, chunk.Content, "redesign keeps paragraphs")
		}
	}
}

func TestSemantic_MergesSmallParagraphs(t *testing.T) {
	text := "First short paragraph.\n\nSecond short paragraph.\n\nThird short paragraph."
	res := mustChunk(t, types.StrategySemantic, text, semanticOpts())

	// All three fit the default budget together.
	require.Len(t, res.Chunks, 1)
	assert.Contains(t, res.Chunks[0].Content, "First short")
	assert.Contains(t, res.Chunks[0].Content, "Third short")
}

func TestSemantic_SplitsAtBudget(t *testing.T) {
	para := strings.TrimSpace(strings.Repeat("Words fill this paragraph with content. ", 10))
	text := para + "\n\n" + para + "\n\n" + para
	opts := semanticOpts()
	opts.MaxTokens = 120 // each paragraph is ~100 tokens
	opts.MinTokens = 10
	opts.OverlapTokens = 0

	res := mustChunk(t, types.StrategySemantic, text, opts)
	assert.Len(t, res.Chunks, 3)
}

func TestSemantic_OversizedParagraphEmittedAlone(t *testing.T) {
	big := repeatedWords(400) // ~800 tokens as one paragraph
	text := "A small intro paragraph.\n\n" + big + "\n\nA small closing paragraph."
	opts := semanticOpts()
	opts.MaxTokens = 100
	opts.MinTokens = 5

	res := mustChunk(t, types.StrategySemantic, text, opts)

	require.Len(t, res.Chunks, 3)
	assert.Greater(t, res.Chunks[1].TokenCount, opts.MaxTokens,
		"oversized paragraph should be emitted without a hard ceiling")
	assert.Contains(t, res.Chunks[0].Content, "intro")
	assert.Contains(t, res.Chunks[2].Content, "closing")
}

func TestSemantic_HeadingAttachedToBody(t *testing.T) {
	res := mustChunk(t, types.StrategySemantic, sectionedDoc, semanticOpts())

	var found bool
	for _, chunk := range res.Chunks {
		if strings.Contains(chunk.Content, "# Background") &&
			strings.Contains(chunk.Content, "Squire project") {
			found = true
		}
	}
	assert.True(t, found, "short heading should stay attached to its body text")
}

func TestSemantic_TrailingHeadingBecomesChunk(t *testing.T) {
	text := "Some regular body text sits here at the top of the document.\n\n# Appendix"
	opts := semanticOpts()
	opts.MinTokens = 0

	res := mustChunk(t, types.StrategySemantic, text, opts)

	last := res.Chunks[len(res.Chunks)-1]
	assert.Contains(t, last.Content, "Appendix")
}

func TestSemantic_PageNumbersCarried(t *testing.T) {
	text := "Paragraph on the first page of the scanned file.\fParagraph on the second page of the scanned file."
	opts := semanticOpts()
	opts.MaxTokens = 12 // force one chunk per page paragraph
	opts.MinTokens = 0

	res := mustChunk(t, types.StrategySemantic, text, opts)

	require.Len(t, res.Chunks, 2)
	require.NotNil(t, res.Chunks[0].PageNumber)
	require.NotNil(t, res.Chunks[1].PageNumber)
	assert.Equal(t, 1, *res.Chunks[0].PageNumber)
	assert.Equal(t, 2, *res.Chunks[1].PageNumber)
}

func TestSemantic_SentenceUnitsWhenParagraphsDisabled(t *testing.T) {
	text := "First sentence is here. Second sentence follows it. Third sentence ends things."
	opts := semanticOpts()
	opts.PreserveParagraphs = false
	opts.MaxTokens = 8 // roughly one sentence each
	opts.MinTokens = 0

	res := mustChunk(t, types.StrategySemantic, text, opts)
	assert.GreaterOrEqual(t, len(res.Chunks), 2)
}

func TestSemantic_NoOverlapFlags(t *testing.T) {
	res := mustChunk(t, types.StrategySemantic, sectionedDoc, semanticOpts())
	for _, chunk := range res.Chunks {
		assert.False(t, chunk.Metadata.HasOverlapBefore)
		assert.False(t, chunk.Metadata.HasOverlapAfter)
	}
}
