package chunker

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// segment is a raw chunk-to-be handed from a strategy to the assembler.
// Zero values mean "absent": empty sectionTitle, page 0.
type segment struct {
	content       string
	sectionTitle  string
	pageNumber    int
	overlapBefore bool
	overlapAfter  bool
}

// assemble turns ordered raw segments into the final Result. It assigns
// contiguous indices from 0, recomputes token counts from final content,
// derives word counts and overlap flags, and stamps ids and timestamps.
// It never re-derives sectionTitle or pageNumber: those come verbatim from
// the strategy.
func assemble(segs []segment, documentID string, strategy types.Strategy, counter token.Counter, started time.Time) types.Result {
	now := time.Now().UTC()
	chunks := make([]types.DocumentChunk, 0, len(segs))
	total := 0
	for _, seg := range segs {
		content := strings.TrimSpace(seg.content)
		if content == "" {
			continue
		}
		count := counter(content)
		total += count
		chunk := types.DocumentChunk{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			ChunkIndex: len(chunks),
			Content:    content,
			TokenCount: count,
			Strategy:   strategy,
			Metadata: types.ChunkMetadata{
				WordCount:        token.CountWords(content),
				HasOverlapBefore: seg.overlapBefore,
				HasOverlapAfter:  seg.overlapAfter,
			},
			CreatedAt: now,
		}
		if seg.sectionTitle != "" {
			title := seg.sectionTitle
			chunk.SectionTitle = &title
		}
		if seg.pageNumber > 0 {
			page := seg.pageNumber
			chunk.PageNumber = &page
		}
		chunks = append(chunks, chunk)
	}
	if len(chunks) == 0 {
		return types.Failure(types.CodeUnknownError, "chunker: no chunks produced from non-empty input", time.Since(started).Milliseconds())
	}
	// Edge chunks never carry overlap flags on their outer side.
	chunks[0].Metadata.HasOverlapBefore = false
	chunks[len(chunks)-1].Metadata.HasOverlapAfter = false
	return types.Result{
		Success:              true,
		Chunks:               chunks,
		TotalTokens:          total,
		ProcessingDurationMs: time.Since(started).Milliseconds(),
	}
}
