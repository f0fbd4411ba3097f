package chunker

import (
	"strings"

	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// SemanticChunker splits text at paragraph and section boundaries, greedily
// merging consecutive units up to the token ceiling. It alone does not
// guarantee a hard ceiling: a single paragraph larger than MaxTokens is
// emitted as its own oversized chunk. The hybrid strategy corrects that.
type SemanticChunker struct {
	counter token.Counter
}

func (c *SemanticChunker) Strategy() types.Strategy { return types.StrategySemantic }

func (c *SemanticChunker) Chunk(text, documentID string, opts types.Options) types.Result {
	return run(types.StrategySemantic, c.counter, text, documentID, opts, c.segments)
}

func (c *SemanticChunker) segments(text string, opts types.Options) []segment {
	return semanticSegments(text, opts, c.counter)
}

// semanticSegments is the paragraph-grouping pass shared by the semantic and
// hybrid strategies.
func semanticSegments(text string, opts types.Options, counter token.Counter) []segment {
	units := DetectUnits(text)
	if !opts.PreserveParagraphs {
		units = sentenceUnits(units)
	}

	var segs []segment
	var parts []string
	curTokens := 0
	curTitle := ""
	curPage := 0

	sepCost := counter("\n\n")
	if sepCost < 1 {
		sepCost = 1
	}

	flush := func() {
		if len(parts) == 0 {
			return
		}
		segs = append(segs, segment{
			content:      strings.Join(parts, "\n\n"),
			sectionTitle: curTitle,
			pageNumber:   curPage,
		})
		parts = nil
		curTokens = 0
	}

	section := ""       // active section title, set by the last heading seen
	pendingHead := ""   // heading text waiting to be attached to its body
	pendingPage := 0

	for _, u := range units {
		if u.Kind == UnitHeading {
			// A chunk never spans a section boundary.
			flush()
			section = u.Title
			pendingHead = u.Text
			pendingPage = u.Page
			continue
		}

		utext := u.Text
		upage := u.Page
		if pendingHead != "" {
			// Keep a short heading attached to the body that follows it.
			utext = pendingHead + "\n\n" + utext
			if pendingPage > 0 {
				upage = pendingPage
			}
			pendingHead = ""
		}
		utokens := counter(utext)

		if len(parts) > 0 && curTokens+sepCost+utokens > opts.MaxTokens {
			flush()
		}
		if len(parts) == 0 {
			curTitle = section
			curPage = upage
		} else {
			curTokens += sepCost
		}
		parts = append(parts, utext)
		curTokens += utokens

		// An oversized unit stands alone so neighbors don't merge into it.
		if utokens > opts.MaxTokens {
			flush()
		}
	}

	// Heading at end of text with no body becomes its own chunk.
	if pendingHead != "" {
		flush()
		segs = append(segs, segment{content: pendingHead, sectionTitle: section, pageNumber: pendingPage})
	}
	flush()

	return mergeShortTail(segs, counter, opts.MinTokens)
}

// mergeShortTail folds a trailing fragment below the token floor into its
// preceding chunk rather than emitting it alone.
func mergeShortTail(segs []segment, counter token.Counter, minTokens int) []segment {
	if minTokens <= 0 || len(segs) < 2 {
		return segs
	}
	last := len(segs) - 1
	if counter(segs[last].content) >= minTokens {
		return segs
	}
	segs[last-1].content += "\n\n" + segs[last].content
	return segs[:last]
}

// sentenceUnits re-splits paragraph units into per-sentence units, used when
// paragraph preservation is disabled. Headings pass through untouched.
func sentenceUnits(units []Unit) []Unit {
	out := make([]Unit, 0, len(units))
	for _, u := range units {
		if u.Kind != UnitParagraph {
			out = append(out, u)
			continue
		}
		for _, s := range SplitSentences(u.Text) {
			out = append(out, Unit{Kind: UnitParagraph, Text: s, Offset: u.Offset, Page: u.Page})
		}
	}
	return out
}
