package chunker

import (
	"strings"

	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// hybridToleranceFactor bounds how far a final hybrid chunk may exceed
// MaxTokens once overlap has been layered onto an already-budgeted unit.
// This is a pragmatic tuning constant, not an architectural invariant: the
// overlap budget is capped at MaxTokens/2 so the guard holds.
const hybridToleranceFactor = 1.5

// HybridChunker is the default production strategy: semantic grouping first,
// fixed re-splitting of any oversized unit second, and an overlap pass over
// the final ordered sequence last. Semantic boundaries are respected first;
// token-budget and overlap correctness are enforced second.
type HybridChunker struct {
	counter token.Counter
}

func (c *HybridChunker) Strategy() types.Strategy { return types.StrategyHybrid }

func (c *HybridChunker) Chunk(text, documentID string, opts types.Options) types.Result {
	return run(types.StrategyHybrid, c.counter, text, documentID, opts, c.segments)
}

func (c *HybridChunker) segments(text string, opts types.Options) []segment {
	base := semanticSegments(text, opts, c.counter)
	segs := make([]segment, 0, len(base))
	for _, seg := range base {
		if c.counter(seg.content) <= opts.MaxTokens {
			segs = append(segs, seg)
			continue
		}
		segs = append(segs, c.resplit(seg, opts)...)
	}
	applyOverlap(segs, c.counter, opts)
	return segs
}

// resplit breaks one oversized semantic unit into budget-conforming pieces,
// each inheriting the parent's section title and page number. With sentence
// preservation enabled, sentence grouping is tried first and only a single
// still-oversized sentence falls back to fixed windowing.
func (c *HybridChunker) resplit(seg segment, opts types.Options) []segment {
	var pieces []string
	if opts.PreserveSentences {
		for _, group := range groupSentences(SplitSentences(seg.content), c.counter, opts.MaxTokens) {
			if c.counter(group) > opts.MaxTokens {
				pieces = append(pieces, windowPieces(group, c.counter, opts)...)
				continue
			}
			pieces = append(pieces, group)
		}
	}
	if len(pieces) == 0 {
		pieces = windowPieces(seg.content, c.counter, opts)
	}
	out := make([]segment, len(pieces))
	for i, p := range pieces {
		out[i] = segment{content: p, sectionTitle: seg.sectionTitle, pageNumber: seg.pageNumber}
	}
	return out
}

// windowPieces applies the fixed windowing walk without overlap; overlap for
// hybrid chunks is added once, across the final sequence. A sub-floor tail
// piece is folded into its neighbor only when the result stays within
// budget: for hybrid the budget outranks the floor, or the overlap pass
// could push a merged tail past the tolerance guard.
func windowPieces(text string, counter token.Counter, opts types.Options) []string {
	wins := splitFixedWindows(strings.Fields(text), counter, opts.MaxTokens, 0, 0)
	pieces := make([]string, len(wins))
	for i, w := range wins {
		pieces[i] = strings.Join(w.words, " ")
	}
	if n := len(pieces); n >= 2 && counter(pieces[n-1]) < opts.MinTokens {
		merged := pieces[n-2] + " " + pieces[n-1]
		if counter(merged) <= opts.MaxTokens {
			pieces[n-2] = merged
			pieces = pieces[:n-1]
		}
	}
	return pieces
}

// groupSentences greedily merges consecutive sentences up to the budget.
func groupSentences(sentences []string, counter token.Counter, maxTokens int) []string {
	var groups []string
	var cur []string
	curTokens := 0
	for _, s := range sentences {
		cost := counter(s + " ")
		if len(cur) > 0 && curTokens+cost > maxTokens {
			groups = append(groups, strings.Join(cur, " "))
			cur = nil
			curTokens = 0
		}
		cur = append(cur, s)
		curTokens += cost
	}
	if len(cur) > 0 {
		groups = append(groups, strings.Join(cur, " "))
	}
	return groups
}

// applyOverlap prefixes the trailing words of chunk i onto chunk i+1 so
// adjacent chunks share context. Tails are computed from the base contents
// before any prefixing so overlap never cascades.
func applyOverlap(segs []segment, counter token.Counter, opts types.Options) {
	if opts.OverlapTokens <= 0 || len(segs) < 2 {
		return
	}
	budget := opts.OverlapTokens
	if limit := opts.MaxTokens / 2; budget > limit {
		budget = limit
	}
	tails := make([]string, len(segs))
	for i := 0; i < len(segs)-1; i++ {
		words, _ := trailingWords(strings.Fields(segs[i].content), counter, budget)
		tails[i] = strings.Join(words, " ")
	}
	for i := 1; i < len(segs); i++ {
		if tails[i-1] == "" {
			continue
		}
		segs[i].content = tails[i-1] + " " + segs[i].content
		segs[i].overlapBefore = true
		segs[i-1].overlapAfter = true
	}
}
