package chunker

import (
	"strings"

	"github.com/docfold/docfold-mcp/internal/token"
	"github.com/docfold/docfold-mcp/pkg/types"
)

// FixedChunker splits text into token-bounded word windows at approximately
// fixed intervals, ignoring document structure. Consecutive windows share a
// trailing/leading span of approximately OverlapTokens. Used directly for
// the "fixed" strategy and as the fallback splitter inside the hybrid one.
type FixedChunker struct {
	counter token.Counter
}

func (c *FixedChunker) Strategy() types.Strategy { return types.StrategyFixed }

func (c *FixedChunker) Chunk(text, documentID string, opts types.Options) types.Result {
	return run(types.StrategyFixed, c.counter, text, documentID, opts, c.segments)
}

func (c *FixedChunker) segments(text string, opts types.Options) []segment {
	wins := splitFixedWindows(strings.Fields(text), c.counter, opts.MaxTokens, opts.OverlapTokens, opts.MinTokens)
	segs := make([]segment, len(wins))
	for i, win := range wins {
		segs[i] = segment{
			content:       strings.Join(win.words, " "),
			overlapBefore: win.overlapWords > 0,
		}
		if i > 0 && win.overlapWords > 0 {
			segs[i-1].overlapAfter = true
		}
	}
	return segs
}

// window is one fixed-size span of words. The first overlapWords entries
// were copied from the tail of the previous window.
type window struct {
	words        []string
	overlapWords int
}

// splitFixedWindows walks words in order, accumulating until adding the next
// word would exceed maxTokens, then emits a window and seeds the next one
// with overlapTokens worth of trailing words. A trailing fragment below
// minTokens is absorbed into the window being closed instead of emitted
// alone, so the final window may carry up to maxTokens+minTokens.
//
// Word cost is measured as counter(word+" ") so that the joined window never
// counts more tokens than the accumulated estimate.
func splitFixedWindows(words []string, counter token.Counter, maxTokens, overlapTokens, minTokens int) []window {
	if len(words) == 0 {
		return nil
	}
	words = splitLongWords(words, counter, maxTokens)
	var wins []window
	cur := window{}
	curTokens := 0
	for i := 0; i < len(words); i++ {
		cost := counter(words[i] + " ")
		if curTokens+cost > maxTokens && len(cur.words) > cur.overlapWords {
			if remainingTokens(words[i:], counter, minTokens) < minTokens {
				// Absorb the short tail rather than emit it alone.
				cur.words = append(cur.words, words[i:]...)
				return append(wins, cur)
			}
			wins = append(wins, cur)
			overlap, overlapCost := trailingWords(cur.words, counter, overlapTokens)
			cur = window{words: append([]string(nil), overlap...), overlapWords: len(overlap)}
			curTokens = overlapCost
		}
		cur.words = append(cur.words, words[i])
		curTokens += cost
	}
	if len(cur.words) > cur.overlapWords || len(wins) == 0 {
		wins = append(wins, cur)
	}
	return wins
}

// remainingTokens sums word costs up to the floor; once the floor is reached
// the exact total no longer matters.
func remainingTokens(words []string, counter token.Counter, floor int) int {
	total := 0
	for _, w := range words {
		total += counter(w + " ")
		if total >= floor {
			break
		}
	}
	return total
}

// trailingWords returns the longest suffix of words whose accumulated cost
// fits within budget, along with that cost. It never returns all of words:
// the next window must make progress past the overlap.
func trailingWords(words []string, counter token.Counter, budget int) ([]string, int) {
	if budget <= 0 {
		return nil, 0
	}
	total := 0
	start := len(words)
	for start > 1 {
		cost := counter(words[start-1] + " ")
		if total+cost > budget {
			break
		}
		total += cost
		start--
	}
	if start == len(words) {
		return nil, 0
	}
	return words[start:], total
}

// splitLongWords hard-splits any single word whose token count alone exceeds
// maxTokens, so even pathological unbroken strings conform to the budget.
func splitLongWords(words []string, counter token.Counter, maxTokens int) []string {
	out := words[:0:0]
	for _, w := range words {
		if counter(w) <= maxTokens {
			out = append(out, w)
			continue
		}
		runes := []rune(w)
		for len(runes) > 0 {
			n := maxTokens * token.RunesPerToken
			if n > len(runes) {
				n = len(runes)
			}
			for n > 1 && counter(string(runes[:n])) > maxTokens {
				n--
			}
			out = append(out, string(runes[:n]))
			runes = runes[n:]
		}
	}
	return out
}
