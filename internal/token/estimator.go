package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RunesPerToken is the heuristic ratio between text length and model tokens.
// Roughly four characters per token holds for English prose across the
// OpenAI-family tokenizers; the estimate only needs to be consistent, not
// exact, so every chunking strategy measures budgets the same way.
const RunesPerToken = 4

// Counter maps text to an approximate model-token count. It must be
// referentially pure: no counters, no evicting caches, so concurrent callers
// never observe inconsistent counts. Implementations must return 0 for the
// empty string and be monotonic non-decreasing under concatenation.
type Counter func(text string) int

// CountTokens estimates how many model tokens text will consume.
// CountTokens("") == 0 and any non-empty trimmed text counts at least 1.
func CountTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + RunesPerToken - 1) / RunesPerToken
}

// TruncateToTokens returns a prefix of text whose estimated token count does
// not exceed maxTokens. Text already within budget is returned unchanged.
// The cut prefers the last word boundary inside the tail of the kept span so
// mid-word truncation is rare.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	if CountTokens(text) <= maxTokens {
		return text
	}
	limit := maxTokens * RunesPerToken
	runes := []rune(text)
	cut := limit
	// Back off to whitespace within a small window so words survive intact.
	for i := limit; i > limit-RunesPerToken*8 && i > 0; i-- {
		if unicode.IsSpace(runes[i-1]) {
			cut = i - 1
			break
		}
	}
	return strings.TrimRight(string(runes[:cut]), " \t\n")
}

// CountWords returns the number of whitespace-delimited words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
