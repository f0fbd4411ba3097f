package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens_Empty(t *testing.T) {
	assert.Equal(t, 0, CountTokens(""))
}

func TestCountTokens_NonEmpty(t *testing.T) {
	assert.Equal(t, 1, CountTokens("a"))
	assert.Equal(t, 1, CountTokens("word"))
	assert.Equal(t, 2, CountTokens("words"))
	assert.Greater(t, CountTokens("the quick brown fox"), 0)
}

func TestCountTokens_Monotonic(t *testing.T) {
	base := "some base text"
	prev := CountTokens(base)
	for _, add := range []string{" ", "x", " another clause", strings.Repeat("y", 100)} {
		base += add
		cur := CountTokens(base)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestCountTokens_ProportionalToLength(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := CountTokens(text)
	// 500 runes at ~4 runes per token
	assert.InDelta(t, 125, got, 2)
}

func TestTruncateToTokens_NoOp(t *testing.T) {
	text := "short text"
	assert.Equal(t, text, TruncateToTokens(text, 100))
}

func TestTruncateToTokens_Truncates(t *testing.T) {
	text := strings.Repeat("alpha beta gamma ", 50)
	out := TruncateToTokens(text, 20)
	assert.LessOrEqual(t, CountTokens(out), 20)
	assert.True(t, strings.HasPrefix(text, out))
	// Cut should land on a word boundary, not mid-word.
	rest := strings.TrimPrefix(text, out)
	assert.True(t, strings.HasPrefix(rest, " ") || rest == "")
}

func TestTruncateToTokens_ZeroBudget(t *testing.T) {
	assert.Equal(t, "", TruncateToTokens("anything", 0))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t"))
	assert.Equal(t, 3, CountWords("one two three"))
	assert.Equal(t, 3, CountWords("  one\ntwo\t three "))
}
