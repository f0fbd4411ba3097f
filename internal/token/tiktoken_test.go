package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadTiktoken returns the cl100k_base counter, skipping when the encoding
// tables cannot be loaded (tiktoken-go fetches them on first use, so an
// offline environment without a populated cache cannot run these).
func loadTiktoken(t *testing.T) Counter {
	t.Helper()
	counter, err := NewTiktokenCounter("")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	return counter
}

func TestNewTiktokenCounter(t *testing.T) {
	counter := loadTiktoken(t)

	assert.Equal(t, 0, counter(""))
	assert.Equal(t, 2, counter("hello world"))
	assert.Positive(t, counter("a"))

	// Monotonic under concatenation, same contract as the heuristic.
	a := "The ingestion pipeline reads documents from disk."
	b := " Each document is chunked before embedding."
	assert.GreaterOrEqual(t, counter(a+b), counter(a))
}

func TestNewTiktokenCounter_UnknownEncoding(t *testing.T) {
	_, err := NewTiktokenCounter("no-such-encoding")
	require.Error(t, err)
}

func TestCounterFromEnv(t *testing.T) {
	t.Run("default is heuristic", func(t *testing.T) {
		t.Setenv(EnvTokenizer, "")
		counter, err := CounterFromEnv()
		require.NoError(t, err)
		assert.Nil(t, counter)
	})

	t.Run("heuristic by name", func(t *testing.T) {
		t.Setenv(EnvTokenizer, "heuristic")
		counter, err := CounterFromEnv()
		require.NoError(t, err)
		assert.Nil(t, counter)
	})

	t.Run("unknown name is an error", func(t *testing.T) {
		t.Setenv(EnvTokenizer, "bogus")
		_, err := CounterFromEnv()
		require.Error(t, err)
	})

	t.Run("tiktoken", func(t *testing.T) {
		t.Setenv(EnvTokenizer, "tiktoken")
		t.Setenv(EnvTokenizerEncoding, "")
		counter, err := CounterFromEnv()
		if err != nil {
			t.Skipf("tiktoken encoding unavailable: %v", err)
		}
		require.NotNil(t, counter)
		assert.Equal(t, 0, counter(""))
		assert.Positive(t, counter("hello world"))
	})
}

func TestDetectTokenizer(t *testing.T) {
	t.Setenv(EnvTokenizer, "")
	assert.Equal(t, TokenizerHeuristic, DetectTokenizer())

	t.Setenv(EnvTokenizer, "TikToken")
	assert.Equal(t, TokenizerTiktoken, DetectTokenizer())
}
