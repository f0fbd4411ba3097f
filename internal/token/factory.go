package token

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by CounterFromEnv
const (
	EnvTokenizer         = "DOCFOLD_TOKENIZER"
	EnvTokenizerEncoding = "DOCFOLD_TOKENIZER_ENCODING"
)

// Tokenizer names accepted in DOCFOLD_TOKENIZER
const (
	TokenizerHeuristic = "heuristic"
	TokenizerTiktoken  = "tiktoken"
)

// CounterFromEnv returns the Counter selected by DOCFOLD_TOKENIZER.
// "tiktoken" loads a real BPE tokenizer (encoding from
// DOCFOLD_TOKENIZER_ENCODING, cl100k_base when unset). Unset or
// "heuristic" returns a nil Counter, which chunker constructors treat
// as the default CountTokens estimate.
func CounterFromEnv() (Counter, error) {
	name := strings.ToLower(os.Getenv(EnvTokenizer))
	switch name {
	case "", TokenizerHeuristic:
		return nil, nil
	case TokenizerTiktoken:
		return NewTiktokenCounter(os.Getenv(EnvTokenizerEncoding))
	default:
		return nil, fmt.Errorf("token: unknown tokenizer %q", name)
	}
}

// DetectTokenizer returns the tokenizer name CounterFromEnv would select
func DetectTokenizer() string {
	name := strings.ToLower(os.Getenv(EnvTokenizer))
	if name == "" {
		return TokenizerHeuristic
	}
	return name
}
