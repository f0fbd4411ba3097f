package types

// Default chunking configuration.
const (
	DefaultMaxTokens     = 512
	DefaultOverlapTokens = 50
	DefaultMinTokens     = 50
)

// Options configures a single chunking call. It is passed by value; the
// engine holds no global mutable state.
type Options struct {
	MaxTokens          int      `json:"max_tokens"`
	OverlapTokens      int      `json:"overlap_tokens"`
	MinTokens          int      `json:"min_tokens"`
	PreserveParagraphs bool     `json:"preserve_paragraphs"`
	PreserveSentences  bool     `json:"preserve_sentences"`
	Strategy           Strategy `json:"strategy"`
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MaxTokens:          DefaultMaxTokens,
		OverlapTokens:      DefaultOverlapTokens,
		MinTokens:          DefaultMinTokens,
		PreserveParagraphs: true,
		PreserveSentences:  true,
		Strategy:           StrategyHybrid,
	}
}

// Normalized returns a copy of o with out-of-range values replaced by safe
// ones. Invalid configuration is corrected, not rejected: the only failure
// codes the engine surfaces are EMPTY_TEXT and UNKNOWN_ERROR.
func (o Options) Normalized() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.MinTokens < 0 {
		o.MinTokens = 0
	}
	if o.MinTokens > o.MaxTokens {
		o.MinTokens = o.MaxTokens / 2
	}
	if o.OverlapTokens < 0 {
		o.OverlapTokens = 0
	}
	// Overlap must stay below the budget or chunking cannot make progress.
	if o.OverlapTokens >= o.MaxTokens {
		o.OverlapTokens = o.MaxTokens / 4
	}
	if !o.Strategy.Valid() {
		o.Strategy = StrategyHybrid
	}
	return o
}
