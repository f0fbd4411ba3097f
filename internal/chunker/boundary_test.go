package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectUnits_NoParagraphBreaks(t *testing.T) {
	text := "a single run of text with no blank lines at all"
	units := DetectUnits(text)

	require.Len(t, units, 1)
	assert.Equal(t, UnitParagraph, units[0].Kind)
	assert.Equal(t, text, units[0].Text)
	assert.Equal(t, 0, units[0].Page)
}

func TestDetectUnits_Paragraphs(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph here\n\n\nthird one"
	units := DetectUnits(text)

	require.Len(t, units, 3)
	assert.Equal(t, "first paragraph here", units[0].Text)
	assert.Equal(t, "second paragraph here", units[1].Text)
	assert.Equal(t, "third one", units[2].Text)
}

func TestDetectUnits_MarkdownHeading(t *testing.T) {
	text := "## Getting Started\n\nInstall the binary and run it."
	units := DetectUnits(text)

	require.Len(t, units, 2)
	assert.Equal(t, UnitHeading, units[0].Kind)
	assert.Equal(t, "Getting Started", units[0].Title)
	assert.Equal(t, UnitParagraph, units[1].Kind)
}

func TestDetectUnits_HeadingAttachedToBody(t *testing.T) {
	// Heading and body inside the same block, no blank line between.
	text := "# Overview\nThe engine splits documents."
	units := DetectUnits(text)

	require.Len(t, units, 2)
	assert.Equal(t, UnitHeading, units[0].Kind)
	assert.Equal(t, "Overview", units[0].Title)
	assert.Equal(t, "The engine splits documents.", units[1].Text)
}

func TestDetectUnits_AllCapsHeading(t *testing.T) {
	text := "TERMS OF SERVICE\n\nBy using this product you agree to the following."
	units := DetectUnits(text)

	require.Len(t, units, 2)
	assert.Equal(t, UnitHeading, units[0].Kind)
	assert.Equal(t, "TERMS OF SERVICE", units[0].Title)
}

func TestDetectUnits_AllCapsBodyNotHeading(t *testing.T) {
	// Long shouting lines are body text, not headings.
	text := "THIS IS A VERY LONG ALL CAPS LINE THAT GOES WELL PAST THE HEADING LENGTH LIMIT FOR SURE\n\nnormal text"
	units := DetectUnits(text)

	require.Len(t, units, 2)
	assert.Equal(t, UnitParagraph, units[0].Kind)
}

func TestDetectUnits_PageNumbers(t *testing.T) {
	text := "content of page one\fcontent of page two\n\nmore page two\fpage three"
	units := DetectUnits(text)

	require.Len(t, units, 4)
	assert.Equal(t, 1, units[0].Page)
	assert.Equal(t, 2, units[1].Page)
	assert.Equal(t, 2, units[2].Page)
	assert.Equal(t, 3, units[3].Page)
}

func TestDetectUnits_NoFormFeedNoPages(t *testing.T) {
	units := DetectUnits("plain text\n\nanother paragraph")
	for _, u := range units {
		assert.Equal(t, 0, u.Page)
	}
}

func TestHeadingTitle(t *testing.T) {
	tests := []struct {
		line  string
		title string
		ok    bool
	}{
		{"# Introduction", "Introduction", true},
		{"### Deeply Nested", "Deeply Nested", true},
		{"#", "", false},
		{"SECTION ONE", "SECTION ONE", true},
		{"A normal sentence here", "", false},
		{"1234 5678", "", false}, // digits only, no letters
		{"", "", false},
	}
	for _, tt := range tests {
		title, ok := HeadingTitle(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		if tt.ok {
			assert.Equal(t, tt.title, title, "line %q", tt.line)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	text := "The project started small. It grew quickly! Did it scale? Yes."
	sentences := SplitSentences(text)

	require.Len(t, sentences, 4)
	assert.Equal(t, "The project started small.", sentences[0])
	assert.Equal(t, "It grew quickly!", sentences[1])
	assert.Equal(t, "Did it scale?", sentences[2])
	assert.Equal(t, "Yes.", sentences[3])
}

func TestSplitSentences_DecimalNotBoundary(t *testing.T) {
	sentences := SplitSentences("The ratio is 3.14 across runs. Nothing else changed.")
	require.Len(t, sentences, 2)
	assert.Contains(t, sentences[0], "3.14")
}

func TestSplitSentences_NoTerminalPunctuation(t *testing.T) {
	sentences := SplitSentences("just a fragment with no ending")
	require.Len(t, sentences, 1)
}

func TestSplitSentences_LowercaseContinuation(t *testing.T) {
	// "e.g. something" style continuations should not split.
	sentences := SplitSentences("We use heuristics, e.g. simple rules that mostly work. They fail sometimes.")
	require.Len(t, sentences, 2)
}
