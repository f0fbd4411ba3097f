package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

// UnitKind classifies a structural unit found by the boundary detector.
type UnitKind string

const (
	UnitParagraph UnitKind = "paragraph"
	UnitHeading   UnitKind = "heading"
)

// Unit is one structural span of the input text. The detector only
// annotates; it never chunks.
type Unit struct {
	Kind   UnitKind
	Text   string
	Offset int    // rune offset of the unit within the original text
	Title  string // extracted title, headings only
	Page   int    // 1-based page number, 0 when the text carries no page marks
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n+`)

const (
	maxHeadingWords = 8
	maxHeadingRunes = 60
)

// DetectUnits locates paragraph and heading boundaries in text. Page
// numbers are derived from form-feed characters, which document extractors
// emit between pages; text without form feeds yields units with Page == 0.
//
// Text with no paragraph breaks yields a single paragraph unit spanning the
// whole buffer.
func DetectUnits(text string) []Unit {
	var units []Unit
	pages := strings.Split(text, "\f")
	paged := len(pages) > 1
	offset := 0
	for pi, pageText := range pages {
		page := 0
		if paged {
			page = pi + 1
		}
		units = appendPageUnits(units, pageText, offset, page)
		offset += len([]rune(pageText)) + 1 // +1 for the form feed
	}
	return units
}

// appendPageUnits splits one page into paragraph and heading units.
func appendPageUnits(units []Unit, text string, base, page int) []Unit {
	locs := paragraphBreak.FindAllStringIndex(text, -1)
	start := 0
	for _, loc := range locs {
		units = appendBlockUnits(units, text[start:loc[0]], base+runeLen(text[:start]), page)
		start = loc[1]
	}
	return appendBlockUnits(units, text[start:], base+runeLen(text[:start]), page)
}

// appendBlockUnits emits the units for one blank-line-delimited block. A
// block whose first line is a heading produces a heading unit followed by a
// paragraph unit for the remaining lines.
func appendBlockUnits(units []Unit, block string, offset, page int) []Unit {
	trimmed := strings.TrimSpace(block)
	if trimmed == "" {
		return units
	}
	first, rest, _ := strings.Cut(trimmed, "\n")
	if title, ok := HeadingTitle(first); ok {
		units = append(units, Unit{
			Kind:   UnitHeading,
			Text:   strings.TrimSpace(first),
			Offset: offset,
			Title:  title,
			Page:   page,
		})
		rest = strings.TrimSpace(rest)
		if rest != "" {
			units = append(units, Unit{Kind: UnitParagraph, Text: rest, Offset: offset, Page: page})
		}
		return units
	}
	return append(units, Unit{Kind: UnitParagraph, Text: trimmed, Offset: offset, Page: page})
}

// HeadingTitle reports whether line looks like a section heading and, if so,
// returns its title text. Two conventions are recognized: a leading
// markdown-style '#' marker, and a short all-caps line. Both are heuristics
// and will misfire on unusual documents; that is accepted behavior.
func HeadingTitle(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(line, "#") {
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if title == "" {
			return "", false
		}
		return title, true
	}
	return line, isAllCapsHeading(line)
}

func isAllCapsHeading(line string) bool {
	if runeLen(line) > maxHeadingRunes || len(strings.Fields(line)) > maxHeadingWords {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// SplitSentences breaks text at sentence boundaries: ASCII terminal
// punctuation followed by whitespace and an upper-case letter or digit, or
// end of text. Abbreviations are not special-cased.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume trailing closers: quotes, parens, repeated punctuation.
		end := i + 1
		for end < len(runes) && isCloser(runes[end]) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue // mid-token period, e.g. "3.14" or "v1.2"
		}
		next := end
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		if next < len(runes) && !unicode.IsUpper(runes[next]) && !unicode.IsDigit(runes[next]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = next
		i = next - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '.', '!', '?':
		return true
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
