package advisor

import (
	"regexp"
	"strings"
)

const minDescriptionLength = 20

// incompleteSentencePatterns reject generations that were cut off mid
// thought. The set is fixed; loosening it silently changes what farmers see.
var incompleteSentencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmeans\s*$`),
	regexp.MustCompile(`(?i)\bis\s+\d+(\.\d+)?\s*$`),
	regexp.MustCompile(`(?i)\b(and|or|but|the|a|an|to|of|with|for|such as)\s*$`),
	regexp.MustCompile(`[,:;\-]\s*$`),
}

var markdownMarkers = strings.NewReplacer(
	"**", "",
	"__", "",
	"```", "",
	"`", "",
	"*", "",
	"_", " ",
	"#", "",
)

// SanitizeDescription normalizes a generated description: markdown markers
// stripped, text truncated at a literal ellipsis, whitespace collapsed.
func SanitizeDescription(text string) string {
	text = markdownMarkers.Replace(text)

	if idx := strings.Index(text, "..."); idx >= 0 {
		text = text[:idx]
	}

	return strings.Join(strings.Fields(text), " ")
}

// ValidDescription reports whether a sanitized description is safe to show:
// long enough, a complete sentence, and English (no Devanagari codepoints).
func ValidDescription(text string) bool {
	if len(text) < minDescriptionLength {
		return false
	}

	if containsDevanagari(text) {
		return false
	}

	for _, pattern := range incompleteSentencePatterns {
		if pattern.MatchString(text) {
			return false
		}
	}

	return true
}

// containsDevanagari is the non-English heuristic: any codepoint in the
// Devanagari block (U+0900..U+097F) flags the text.
func containsDevanagari(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}
