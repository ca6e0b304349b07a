package contract

import (
	"strings"
	"unicode/utf8"
)

// SnippetWindow is the number of characters kept around a match, split
// evenly either side of the match offset.
const SnippetWindow = 160

// ExtractSnippet returns the whitespace-collapsed window of SnippetWindow
// characters around byte offset index. The window is clipped to the text.
// Offsets inside a multi-byte rune snap back to the start of that rune.
func ExtractSnippet(text string, index int) string {
	if index < 0 {
		index = 0
	}
	if index > len(text) {
		index = len(text)
	}
	for index > 0 && index < len(text) && !utf8.RuneStart(text[index]) {
		index--
	}
	half := SnippetWindow / 2

	start := index
	for n := 0; n < half && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := index
	for n := 0; n < half && end < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return CollapseWhitespace(text[start:end])
}

// CollapseWhitespace folds every whitespace run into one space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt returns the first limit characters of text with whitespace
// collapsed.
func Excerpt(text string, limit int) string {
	return CollapseWhitespace(Truncate(text, limit))
}

// Truncate returns at most limit characters of text. Whitespace is left
// untouched.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
