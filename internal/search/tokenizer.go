package search

import (
	"strings"
)

// Normalize splits text on whitespace runs and reduces every word to its
// lower-cased ASCII letters and digits.
//
// A word made only of punctuation becomes the empty token. It is kept in the
// output so that it still counts toward the term-frequency vector.
func Normalize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		tokens = append(tokens, normalizeWord(field))
	}
	return tokens
}

func normalizeWord(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
