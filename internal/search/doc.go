// Package search implements the lexical matcher behind fact lookup.
//
// Text is normalized into lower-cased alphanumeric tokens, counted into a
// term-frequency vector and compared with cosine similarity. A Ranker walks
// the corpus once, line by line, and keeps the first line whose score is
// strictly higher than both AcceptanceThreshold and every earlier line.
//
// The substring similarity functions reproduce the older matching modes:
// with a score of 1 for a hit, the first matching line always wins.
package search
