package search

import (
	"fmt"
	"strings"
)

// LineScorer scores one corpus line against a query that was prepared earlier
type LineScorer func(line string) float64

// SimilarityFunc prepares a query once and returns the scorer applied to
// every corpus line.
type SimilarityFunc func(query string) LineScorer

// Cosine scores lines by cosine similarity of term-frequency vectors.
// The query vector is built once.
func Cosine(query string) LineScorer {
	queryVector := Vectorize(query)
	return func(line string) float64 {
		return CosineSimilarity(queryVector, Vectorize(line))
	}
}

// ExactSubstring scores 1 when the line contains the raw query verbatim.
func ExactSubstring(query string) LineScorer {
	return func(line string) float64 {
		return containsScore(line, query)
	}
}

// FoldedSubstring scores 1 when the lower-cased line contains the
// lower-cased query.
func FoldedSubstring(query string) LineScorer {
	folded := strings.ToLower(query)
	return func(line string) float64 {
		return containsScore(strings.ToLower(line), folded)
	}
}

func containsScore(line, query string) float64 {
	if strings.Contains(line, query) {
		return 1
	}
	return 0
}

// SimilarityByName resolves a similarity function from its flag name:
// "cosine", "exact" or "folded".
func SimilarityByName(name string) (SimilarityFunc, error) {
	switch strings.ToLower(name) {
	case "", "cosine":
		return Cosine, nil
	case "exact":
		return ExactSubstring, nil
	case "folded":
		return FoldedSubstring, nil
	default:
		return nil, fmt.Errorf("unknown similarity %q", name)
	}
}
