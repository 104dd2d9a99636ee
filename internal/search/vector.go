package search

import (
	"math"
)

// TermVector maps a normalized token to its number of occurrences in a text
type TermVector map[string]int

// Vectorize builds the term-frequency vector of text
func Vectorize(text string) TermVector {
	tokens := Normalize(text)
	vector := make(TermVector, len(tokens))
	for _, token := range tokens {
		vector[token]++
	}
	return vector
}

// Norm returns the Euclidean length of the vector
func (v TermVector) Norm() float64 {
	var sum int
	for _, count := range v {
		sum += count * count
	}
	return math.Sqrt(float64(sum))
}

// CosineSimilarity calculates the cosine similarity between two term vectors.
// It is 0 when either vector is empty.
func CosineSimilarity(a, b TermVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dotProduct int
	for token, count := range a {
		dotProduct += count * b[token]
	}
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return float64(dotProduct) / (normA * normB)
}
