package search

import (
	"iter"
	"sort"
)

const (
	// AcceptanceThreshold is the score a line must strictly exceed to match
	AcceptanceThreshold = 0.25

	// NoMatch is reported in place of a corpus line when nothing matched
	NoMatch = "No specific local data found."
)

// Match is the outcome of ranking a corpus against a query
type Match struct {
	Line  string
	Score float64
	Found bool
}

// Text returns the matched line, or the NoMatch sentinel.
func (m Match) Text() string {
	if !m.Found {
		return NoMatch
	}
	return m.Line
}

// Ranker scans a corpus linearly and keeps the best scoring line
type Ranker struct {
	Similarity SimilarityFunc
}

func NewRanker(similarity SimilarityFunc) *Ranker {
	if similarity == nil {
		similarity = Cosine
	}
	return &Ranker{Similarity: similarity}
}

// Rank returns the cosine best match for query among lines
func Rank(query string, lines iter.Seq[string]) Match {
	return NewRanker(Cosine).Rank(query, lines)
}

// Scorable reports whether a corpus line takes part in matching.
// Blank lines and lines starting with '#' are comments.
func Scorable(line string) bool {
	return line != "" && line[0] != '#'
}

// Rank scores every scorable line in order and returns the first line with
// the highest score above AcceptanceThreshold. The whole corpus is always
// scanned. When nothing clears the threshold the result is not Found and its
// Score is the threshold itself.
func (r *Ranker) Rank(query string, lines iter.Seq[string]) Match {
	score := r.similarity()(query)
	best := Match{Score: AcceptanceThreshold}

	for line := range lines {
		if !Scorable(line) {
			continue
		}
		if s := score(line); s > best.Score {
			best = Match{Line: line, Score: s, Found: true}
		}
	}
	return best
}

// Top returns up to k lines scoring above AcceptanceThreshold, best first.
// Equal scores keep corpus order. k <= 0 returns every accepted line.
func (r *Ranker) Top(query string, lines iter.Seq[string], k int) []Match {
	score := r.similarity()(query)
	var results []Match

	for line := range lines {
		if !Scorable(line) {
			continue
		}
		if s := score(line); s > AcceptanceThreshold {
			results = append(results, Match{Line: line, Score: s, Found: true})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > 0 && len(results) > k {
		return results[:k]
	}
	return results
}

func (r *Ranker) similarity() SimilarityFunc {
	if r == nil || r.Similarity == nil {
		return Cosine
	}
	return r.Similarity
}
