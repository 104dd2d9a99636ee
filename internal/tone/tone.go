// Package tone labels the emotional tone of a query with keyword heuristics.
//
// Keywords are matched as substrings of the case-folded query, not as whole
// words: "harder" contains "hard" and "workable" contains "work". Each
// positive keyword present adds one to the score, each negative keyword
// present subtracts one.
package tone

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Mood is the label derived from a keyword score
type Mood int

const (
	Neutral Mood = iota
	Positive
	Frustrated
)

var moodNames = map[Mood]string{
	Neutral:    "NEUTRAL",
	Positive:   "POSITIVE",
	Frustrated: "FRUSTRATED",
}

func (m Mood) String() string {
	if name, ok := moodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mood(%d)", int(m))
}

// ParseMood maps a label such as "POSITIVE" back to its Mood
func ParseMood(label string) (Mood, error) {
	upper := strings.ToUpper(strings.TrimSpace(label))
	for mood, name := range moodNames {
		if name == upper {
			return mood, nil
		}
	}
	return Neutral, fmt.Errorf("tone: unknown mood %q", label)
}

func (m Mood) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Mood) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseMood(label)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FromScore maps a keyword score to its label
func FromScore(score int) Mood {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Frustrated
	default:
		return Neutral
	}
}

// Lexicon holds the keyword vocabularies. Treat it as read-only once built.
type Lexicon struct {
	Positive []string
	Negative []string
}

// DefaultLexicon returns a fresh copy of the built-in keyword lists
func DefaultLexicon() Lexicon {
	return Lexicon{
		Positive: []string{"happy", "great", "cool", "love", "yes", "work", "finally", "done"},
		Negative: []string{"error", "bad", "stop", "no", "fix", "stuck", "hard", "bug"},
	}
}

// Classifier scores queries against a fixed Lexicon
type Classifier struct {
	lexicon Lexicon
}

// NewClassifier copies lex so later changes by the caller have no effect
func NewClassifier(lex Lexicon) *Classifier {
	return &Classifier{
		lexicon: Lexicon{
			Positive: foldAll(lex.Positive),
			Negative: foldAll(lex.Negative),
		},
	}
}

var defaultClassifier = NewClassifier(DefaultLexicon())

// Classify labels raw with the default lexicon
func Classify(raw string) Mood {
	return defaultClassifier.Classify(raw)
}

// Classify labels raw with the classifier's lexicon
func (c *Classifier) Classify(raw string) Mood {
	return FromScore(c.Score(raw))
}

// Score returns positive hits minus negative hits
func (c *Classifier) Score(raw string) int {
	text := fold(raw)
	score := 0
	for _, word := range c.lexicon.Positive {
		if strings.Contains(text, word) {
			score++
		}
	}
	for _, word := range c.lexicon.Negative {
		if strings.Contains(text, word) {
			score--
		}
	}
	return score
}

// Casers keep state, so a new one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = fold(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
