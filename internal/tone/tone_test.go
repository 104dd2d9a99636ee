package tone_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/factfinder/internal/tone"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected tone.Mood
	}{
		{"Positive keyword", "I love it", tone.Positive},
		{"No keywords", "completely different topic xyz", tone.Neutral},
		{"Punctuation only", "???!!!", tone.Neutral},
		{"Negative keywords", "this is stuck and buggy, hard to fix", tone.Frustrated},
		{"Case folded", "FINALLY it WORKS", tone.Positive},
		{"Balanced", "great, a bug", tone.Neutral},
		{"Substring inside word", "this is harder than I thought", tone.Frustrated},
		{"Empty", "", tone.Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tone.Classify(tt.query))
		})
	}
}

func TestScoreCountsEachKeywordOnce(t *testing.T) {
	c := tone.NewClassifier(tone.DefaultLexicon())

	// stuck, bug ("buggy"), hard, fix
	assert.Equal(t, -4, c.Score("this is stuck and buggy, hard to fix"))
	assert.Equal(t, 1, c.Score("love love love"))
	// "workable" contains "work", "nothing" contains "no"
	assert.Equal(t, 0, c.Score("nothing is workable"))
	assert.Equal(t, 2, c.Score("Yes, done"))
}

func TestClassifierCustomLexicon(t *testing.T) {
	lex := tone.Lexicon{Positive: []string{"Ship"}, Negative: []string{"rollback", ""}}
	c := tone.NewClassifier(lex)

	lex.Positive[0] = "rollback"

	assert.Equal(t, tone.Positive, c.Classify("ready to SHIP"))
	assert.Equal(t, tone.Frustrated, c.Classify("another rollback"))
	assert.Equal(t, tone.Neutral, c.Classify("nothing here"))
}

func TestFromScore(t *testing.T) {
	assert.Equal(t, tone.Positive, tone.FromScore(3))
	assert.Equal(t, tone.Frustrated, tone.FromScore(-1))
	assert.Equal(t, tone.Neutral, tone.FromScore(0))
}

func TestMoodLabels(t *testing.T) {
	assert.Equal(t, "POSITIVE", tone.Positive.String())
	assert.Equal(t, "FRUSTRATED", tone.Frustrated.String())
	assert.Equal(t, "NEUTRAL", tone.Neutral.String())
	assert.Equal(t, "Mood(9)", tone.Mood(9).String())

	m, err := tone.ParseMood(" frustrated ")
	require.NoError(t, err)
	assert.Equal(t, tone.Frustrated, m)

	_, err = tone.ParseMood("ANGRY")
	assert.Error(t, err)
}

func TestMoodJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Mood tone.Mood `json:"mood"`
	}{tone.Positive})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mood":"POSITIVE"}`, string(data))

	var out struct {
		Mood tone.Mood `json:"mood"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mood":"FRUSTRATED"}`), &out))
	assert.Equal(t, tone.Frustrated, out.Mood)

	assert.Error(t, json.Unmarshal([]byte(`{"mood":"SAD"}`), &out))
}
