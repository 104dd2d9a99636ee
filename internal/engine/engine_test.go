package engine_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/knowledge-engine/factfinder/internal/config"
	"github.com/knowledge-engine/factfinder/internal/corpus"
	"github.com/knowledge-engine/factfinder/internal/engine"
	"github.com/knowledge-engine/factfinder/internal/provider"
	"github.com/knowledge-engine/factfinder/internal/search"
	"github.com/knowledge-engine/factfinder/internal/tone"
	"github.com/knowledge-engine/factfinder/internal/websearch"
)

type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Generate(ctx context.Context, prompt provider.Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLMProvider) Name() string {
	return "mock"
}

type MockWebSearcher struct {
	mock.Mock
}

func (m *MockWebSearcher) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	args := m.Called(ctx, query)
	results, _ := args.Get(0).([]websearch.Result)
	return results, args.Error(1)
}

type failingSource struct{}

func (failingSource) Lines(ctx context.Context) (iter.Seq[string], error) {
	return nil, errors.New("disk on fire")
}

func (failingSource) Name() string { return "failing" }

func newEngine(lines []string, opts ...engine.Option) *engine.Engine {
	logger, _ := test.NewNullLogger()
	return engine.NewEngine(corpus.NewStaticSource(lines...), logrus.NewEntry(logger), opts...)
}

var scenarioCorpus = []string{
	"I love debugging late at night",
	"# comment",
	"",
	"The build finally passed",
}

func TestAnswerScenarios(t *testing.T) {
	tests := []struct {
		name     string
		corpus   []string
		query    string
		expected string
	}{
		{"Best line and positive mood", scenarioCorpus, "I love it", "I love debugging late at night | POSITIVE"},
		{"No match", []string{"Random unrelated text about cooking"}, "completely different topic xyz", "No specific local data found. | NEUTRAL"},
		{"Frustrated regardless of match", scenarioCorpus, "this is stuck and buggy, hard to fix", "No specific local data found. | FRUSTRATED"},
		{"Comment-only corpus", []string{"# only", "", "#comments"}, "I love it", "No specific local data found. | POSITIVE"},
		{"Punctuation query", scenarioCorpus, "???!!!", "No specific local data found. | NEUTRAL"},
		{"Empty query", scenarioCorpus, "", "No specific local data found. | NEUTRAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(tt.corpus)
			assert.Equal(t, tt.expected, e.Answer(context.Background(), tt.query).String())
		})
	}
}

func TestAnswerCommentOnlyScoreIsFloor(t *testing.T) {
	e := newEngine([]string{"# a", ""})

	res := e.Answer(context.Background(), "anything at all")

	assert.False(t, res.Match.Found)
	assert.Equal(t, search.AcceptanceThreshold, res.Match.Score)
}

func TestAnswerUnreadableCorpus(t *testing.T) {
	logger, hook := test.NewNullLogger()
	e := engine.NewEngine(failingSource{}, logrus.NewEntry(logger))

	res := e.Answer(context.Background(), "I love it")

	assert.Equal(t, "No specific local data found. | POSITIVE", res.String())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestAnswerMissingFile(t *testing.T) {
	src := corpus.NewFileSource(filepath.Join(t.TempDir(), "knowledge.txt"), nil)
	e := engine.NewEngine(src, nil)

	assert.Equal(t, "No specific local data found. | NEUTRAL", e.Answer(context.Background(), "go").String())
}

func TestAnswerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(scenarioCorpus, "\n")), 0644))
	e := engine.NewEngine(corpus.NewFileSource(path, nil), nil)

	res := e.Answer(context.Background(), engine.JoinQuery([]string{"did", "the", "build", "pass"}))

	assert.Equal(t, "The build finally passed | NEUTRAL", res.String())
}

func TestAnswerWithSubstringSimilarity(t *testing.T) {
	e := newEngine([]string{"Go is FAST", "go is fast"}, engine.WithSimilarity(search.ExactSubstring))

	assert.Equal(t, "go is fast | NEUTRAL", e.Answer(context.Background(), "go is").String())
}

func TestSearch(t *testing.T) {
	e := newEngine([]string{"go language", "go programming language", "banana split"})

	hits := e.Search(context.Background(), "go language", 5)

	require.Len(t, hits, 2)
	assert.Equal(t, "go language", hits[0].Line)
}

func TestChat(t *testing.T) {
	llm := new(MockLLMProvider)
	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	e := newEngine(scenarioCorpus,
		engine.WithLLM(llm),
		engine.WithProfile(config.ProfileConfig{Name: "Suhash"}),
		engine.WithClock(func() time.Time { return now }),
	)

	llm.On("Generate", mock.Anything, mock.MatchedBy(func(p provider.Prompt) bool {
		return p.User == "I love it" &&
			strings.Contains(p.System, "LOCAL_DATA: I love debugging late at night") &&
			strings.Contains(p.System, "MOOD: POSITIVE") &&
			strings.Contains(p.System, "User: Suhash.")
	})).Return("Glad to hear it!", nil)

	reply, res, err := e.Chat(context.Background(), "I love it")

	require.NoError(t, err)
	assert.Equal(t, "Glad to hear it!", reply)
	assert.Equal(t, tone.Positive, res.Mood)
	llm.AssertExpectations(t)
}

func TestChatErrors(t *testing.T) {
	_, _, err := newEngine(scenarioCorpus).Chat(context.Background(), "hi")
	assert.ErrorIs(t, err, engine.ErrNoProvider)

	llm := new(MockLLMProvider)
	llm.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	_, _, err = newEngine(scenarioCorpus, engine.WithLLM(llm)).Chat(context.Background(), "hi")
	assert.ErrorContains(t, err, "mock generate: connection refused")
}

func TestChatSearchesWebWithoutLocalMatch(t *testing.T) {
	llm := new(MockLLMProvider)
	web := new(MockWebSearcher)
	e := newEngine(scenarioCorpus, engine.WithLLM(llm), engine.WithWebSearch(web))

	web.On("Search", mock.Anything, "gold price today").Return([]websearch.Result{
		{Title: "Gold price", Snippet: "2,400 USD", URL: "https://gold.example"},
	}, nil)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(p provider.Prompt) bool {
		return strings.Contains(p.System, "LOCAL_DATA: No specific local data found.") &&
			strings.Contains(p.System, "WEB_RESULTS:\n1. Gold price\n   2,400 USD\n   Source: https://gold.example\n")
	})).Return("Gold is at 2,400 USD.", nil)

	reply, res, err := e.Chat(context.Background(), "gold price today")

	require.NoError(t, err)
	assert.Equal(t, "Gold is at 2,400 USD.", reply)
	assert.False(t, res.Match.Found)
	web.AssertExpectations(t)
	llm.AssertExpectations(t)
}

func TestChatSkipsWebWithLocalMatch(t *testing.T) {
	llm := new(MockLLMProvider)
	web := new(MockWebSearcher)
	e := newEngine(scenarioCorpus, engine.WithLLM(llm), engine.WithWebSearch(web))

	llm.On("Generate", mock.Anything, mock.MatchedBy(func(p provider.Prompt) bool {
		return !strings.Contains(p.System, "WEB_RESULTS:")
	})).Return("Yes, it passed.", nil)

	_, res, err := e.Chat(context.Background(), "did the build pass")

	require.NoError(t, err)
	assert.True(t, res.Match.Found)
	web.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestChatWebSearchFailureIsNotFatal(t *testing.T) {
	llm := new(MockLLMProvider)
	web := new(MockWebSearcher)
	logger, hook := test.NewNullLogger()
	e := engine.NewEngine(corpus.NewStaticSource(scenarioCorpus...), logrus.NewEntry(logger),
		engine.WithLLM(llm), engine.WithWebSearch(web))

	web.On("Search", mock.Anything, "weather in Oslo").Return(nil, errors.New("timeout"))
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(p provider.Prompt) bool {
		return !strings.Contains(p.System, "WEB_RESULTS:")
	})).Return("I cannot check the weather right now.", nil)

	reply, _, err := e.Chat(context.Background(), "weather in Oslo")

	require.NoError(t, err)
	assert.Equal(t, "I cannot check the weather right now.", reply)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestJoinQuery(t *testing.T) {
	assert.Equal(t, "I love it", engine.JoinQuery([]string{"I", "love", "it"}))
	assert.Equal(t, "single", engine.JoinQuery([]string{"single"}))
}

func TestParseOutput(t *testing.T) {
	tests := []struct {
		line     string
		fact     string
		expected tone.Mood
	}{
		{"The build finally passed | POSITIVE", "The build finally passed", tone.Positive},
		{"No specific local data found. | FRUSTRATED\n", "No specific local data found.", tone.Frustrated},
		{"a | b | NEUTRAL", "a | b", tone.Neutral},
		{"just a fact", "just a fact", tone.Neutral},
		{"", "No data found.", tone.Neutral},
		{"fact | SLEEPY", "fact", tone.Neutral},
	}

	for _, tt := range tests {
		fact, mood := engine.ParseOutput(tt.line)
		assert.Equal(t, tt.fact, fact, "line %q", tt.line)
		assert.Equal(t, tt.expected, mood, "line %q", tt.line)
	}
}
