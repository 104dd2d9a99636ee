package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/factfinder/internal/config"
	"github.com/knowledge-engine/factfinder/internal/corpus"
	"github.com/knowledge-engine/factfinder/internal/provider"
	"github.com/knowledge-engine/factfinder/internal/search"
	"github.com/knowledge-engine/factfinder/internal/tone"
	"github.com/knowledge-engine/factfinder/internal/websearch"
)

// Separator splits the fact from the mood label in the output line
const Separator = " | "

var (
	// ErrEmptyQuery is returned at the edges when a caller sends no query
	ErrEmptyQuery = errors.New("query is required")
	// ErrNoProvider is returned by Chat when no LLM is configured
	ErrNoProvider = errors.New("no LLM provider configured")
)

// Result combines the corpus match with the query's mood
type Result struct {
	Match search.Match
	Mood  tone.Mood
}

// String renders the line consumed downstream: "<fact or sentinel> | <MOOD>"
func (r Result) String() string {
	return r.Match.Text() + Separator + r.Mood.String()
}

// WebSearcher looks a chat message up on the web
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Engine answers queries against a corpus. It keeps no per-query state.
type Engine struct {
	Corpus     corpus.Source
	Ranker     *search.Ranker
	Classifier *tone.Classifier
	LLM        provider.LLMProvider
	Web        WebSearcher
	Profile    config.ProfileConfig
	Logger     *logrus.Entry

	now func() time.Time
}

// Option adjusts an Engine at construction
type Option func(*Engine)

// WithSimilarity swaps the ranking function
func WithSimilarity(fn search.SimilarityFunc) Option {
	return func(e *Engine) { e.Ranker = search.NewRanker(fn) }
}

// WithLLM attaches a chat provider
func WithLLM(llm provider.LLMProvider) Option {
	return func(e *Engine) { e.LLM = llm }
}

// WithWebSearch lets Chat search the web when the corpus has no match
func WithWebSearch(ws WebSearcher) Option {
	return func(e *Engine) { e.Web = ws }
}

// WithProfile sets the user facts used in chat prompts
func WithProfile(p config.ProfileConfig) Option {
	return func(e *Engine) { e.Profile = p }
}

// WithClock overrides the time source used for prompt dates
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(src corpus.Source, logger *logrus.Entry, opts ...Option) *Engine {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	e := &Engine{
		Corpus:     src,
		Ranker:     search.NewRanker(search.Cosine),
		Classifier: tone.NewClassifier(tone.DefaultLexicon()),
		Logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// JoinQuery joins words with single spaces
func JoinQuery(words []string) string {
	return strings.Join(words, " ")
}

// Answer ranks the corpus against query and classifies its tone.
// An unreadable corpus is treated as empty.
func (e *Engine) Answer(ctx context.Context, query string) Result {
	match := e.Ranker.Rank(query, e.lines(ctx))
	mood := e.Classifier.Classify(query)

	e.Logger.WithFields(logrus.Fields{
		"found": match.Found,
		"score": match.Score,
		"mood":  mood.String(),
	}).Debug("Answered query")

	return Result{Match: match, Mood: mood}
}

// Search returns up to k accepted corpus lines, best first
func (e *Engine) Search(ctx context.Context, query string, k int) []search.Match {
	return e.Ranker.Top(query, e.lines(ctx), k)
}

// Chat answers locally, then asks the LLM with the local fact and mood in
// the system prompt. When the corpus has nothing and a WebSearcher is set,
// web hits go into the prompt as well.
func (e *Engine) Chat(ctx context.Context, message string) (string, Result, error) {
	result := e.Answer(ctx, message)
	if e.LLM == nil {
		return "", result, ErrNoProvider
	}

	persona := provider.Persona{
		UserName:  e.Profile.Name,
		UserRole:  e.Profile.Role,
		UserTech:  e.Profile.Tech,
		Date:      e.now(),
		Mood:      result.Mood.String(),
		LocalData: result.Match.Text(),
	}
	if !result.Match.Found && e.Web != nil {
		persona.WebResults = e.webEvidence(ctx, message)
	}
	prompt := provider.BuildPrompt(persona, message)

	reply, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", result, fmt.Errorf("%s generate: %w", e.LLM.Name(), err)
	}
	return reply, result, nil
}

// webEvidence never fails the chat: a broken search leaves the prompt without
// web results
func (e *Engine) webEvidence(ctx context.Context, message string) string {
	results, err := e.Web.Search(ctx, message)
	if err != nil {
		e.Logger.WithError(err).Warn("Web search failed, answering without it")
		return ""
	}
	e.Logger.WithField("results", len(results)).Debug("Web search evidence added")
	return websearch.FormatAsEvidence(results)
}

func (e *Engine) lines(ctx context.Context) iter.Seq[string] {
	if e.Corpus == nil {
		return corpus.Empty
	}
	lines, err := e.Corpus.Lines(ctx)
	if err != nil {
		e.Logger.WithError(err).WithField("corpus", e.Corpus.Name()).Warn("Corpus unavailable, treating as empty")
		return corpus.Empty
	}
	return lines
}

// ParseOutput splits an output line back into fact and mood. A missing fact
// reads as "No data found." and a missing or unknown mood as NEUTRAL.
func ParseOutput(line string) (string, tone.Mood) {
	line = strings.TrimSpace(line)
	fact, label := line, ""
	if idx := strings.LastIndex(line, Separator); idx >= 0 {
		fact, label = line[:idx], line[idx+len(Separator):]
	}
	if fact == "" {
		fact = "No data found."
	}
	mood, err := tone.ParseMood(label)
	if err != nil {
		mood = tone.Neutral
	}
	return fact, mood
}
