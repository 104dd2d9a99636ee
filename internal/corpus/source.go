// Package corpus provides the fact corpus as a lazy sequence of lines.
//
// Sources only deliver raw lines. Blank and comment lines are filtered by
// the ranker, not here.
package corpus

import (
	"context"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/factfinder/internal/config"
	"github.com/knowledge-engine/factfinder/internal/fetcher"
)

// Source produces the corpus lines for one query
type Source interface {
	// Lines opens the corpus. The returned sequence yields lines in order
	// and must be ranged over once to release its resources.
	Lines(ctx context.Context) (iter.Seq[string], error)
	Name() string
}

// New builds the source described by cfg: a remote document when a URL is
// configured, otherwise the local file.
func New(cfg config.CorpusConfig, logger *logrus.Entry) Source {
	if cfg.URL != "" {
		f := fetcher.NewFetcher(cfg.FetchTimeout, cfg.UserAgent, cfg.RespectRobots, logger)
		return NewHTTPSource(cfg.URL, f)
	}
	return NewFileSource(cfg.Path, logger)
}

// Empty is a sequence with no lines
var Empty iter.Seq[string] = func(yield func(string) bool) {}
