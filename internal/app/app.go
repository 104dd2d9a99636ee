// Package app wires configuration into a ready Engine for the binaries.
package app

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/factfinder/internal/config"
	"github.com/knowledge-engine/factfinder/internal/corpus"
	"github.com/knowledge-engine/factfinder/internal/engine"
	"github.com/knowledge-engine/factfinder/internal/provider"
	"github.com/knowledge-engine/factfinder/internal/websearch"
)

// NewLogger builds the service logger. Unknown levels fall back to info.
func NewLogger(out io.Writer, level, service string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger.WithField("service", service)
}

// NewEngine builds the engine described by cfg. The LLM provider, and the
// web search that feeds it, are only attached when withLLM is set.
func NewEngine(cfg *config.Config, logger *logrus.Entry, withLLM bool, opts ...engine.Option) *engine.Engine {
	src := corpus.New(cfg.Corpus, logger)
	logger.WithField("corpus", src.Name()).Debug("Corpus source ready")

	all := []engine.Option{engine.WithProfile(cfg.Profile)}
	if withLLM {
		llm := provider.New(cfg.LLM.Provider, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey, cfg.LLM.Timeout)
		all = append(all, engine.WithLLM(llm))
		if cfg.WebSearch.Enabled {
			all = append(all, engine.WithWebSearch(websearch.NewDuckDuckGo(cfg.WebSearch, logger)))
		}
	}
	all = append(all, opts...)

	return engine.NewEngine(src, logger, all...)
}
