package main

import (
	"os"

	"github.com/knowledge-engine/factfinder/internal/api"
	"github.com/knowledge-engine/factfinder/internal/app"
	"github.com/knowledge-engine/factfinder/internal/config"
)

func main() {
	// 1. Config
	cfg := config.Load()

	// 2. Logging
	entry := app.NewLogger(os.Stderr, cfg.LogLevel, "factfinder-api")
	entry.Info("Starting fact lookup API service")

	// 3. Engine (corpus + ranker + tone + LLM)
	eng := app.NewEngine(cfg, entry, true)
	entry.WithField("corpus", eng.Corpus.Name()).WithField("provider", eng.LLM.Name()).Info("Engine ready")

	// 4. API Server
	server := api.NewServer(eng, entry, cfg.Server.CORSOrigin, cfg.Server.SearchLimit)
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}
