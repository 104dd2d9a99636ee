package main

import (
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/factfinder/internal/api"
	"github.com/knowledge-engine/factfinder/internal/app"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query and chat API over HTTP",
		Long:  "Serve the query and chat API over HTTP. Followed by more words, serve is\nthe first word of a query instead.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runQuery(cmd, opts, append([]string{"serve"}, args...))
			}
			cfg := loadConfig(opts)
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := app.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, "factfinder-api")
			eng := app.NewEngine(cfg, logger, true)

			server := api.NewServer(eng, logger, cfg.Server.CORSOrigin, cfg.Server.SearchLimit)
			return server.Start(cfg.Server.Addr)
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides SERVER_ADDR)")
	return cmd
}
