package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/knowledge-engine/factfinder/internal/app"
	"github.com/knowledge-engine/factfinder/internal/config"
	"github.com/knowledge-engine/factfinder/internal/engine"
	"github.com/knowledge-engine/factfinder/internal/search"
)

type options struct {
	corpusPath string
	corpusURL  string
	similarity string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "factfinder [query words...]",
		Short:         "Look up a fact in the local corpus and label the query's mood",
		Long:          "factfinder ranks the lines of a local fact corpus against a query and prints\n\"<best line or sentinel> | <MOOD>\". With no subcommand the arguments are the query.",
		Args:          requireQuery,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.corpusPath, "corpus", "", "Path to the fact corpus (overrides KNOWLEDGE_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.corpusURL, "corpus-url", "", "Fetch the corpus from a URL (overrides KNOWLEDGE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.similarity, "similarity", "cosine", "Ranking function: cosine, folded or exact")
	rootCmd.Flags().SetInterspersed(false)

	// Query words must never be taken for commands: help stays on --help
	// and the words "help" and "completion" reach the ranker.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpCommand(newWordCommand("help", opts))

	rootCmd.AddCommand(newQueryCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))

	return rootCmd
}

func newQueryCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <words...>",
		Short: "Print the best matching fact and the query mood",
		Args:  requireQuery,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// newWordCommand shadows a command name cobra would otherwise claim. The name
// is kept as the first query word.
func newWordCommand(word string, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:    word,
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, append([]string{word}, args...))
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// requireQuery rejects an empty query before it reaches the engine
func requireQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s: %w", cmd.UseLine(), engine.ErrEmptyQuery)
	}
	return nil
}

func runQuery(cmd *cobra.Command, opts *options, args []string) error {
	similarity, err := search.SimilarityByName(opts.similarity)
	if err != nil {
		return err
	}

	cfg := loadConfig(opts)
	logger := app.NewLogger(cmd.ErrOrStderr(), config.GetStringEnv("LOG_LEVEL", "warn"), "factfinder")
	eng := app.NewEngine(cfg, logger, false, engine.WithSimilarity(similarity))

	res := eng.Answer(cmd.Context(), engine.JoinQuery(args))
	logger.WithFields(logrus.Fields{"score": res.Match.Score, "found": res.Match.Found}).Debug("Query ranked")

	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.String())
	return err
}

func loadConfig(opts *options) *config.Config {
	cfg := config.Load()
	if opts.corpusPath != "" {
		cfg.Corpus.Path = opts.corpusPath
		cfg.Corpus.URL = ""
	}
	if opts.corpusURL != "" {
		cfg.Corpus.URL = opts.corpusURL
	}
	return cfg
}
