package cmd

import (
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/docsmith/docsmith/internal/config"
	"github.com/docsmith/docsmith/internal/search"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "docsmith",
	Short: "Static documentation site generator with symbol search",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig loads the shared configuration for every subcommand.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	return cfg
}

// queryOptions maps config to the query engine's tunables.
func queryOptions(cfg *config.Config) search.Options {
	return search.Options{
		MaxResults:    cfg.Search.MaxResults,
		FuzzyDistance: cfg.Search.FuzzyDistance,
		FuzzyMaxQuery: cfg.Search.FuzzyMaxQuery,
		FuzzyBudget:   cfg.Search.FuzzyBudget(),
	}
}
