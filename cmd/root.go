package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/edugen/internal/store"
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "edugen",
		Short: "Generate worksheets and presentations with an LLM",
		Long: `edugen drives a language model to produce school worksheets and slide
presentations, reconciles the item counts against the request, validates
every item, and stores the finished artifacts.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("db", "", "Path to SQLite database file (overrides EDUGEN_DB env var)")
	flags.String("config", "", "Path to YAML config file (default $XDG_CONFIG_HOME/edugen/config.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("log-dev", false, "Human-readable log output")

	root.AddCommand(
		newWorksheetCmd(),
		newPresentationCmd(),
		newRegenerateCmd(),
		newHistoryCmd(),
		newFormatsCmd(),
		newLLMCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
