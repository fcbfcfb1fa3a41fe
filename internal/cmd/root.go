package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for formgraph
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formgraph",
		Short: "Conditional questionnaire dependency toolchain",
		Long: `Formgraph validates and simulates conditional questionnaires.

It parses questionnaire files (YAML or Markdown), checks the question
dependency graph for cycles and broken references, resolves which
questions are visible for a given answer set, and keeps a local catalog
of questionnaire definitions.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", ".formgraph/config.yaml", "path to the formgraph config file")
	cmd.PersistentFlags().String("log-level", "", "log verbosity (trace, debug, info, warn, error)")

	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewSimulateCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewCatalogCommand())

	return cmd
}
