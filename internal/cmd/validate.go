package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/audite/formgraph/internal/display"
	"github.com/audite/formgraph/internal/graph"
	"github.com/audite/formgraph/internal/parser"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file-or-directory>...",
		Short: "Validate questionnaire dependency graphs",
		Long: `Parse questionnaire files and validate their dependency structure:
  - Dangling parent references
  - Dependency cycles
  - Conditional questions missing operator or condition value
  - Orphaned branches and other advisory warnings

Supports multiple input modes:
  - Single file: formgraph validate questions-industry.yaml
  - Directory: formgraph validate forms/ (filters questions-*.{yaml,md})
  - Multiple files or shell globs

Exit code: 0 if valid, 1 if errors found (or warnings with --strict)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return validateFiles(args, strict || cfg.StrictValidation, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

func validateFiles(paths []string, strict bool, output io.Writer) error {
	files, err := collectQuestionnaireFiles(paths)
	if err != nil {
		return err
	}

	if len(files) > 1 {
		progress := display.NewProgressIndicator(output, len(files))
		progress.Start()
		for _, file := range files {
			progress.Step(file)
		}
		progress.Complete()
	}

	failed := 0
	for _, file := range files {
		quest, err := parser.ParseFile(file)
		if err != nil {
			fmt.Fprintf(output, "%s\n  ✗ %v\n", file, err)
			failed++
			continue
		}

		result := graph.Validate(quest.Questions)
		display.ValidationReport(output, file, result)

		if !result.Valid || (strict && len(result.Warnings) > 0) {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d file(s)", failed, len(files))
	}
	return nil
}
