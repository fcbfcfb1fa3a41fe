package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audite/formgraph/internal/graph"
	"github.com/audite/formgraph/internal/parser"
)

// NewInspectCommand creates and returns the inspect subcommand
func NewInspectCommand() *cobra.Command {
	var questionID int

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show dependency levels and dependent questions",
		Long: `Load a questionnaire and print its dependency structure: each
question's depth in the parent chain, and — with --question — the
questions that depend directly or transitively on one question (the set
whose visibility an answer edit can change).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quest, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			g := graph.New(quest.Questions)
			out := cmd.OutOrStdout()

			if questionID != 0 {
				q := g.Question(questionID)
				if q == nil {
					return fmt.Errorf("question %d not found in %s", questionID, args[0])
				}

				level := g.Levels()[questionID]
				direct := g.DirectDependents(questionID)
				transitive := g.TransitiveDependents(questionID)

				fmt.Fprintf(out, "question %d: %s\n", q.ID, q.Text)
				fmt.Fprintf(out, "  dependency level: %s\n", formatLevel(level))
				fmt.Fprintf(out, "  direct dependents: %d\n", len(direct))
				for _, dep := range direct {
					fmt.Fprintf(out, "    %d (%s %q)\n", dep.ID, dep.Operator, dep.ConditionValue)
				}
				fmt.Fprintf(out, "  transitive dependents: %d\n", len(transitive))
				for _, dep := range transitive {
					fmt.Fprintf(out, "    %d: %s\n", dep.ID, dep.Text)
				}
				return nil
			}

			levels := g.Levels()
			fmt.Fprintf(out, "%s (%d questions)\n", quest.Title, len(quest.Questions))
			for i := range quest.Questions {
				q := &quest.Questions[i]
				fmt.Fprintf(out, "  %3d  level %s  dependents %d  %s\n",
					q.ID, formatLevel(levels[q.ID]), len(g.TransitiveDependents(q.ID)), q.Text)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&questionID, "question", 0, "question id to inspect")
	return cmd
}

func formatLevel(level int) string {
	if level < 0 {
		return "undefined (broken parent chain)"
	}
	return fmt.Sprintf("%d", level)
}
