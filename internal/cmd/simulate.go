package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/audite/formgraph/internal/display"
	"github.com/audite/formgraph/internal/form"
	"github.com/audite/formgraph/internal/models"
	"github.com/audite/formgraph/internal/otherfield"
	"github.com/audite/formgraph/internal/parser"
)

// NewSimulateCommand creates and returns the simulate subcommand
func NewSimulateCommand() *cobra.Command {
	var answerFlags []string

	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "Resolve question visibility for a given answer set",
		Long: `Load a questionnaire, apply the provided answers in order, and print
each question's evaluation record together with the visible set and the
completion percentage.

Answers are given as repeated --answer id=value flags. Multi-choice
answers separate options with '|':

  formgraph simulate questions-industry.yaml \
    --answer 1=Yes --answer "3=Electricity|Gas"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			quest, err := parser.ParseFile(args[0])
			if err != nil {
				return err
			}

			answers, err := parseAnswerFlags(answerFlags)
			if err != nil {
				return err
			}

			session, err := form.NewSession(quest, form.Options{
				OtherLimits: otherfield.Limits{
					MinLength: cfg.OtherField.MinLength,
					MaxLength: cfg.OtherField.MaxLength,
				},
				OtherDebounce: cfg.Debounce(),
			})
			if err != nil {
				return err
			}

			validation := session.Validation()
			if !validation.Valid {
				log.Warnf("questionnaire has %d structural error(s); affected questions stay hidden", len(validation.Errors))
			}

			// Drop answers for unknown questions, then install the rest as
			// one batch: applying them one at a time would cascade-clear a
			// child's answer whenever its id sorts before its parent's.
			for _, id := range sortedIDs(answers) {
				if quest.QuestionByID(id) == nil {
					log.Warnf("skipping answer for unknown question %d", id)
					delete(answers, id)
				}
			}
			if err := session.SetAnswers(answers); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (session %s)\n\n", quest.Title, session.ID)
			display.EvaluationTable(out, quest.Questions, session.Records(), session.PercentComplete())

			check := session.Validate()
			if !check.Valid {
				fmt.Fprintln(out)
				if len(check.MissingRequired) > 0 {
					fmt.Fprintf(out, "  missing required answers: %v\n", check.MissingRequired)
				}
				if len(check.StaleAnswers) > 0 {
					fmt.Fprintf(out, "  answers on hidden questions: %v\n", check.StaleAnswers)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringArrayVar(&answerFlags, "answer", nil, "answer as id=value (repeatable; '|' separates multi-choice options)")
	return cmd
}

func sortedIDs(answers models.AnswerMap) []int {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
