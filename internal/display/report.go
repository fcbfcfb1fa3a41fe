// Package display renders validation reports, visibility simulations and
// warnings for the formgraph CLI.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/audite/formgraph/internal/models"
)

// useColor reports whether w is a terminal that should receive ANSI colors.
func useColor(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) && !color.NoColor
	}
	return false
}

// ValidationReport renders a structural validation result for one
// questionnaire file.
func ValidationReport(w io.Writer, source string, result models.ValidationResult) {
	colored := useColor(w)

	header := fmt.Sprint
	fail := fmt.Sprint
	warn := fmt.Sprint
	ok := fmt.Sprint
	if colored {
		header = color.New(color.FgCyan, color.Bold).SprintFunc()
		fail = color.New(color.FgRed).SprintFunc()
		warn = color.New(color.FgYellow).SprintFunc()
		ok = color.New(color.FgGreen).SprintFunc()
	}

	fmt.Fprintf(w, "%s\n", header(source))

	for _, issue := range result.Errors {
		fmt.Fprintf(w, "  %s %s\n", fail("✗"), issue.String())
	}
	for _, issue := range result.Warnings {
		fmt.Fprintf(w, "  %s %s\n", warn("⚠"), issue.String())
	}

	switch {
	case result.Valid && len(result.Warnings) == 0:
		fmt.Fprintf(w, "  %s dependency graph is valid\n", ok("✓"))
	case result.Valid:
		fmt.Fprintf(w, "  %s valid with %d warning(s)\n", ok("✓"), len(result.Warnings))
	default:
		fmt.Fprintf(w, "  %s %d error(s), %d warning(s)\n", fail("✗"), len(result.Errors), len(result.Warnings))
	}
}

// EvaluationTable renders per-question evaluation records alongside the
// computed completion percentage.
func EvaluationTable(w io.Writer, questions []models.Question, records []models.EvaluationRecord, percent int) {
	colored := useColor(w)

	shownMark := "shown"
	hiddenMark := "hidden"
	if colored {
		shownMark = color.New(color.FgGreen).Sprint("shown")
		hiddenMark = color.New(color.FgHiBlack).Sprint("hidden")
	}

	byID := make(map[int]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	for _, rec := range records {
		mark := hiddenMark
		if rec.ShouldShow {
			mark = shownMark
		}
		text := ""
		if q := byID[rec.QuestionID]; q != nil {
			text = truncate(q.Text, 48)
		}
		fmt.Fprintf(w, "  %3d  %-6s  level %2d  %-18s  %s\n",
			rec.QuestionID, mark, rec.Level, rec.Reason, text)
	}

	fmt.Fprintf(w, "\n  %d%% complete\n", percent)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
