package visibility

import (
	"math"

	"github.com/audite/formgraph/internal/models"
)

// PercentComplete returns the form's completion percentage over the
// currently visible questions, rounded to the nearest integer. Zero
// visible questions yields 0.
//
// Callers must recompute visibility before completion within one
// answer-change transaction: answering a question can both mark it
// complete and change which other questions are visible.
func PercentComplete(visible []models.Question, answers models.AnswerMap) int {
	if len(visible) == 0 {
		return 0
	}

	answered := 0
	for i := range visible {
		if answers.Answered(visible[i].ID) {
			answered++
		}
	}

	return int(math.Round(100 * float64(answered) / float64(len(visible))))
}

// RequiredSatisfied reports whether every visible required question has a
// non-empty answer, listing the ids of those that do not.
func RequiredSatisfied(visible []models.Question, answers models.AnswerMap) (bool, []int) {
	var missing []int
	for i := range visible {
		q := &visible[i]
		if q.Required && !answers.Answered(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return len(missing) == 0, missing
}
