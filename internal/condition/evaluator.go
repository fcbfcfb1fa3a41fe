// Package condition evaluates a single question's display condition
// against the current answer map.
//
// Evaluation is pure: no mutation, no I/O, deterministic for a given
// question and answer map. Structural concerns (dangling parents, cycles,
// unknown operators) are the graph validator's job; the evaluator itself
// fails open so a misconfigured question degrades to "shown" rather than
// silently swallowing part of the form.
package condition

import (
	"github.com/audite/formgraph/internal/models"
)

// Evaluate reports whether the question's display condition holds.
//
// Root questions always satisfy their (absent) condition. A conditional
// question with an unanswered parent never does. A conditional question
// missing its operator or value is shown once the parent is answered,
// matching the fail-open policy; the validator reports the missing pieces
// separately.
func Evaluate(q *models.Question, answers models.AnswerMap) bool {
	if !q.IsConditional() {
		return true
	}

	parentValue, ok := answers[q.ParentID]
	if !ok {
		return false
	}

	if q.Operator == "" || q.ConditionValue == "" {
		return true
	}

	return Compare(parentValue, q.ConditionValue, q.Operator)
}

// Compare applies a comparison operator to an answer value and an expected
// condition value. Unknown operators evaluate to true; the validator
// surfaces them as warnings.
func Compare(value models.AnswerValue, expected string, op models.Operator) bool {
	switch op {
	case models.OpEquals:
		return value.Equals(expected)
	case models.OpNotEquals:
		return !value.Equals(expected)
	case models.OpIncludes:
		return value.Includes(expected)
	case models.OpNotIncludes:
		return !value.Includes(expected)
	default:
		return true
	}
}
