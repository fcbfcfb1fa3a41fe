package condition

import (
	"testing"

	"github.com/audite/formgraph/internal/models"
)

func conditional(parentID int, op models.Operator, value string) *models.Question {
	return &models.Question{
		ID:             10,
		Text:           "conditional",
		Type:           models.TypeFreeText,
		ParentID:       parentID,
		Operator:       op,
		ConditionValue: value,
	}
}

func TestEvaluateRootQuestion(t *testing.T) {
	root := &models.Question{ID: 1, Text: "root", Type: models.TypeFreeText}

	// Root questions satisfy their absent condition regardless of answers.
	if !Evaluate(root, models.AnswerMap{}) {
		t.Error("root question must evaluate true with no answers")
	}
	if !Evaluate(root, models.AnswerMap{2: models.Scalar("anything")}) {
		t.Error("root question must evaluate true regardless of answer map contents")
	}
}

func TestEvaluateUnansweredParent(t *testing.T) {
	q := conditional(1, models.OpEquals, "Yes")

	if Evaluate(q, models.AnswerMap{}) {
		t.Error("conditional question with unanswered parent must evaluate false")
	}
}

func TestEvaluateOperators(t *testing.T) {
	tests := []struct {
		name   string
		op     models.Operator
		value  string
		parent models.AnswerValue
		want   bool
	}{
		{name: "equals match", op: models.OpEquals, value: "Yes", parent: models.Scalar("Yes"), want: true},
		{name: "equals match is case-insensitive", op: models.OpEquals, value: "Yes", parent: models.Scalar("yes"), want: true},
		{name: "equals mismatch", op: models.OpEquals, value: "Yes", parent: models.Scalar("No"), want: false},
		{name: "not equals is the complement", op: models.OpNotEquals, value: "Yes", parent: models.Scalar("No"), want: true},
		{name: "not equals on match", op: models.OpNotEquals, value: "Yes", parent: models.Scalar("Yes"), want: false},
		{name: "includes list member", op: models.OpIncludes, value: "Gas", parent: models.List("Electricity", "Gas"), want: true},
		{name: "includes list non-member", op: models.OpIncludes, value: "Steam", parent: models.List("Electricity", "Gas"), want: false},
		{name: "includes scalar substring", op: models.OpIncludes, value: "gas", parent: models.Scalar("Natural Gas boiler"), want: true},
		{name: "not includes list", op: models.OpNotIncludes, value: "Steam", parent: models.List("Electricity"), want: true},
		{name: "not includes on member", op: models.OpNotIncludes, value: "Electricity", parent: models.List("Electricity"), want: false},
		{name: "equals against list means membership", op: models.OpEquals, value: "Gas", parent: models.List("Gas", "Steam"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := conditional(1, tt.op, tt.value)
			answers := models.AnswerMap{1: tt.parent}
			if got := Evaluate(q, answers); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateFailOpen(t *testing.T) {
	answers := models.AnswerMap{1: models.Scalar("whatever")}

	// Unknown operators show the question; the validator warns separately.
	unknown := conditional(1, "approximately", "Yes")
	if !Evaluate(unknown, answers) {
		t.Error("unknown operator must fail open")
	}

	// Missing operator/value is a structural error reported by the
	// validator; evaluation still shows the question once the parent is
	// answered.
	incomplete := conditional(1, "", "")
	if !Evaluate(incomplete, answers) {
		t.Error("conditional question without operator must fail open once parent answered")
	}
	if Evaluate(incomplete, models.AnswerMap{}) {
		t.Error("fail-open never applies while the parent is unanswered")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	q := conditional(1, models.OpEquals, "Yes")
	answers := models.AnswerMap{1: models.Scalar("Yes")}

	first := Evaluate(q, answers)
	second := Evaluate(q, answers)
	if first != second {
		t.Error("evaluation must be deterministic for identical inputs")
	}
	if len(answers) != 1 {
		t.Error("evaluation must not mutate the answer map")
	}
}
