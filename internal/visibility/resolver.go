// Package visibility resolves which questions are currently visible given
// the answers provided so far, and explains each decision.
//
// Resolution is pure and stateless: callers re-invoke it on every answer
// change instead of patching previous output. Question sets in this domain
// are tens of items, so full recomputation is the simplest correct design.
package visibility

import (
	"sort"

	"github.com/audite/formgraph/internal/condition"
	"github.com/audite/formgraph/internal/graph"
	"github.com/audite/formgraph/internal/models"
)

// Resolve evaluates every question against the answer map and returns one
// evaluation record per question, in input order.
//
// Questions are evaluated in ascending dependency level so a parent's
// record exists before any of its children are considered. Questions whose
// level is undefined (cycle or dangling parent upstream) are permanently
// hidden with a structural-error reason, regardless of answers.
func Resolve(questions []models.Question, answers models.AnswerMap) []models.EvaluationRecord {
	g := graph.New(questions)
	levels := g.Levels()

	ordered := make([]*models.Question, 0, len(questions))
	for i := range questions {
		ordered = append(ordered, &questions[i])
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		la, lb := levels[ordered[a].ID], levels[ordered[b].ID]
		if la != lb {
			// Broken chains (-1) sort last; they are hidden either way.
			if la < 0 {
				return false
			}
			if lb < 0 {
				return true
			}
			return la < lb
		}
		return ordered[a].Order < ordered[b].Order
	})

	byID := make(map[int]models.EvaluationRecord, len(questions))
	for _, q := range ordered {
		byID[q.ID] = evaluateOne(q, answers, levels[q.ID])
	}

	records := make([]models.EvaluationRecord, 0, len(questions))
	for i := range questions {
		records = append(records, byID[questions[i].ID])
	}
	return records
}

func evaluateOne(q *models.Question, answers models.AnswerMap, level int) models.EvaluationRecord {
	rec := models.EvaluationRecord{
		QuestionID:     q.ID,
		Level:          level,
		ParentAnswered: !q.IsConditional() || answers.Has(q.ParentID),
	}

	switch {
	case level < 0:
		rec.Reason = models.ReasonStructuralError
	case !q.IsConditional():
		rec.ShouldShow = true
		rec.Reason = models.ReasonRoot
	case !rec.ParentAnswered:
		rec.Reason = models.ReasonParentUnanswered
	case condition.Evaluate(q, answers):
		rec.ShouldShow = true
		rec.Reason = models.ReasonConditionMet
	default:
		rec.Reason = models.ReasonConditionNotMet
	}

	rec.DependenciesSatisfied = rec.ShouldShow
	return rec
}

// VisibleQuestions returns the subset of questions whose condition resolves
// to shown, in ascending display order.
func VisibleQuestions(questions []models.Question, answers models.AnswerMap) []models.Question {
	records := Resolve(questions, answers)

	shown := make(map[int]bool, len(records))
	for _, rec := range records {
		shown[rec.QuestionID] = rec.ShouldShow
	}

	visible := make([]models.Question, 0, len(questions))
	for i := range questions {
		if shown[questions[i].ID] {
			visible = append(visible, questions[i])
		}
	}
	sort.SliceStable(visible, func(a, b int) bool {
		if visible[a].Order != visible[b].Order {
			return visible[a].Order < visible[b].Order
		}
		return visible[a].ID < visible[b].ID
	})
	return visible
}

// FindRecord returns the record for the given question id, or nil.
func FindRecord(records []models.EvaluationRecord, questionID int) *models.EvaluationRecord {
	for i := range records {
		if records[i].QuestionID == questionID {
			return &records[i]
		}
	}
	return nil
}
