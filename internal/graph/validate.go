package graph

import (
	"fmt"
	"strings"

	"github.com/audite/formgraph/internal/models"
)

// Validate walks the full question set and reports every structural
// problem it can find. It never fails part-way: malformed input produces
// diagnostics, not errors, so the caller decides whether to block the form
// or degrade gracefully.
//
// Errors (fatal to trust in visibility decisions): duplicate ids, dangling
// parent references, conditional questions missing their operator or value,
// dependency cycles. Warnings (advisory): unknown operators, orphaned
// branches, parent ordered after its child, operator/answer-shape
// mismatches, condition values outside the parent's option set.
func Validate(questions []models.Question) models.ValidationResult {
	result := models.ValidationResult{Valid: true}
	if len(questions) == 0 {
		return result
	}

	g := New(questions)

	seen := make(map[int]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if seen[q.ID] {
			result.AddError(models.IssueDuplicateID, q.ID, "duplicate question id %d", q.ID)
			continue
		}
		seen[q.ID] = true
	}

	for i := range questions {
		q := &questions[i]
		if !q.IsConditional() {
			continue
		}

		parent := g.Question(q.ParentID)
		if parent == nil {
			result.AddError(models.IssueDanglingParent, q.ID,
				"references parent question %d which does not exist", q.ParentID)
			continue
		}

		if q.Operator == "" || q.ConditionValue == "" {
			result.AddError(models.IssueMissingCondition, q.ID,
				"conditional question must define both operator and condition value")
		} else if !q.Operator.Valid() {
			result.AddWarning(models.IssueUnknownOperator, q.ID,
				"unsupported operator %q; the question will always be shown once its parent is answered", q.Operator)
		}

		if parent.Order >= q.Order {
			result.AddWarning(models.IssueParentOrder, q.ID,
				"parent question %d (order %d) is not ordered before this question (order %d)",
				parent.ID, parent.Order, q.Order)
		}

		if parent.Type == models.TypeMultiChoice && (q.Operator == models.OpEquals || q.Operator == models.OpNotEquals) {
			result.AddWarning(models.IssueOperatorShape, q.ID,
				"operator %q against multi-choice parent %d; prefer %q or %q",
				q.Operator, parent.ID, models.OpIncludes, models.OpNotIncludes)
		}

		if conditionValueImpossible(q, parent) {
			result.AddWarning(models.IssueValueNotInOptions, q.ID,
				"condition value %q is not among parent question %d's options",
				q.ConditionValue, parent.ID)
		}

		if parent.IsConditional() {
			if reason := orphanReason(g, parent); reason != "" {
				result.AddWarning(models.IssueOrphanedBranch, q.ID,
					"parent question %d can never become visible (%s); this question is unreachable",
					parent.ID, reason)
			}
		}
	}

	for _, cycle := range g.Cycles() {
		result.Cycles = append(result.Cycles, cycle)
		result.AddError(models.IssueCycle, cycle[0],
			"dependency cycle detected: %s", formatCycle(cycle))
	}

	return result
}

// conditionValueImpossible reports whether the question's equality
// condition can never be satisfied because the value lies outside the
// parent's closed option set. The "Other" sentinel is always reachable on
// questions that carry an other option.
func conditionValueImpossible(q, parent *models.Question) bool {
	if q.Operator != models.OpEquals && q.Operator != models.OpIncludes {
		return false
	}
	if !parent.Type.IsChoice() || len(parent.Options) == 0 {
		return false
	}
	if strings.EqualFold(q.ConditionValue, models.OtherSentinel) && parent.HasOtherOption {
		return false
	}
	return !parent.HasOption(q.ConditionValue)
}

// orphanReason explains why the given conditional question is permanently
// unreachable, or returns "" if it is not provably so.
func orphanReason(g *Graph, q *models.Question) string {
	if lvl, ok := g.Levels()[q.ID]; ok && lvl < 0 {
		return "its parent chain is broken by a cycle or dangling reference"
	}
	if grandparent := g.Question(q.ParentID); grandparent != nil && conditionValueImpossible(q, grandparent) {
		return fmt.Sprintf("its condition value %q is outside question %d's options", q.ConditionValue, grandparent.ID)
	}
	return ""
}

func formatCycle(cycle []int) string {
	parts := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	if len(cycle) > 0 {
		parts = append(parts, fmt.Sprintf("%d", cycle[0]))
	}
	return strings.Join(parts, " -> ")
}
