package models

import "fmt"

// Reason classifies why a question's visibility decision came out the way
// it did. The string values are stable: the UI surfaces them directly.
type Reason string

const (
	// ReasonRoot means the question has no parent and is always shown.
	ReasonRoot Reason = "root-question"
	// ReasonParentUnanswered means the parent has no entry in the answer map.
	ReasonParentUnanswered Reason = "parent-unanswered"
	// ReasonConditionMet means the parent's answer satisfies the condition.
	ReasonConditionMet Reason = "condition-met"
	// ReasonConditionNotMet means the parent answered but the condition failed.
	ReasonConditionNotMet Reason = "condition-not-met"
	// ReasonStructuralError means the question sits on a broken dependency
	// chain (cycle or dangling parent) and is permanently hidden.
	ReasonStructuralError Reason = "structural-error"
)

// EvaluationRecord is the per-question output of the visibility resolver,
// recomputed on every answer map change.
type EvaluationRecord struct {
	QuestionID int
	ShouldShow bool
	Reason     Reason
	// DependenciesSatisfied mirrors ShouldShow today; kept distinct for a
	// future multi-condition extension.
	DependenciesSatisfied bool
	ParentAnswered        bool
	// Level is the question's dependency depth (roots are 0). -1 for
	// questions whose level is undefined because of a structural error.
	Level int
}

// ValidationIssue is one problem found while validating a question set's
// dependency structure.
type ValidationIssue struct {
	Code       string
	QuestionID int
	Message    string
}

func (i ValidationIssue) String() string {
	if i.QuestionID != 0 {
		return fmt.Sprintf("question %d: %s", i.QuestionID, i.Message)
	}
	return i.Message
}

// Issue codes emitted by graph.Validate.
const (
	IssueDuplicateID       = "duplicate-id"
	IssueCycle             = "cycle"
	IssueDanglingParent    = "dangling-parent"
	IssueMissingCondition  = "missing-condition"
	IssueUnknownOperator   = "unknown-operator"
	IssueOrphanedBranch    = "orphaned-branch"
	IssueParentOrder       = "parent-order"
	IssueOperatorShape     = "operator-shape"
	IssueValueNotInOptions = "value-not-in-options"
)

// ValidationResult reports the structural health of a question set.
// Warnings never affect validity.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationIssue
	Warnings []ValidationIssue
	// Cycles lists each detected dependency cycle as an ordered id path.
	Cycles [][]int
}

// AddError appends a fatal structural issue and marks the result invalid.
func (r *ValidationResult) AddError(code string, questionID int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, ValidationIssue{
		Code:       code,
		QuestionID: questionID,
		Message:    fmt.Sprintf(format, args...),
	})
	r.Valid = false
}

// AddWarning appends an advisory issue.
func (r *ValidationResult) AddWarning(code string, questionID int, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, ValidationIssue{
		Code:       code,
		QuestionID: questionID,
		Message:    fmt.Sprintf(format, args...),
	})
}
