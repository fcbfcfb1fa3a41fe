package models

import (
	"errors"
	"fmt"
	"strings"
)

// QuestionType identifies the input widget and answer shape of a question.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeFreeText     QuestionType = "free_text"
	TypeNumber       QuestionType = "number"
	TypeDropdown     QuestionType = "dropdown"
	TypeRankedList   QuestionType = "ranked_list"
)

// String returns the string representation of the QuestionType
func (t QuestionType) String() string {
	return string(t)
}

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeSingleChoice, TypeMultiChoice, TypeFreeText, TypeNumber, TypeDropdown, TypeRankedList:
		return true
	}
	return false
}

// IsChoice reports whether the question carries a closed option set.
func (t QuestionType) IsChoice() bool {
	return t == TypeSingleChoice || t == TypeMultiChoice || t == TypeDropdown
}

// Operator compares a parent question's answer against a condition value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpIncludes    Operator = "includes"
	OpNotIncludes Operator = "not_includes"
)

// String returns the string representation of the Operator
func (o Operator) String() string {
	return string(o)
}

// Valid reports whether o is one of the supported comparison operators.
func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpIncludes, OpNotIncludes:
		return true
	}
	return false
}

// OtherSentinel is the literal option value that activates a question's
// auxiliary "specify other" free-text field.
const OtherSentinel = "Other"

// Question represents a single questionnaire item. A question with a
// ParentID is conditional: it is shown only when the parent's answer
// satisfies the (Operator, ConditionValue) pair.
type Question struct {
	ID             int          `yaml:"id"`
	Order          int          `yaml:"order"`
	Text           string       `yaml:"text"`
	Subtitle       string       `yaml:"subtitle,omitempty"`
	Type           QuestionType `yaml:"type"`
	Required       bool         `yaml:"required"`
	Options        []string     `yaml:"options,omitempty"`
	HasOtherOption bool         `yaml:"has_other_option,omitempty"`

	// Conditional visibility. ParentID of 0 means the question is a root.
	ParentID       int      `yaml:"parent_id,omitempty"`
	Operator       Operator `yaml:"operator,omitempty"`
	ConditionValue string   `yaml:"condition_value,omitempty"`
}

// IsConditional reports whether the question's visibility depends on
// another question's answer.
func (q *Question) IsConditional() bool {
	return q.ParentID != 0
}

// HasOption reports whether value is one of the question's configured
// options, comparing case-insensitively.
func (q *Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if strings.EqualFold(opt, value) {
			return true
		}
	}
	return false
}

// Validate checks that the question is self-consistent. Cross-question
// checks (dangling parents, cycles) belong to graph.Validate.
func (q *Question) Validate() error {
	if q.ID <= 0 {
		return errors.New("question id must be a positive integer")
	}
	if q.Text == "" {
		return fmt.Errorf("question %d: text is required", q.ID)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %d: unknown type %q", q.ID, q.Type)
	}
	if q.Type.IsChoice() && len(q.Options) == 0 {
		return fmt.Errorf("question %d: %s questions require options", q.ID, q.Type)
	}
	return nil
}

// Questionnaire is one loaded question set plus its identity in the catalog.
type Questionnaire struct {
	ID        string     `yaml:"id,omitempty"`
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

// QuestionByID returns the question with the given id, or nil.
func (f *Questionnaire) QuestionByID(id int) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// Validate runs per-question validation and checks id uniqueness.
func (f *Questionnaire) Validate() error {
	seen := make(map[int]bool, len(f.Questions))
	for i := range f.Questions {
		q := &f.Questions[i]
		if err := q.Validate(); err != nil {
			return err
		}
		if seen[q.ID] {
			return fmt.Errorf("question %d: duplicate id", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}
