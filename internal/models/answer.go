package models

import (
	"strconv"
	"strings"
)

// AnswerKind discriminates the shape of an answer value.
type AnswerKind int

const (
	// KindScalar covers single-choice, dropdown, free-text and number answers.
	KindScalar AnswerKind = iota
	// KindList covers multi-choice answers (ordered selection of options).
	KindList
	// KindRanked covers ranked-list answers (name/percentage tuples).
	KindRanked
)

// RankedItem is one entry of a ranked-list answer.
type RankedItem struct {
	Name       string  `yaml:"name"`
	Percentage float64 `yaml:"percentage"`
}

// AnswerValue is a tagged variant holding one answer in whichever shape the
// question type dictates. The zero value is an empty scalar.
type AnswerValue struct {
	kind   AnswerKind
	scalar string
	list   []string
	ranked []RankedItem
}

// Scalar wraps a single text value.
func Scalar(v string) AnswerValue {
	return AnswerValue{kind: KindScalar, scalar: v}
}

// Number wraps a numeric value as a scalar answer.
func Number(v float64) AnswerValue {
	return AnswerValue{kind: KindScalar, scalar: strconv.FormatFloat(v, 'f', -1, 64)}
}

// List wraps a multi-choice selection.
func List(values ...string) AnswerValue {
	return AnswerValue{kind: KindList, list: values}
}

// Ranked wraps a ranked-list answer.
func Ranked(items ...RankedItem) AnswerValue {
	return AnswerValue{kind: KindRanked, ranked: items}
}

// Kind returns the shape tag of the value.
func (v AnswerValue) Kind() AnswerKind { return v.kind }

// ScalarValue returns the scalar text and whether the value is scalar-shaped.
func (v AnswerValue) ScalarValue() (string, bool) {
	return v.scalar, v.kind == KindScalar
}

// ListValue returns the selected options and whether the value is list-shaped.
func (v AnswerValue) ListValue() ([]string, bool) {
	return v.list, v.kind == KindList
}

// RankedValue returns the ranked items and whether the value is ranked-shaped.
func (v AnswerValue) RankedValue() ([]RankedItem, bool) {
	return v.ranked, v.kind == KindRanked
}

// IsEmpty reports whether the value counts as unanswered: empty or
// whitespace-only scalar, zero-length list, zero-length ranked list.
func (v AnswerValue) IsEmpty() bool {
	switch v.kind {
	case KindScalar:
		return strings.TrimSpace(v.scalar) == ""
	case KindList:
		return len(v.list) == 0
	case KindRanked:
		return len(v.ranked) == 0
	}
	return true
}

// Equals reports whether the answer strictly matches expected under the
// equality rule used by condition evaluation: case-insensitive comparison
// for scalars, membership for list shapes.
func (v AnswerValue) Equals(expected string) bool {
	switch v.kind {
	case KindScalar:
		return strings.EqualFold(strings.TrimSpace(v.scalar), strings.TrimSpace(expected))
	case KindList:
		return v.containsElement(expected)
	case KindRanked:
		return v.containsElement(expected)
	}
	return false
}

// Includes reports whether the answer includes expected: element membership
// for list shapes, case-insensitive substring match for scalars.
func (v AnswerValue) Includes(expected string) bool {
	switch v.kind {
	case KindScalar:
		return strings.Contains(strings.ToLower(v.scalar), strings.ToLower(expected))
	case KindList:
		return v.containsElement(expected)
	case KindRanked:
		return v.containsElement(expected)
	}
	return false
}

func (v AnswerValue) containsElement(expected string) bool {
	for _, item := range v.list {
		if strings.EqualFold(strings.TrimSpace(item), strings.TrimSpace(expected)) {
			return true
		}
	}
	for _, item := range v.ranked {
		if strings.EqualFold(strings.TrimSpace(item.Name), strings.TrimSpace(expected)) {
			return true
		}
	}
	return false
}

// String renders the value for display and logging.
func (v AnswerValue) String() string {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindList:
		return strings.Join(v.list, ", ")
	case KindRanked:
		parts := make([]string, 0, len(v.ranked))
		for _, item := range v.ranked {
			parts = append(parts, item.Name+"="+strconv.FormatFloat(item.Percentage, 'f', -1, 64)+"%")
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// AnswerMap maps question ids to their current answers. Absence of a key
// means the question is unanswered. The map is owned by the form controller;
// evaluation code only reads it.
type AnswerMap map[int]AnswerValue

// Has reports whether the question has any entry, empty or not.
func (m AnswerMap) Has(id int) bool {
	_, ok := m[id]
	return ok
}

// Answered reports whether the question has a non-empty answer.
func (m AnswerMap) Answered(id int) bool {
	v, ok := m[id]
	return ok && !v.IsEmpty()
}

// Clone returns a shallow copy of the map.
func (m AnswerMap) Clone() AnswerMap {
	clone := make(AnswerMap, len(m))
	for id, v := range m {
		clone[id] = v
	}
	return clone
}
