package models

import "testing"

func TestAnswerValueIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		want  bool
	}{
		{name: "empty scalar", value: Scalar(""), want: true},
		{name: "whitespace scalar", value: Scalar("   "), want: true},
		{name: "filled scalar", value: Scalar("Yes"), want: false},
		{name: "number", value: Number(0), want: false},
		{name: "empty list", value: List(), want: true},
		{name: "filled list", value: List("Gas"), want: false},
		{name: "empty ranked", value: Ranked(), want: true},
		{name: "filled ranked", value: Ranked(RankedItem{Name: "Lighting", Percentage: 40}), want: false},
		{name: "zero value", value: AnswerValue{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnswerValueEquals(t *testing.T) {
	tests := []struct {
		name     string
		value    AnswerValue
		expected string
		want     bool
	}{
		{name: "scalar match", value: Scalar("Yes"), expected: "Yes", want: true},
		{name: "scalar case-insensitive", value: Scalar("yes"), expected: "YES", want: true},
		{name: "scalar trims whitespace", value: Scalar(" Yes "), expected: "Yes", want: true},
		{name: "scalar mismatch", value: Scalar("No"), expected: "Yes", want: false},
		{name: "number match", value: Number(42), expected: "42", want: true},
		{name: "list treats equals as membership", value: List("Gas", "Steam"), expected: "Gas", want: true},
		{name: "list non-member", value: List("Gas"), expected: "Steam", want: false},
		{name: "ranked membership by name", value: Ranked(RankedItem{Name: "Lighting", Percentage: 40}), expected: "lighting", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Equals(tt.expected); got != tt.want {
				t.Errorf("Equals(%q) = %v, want %v", tt.expected, got, tt.want)
			}
		})
	}
}

func TestAnswerValueIncludes(t *testing.T) {
	tests := []struct {
		name     string
		value    AnswerValue
		expected string
		want     bool
	}{
		{name: "list member", value: List("Electricity", "Gas"), expected: "Gas", want: true},
		{name: "list member case-insensitive", value: List("Electricity"), expected: "electricity", want: true},
		{name: "list non-member", value: List("Electricity"), expected: "Gas", want: false},
		{name: "scalar substring", value: Scalar("Natural Gas boiler"), expected: "gas", want: true},
		{name: "scalar no substring", value: Scalar("Electric heater"), expected: "gas", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Includes(tt.expected); got != tt.want {
				t.Errorf("Includes(%q) = %v, want %v", tt.expected, got, tt.want)
			}
		})
	}
}

func TestAnswerMapAnswered(t *testing.T) {
	m := AnswerMap{
		1: Scalar("Yes"),
		2: Scalar(""),
		3: List(),
	}

	if !m.Answered(1) {
		t.Error("expected question 1 to count as answered")
	}
	if m.Answered(2) {
		t.Error("empty scalar must not count as answered")
	}
	if m.Answered(3) {
		t.Error("empty list must not count as answered")
	}
	if m.Answered(4) {
		t.Error("missing entry must not count as answered")
	}
	if !m.Has(2) {
		t.Error("Has must report presence even for empty values")
	}
}

func TestAnswerMapClone(t *testing.T) {
	m := AnswerMap{1: Scalar("Yes")}
	clone := m.Clone()
	clone[2] = Scalar("No")

	if m.Has(2) {
		t.Error("mutating the clone must not affect the original")
	}
}
