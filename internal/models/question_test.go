package models

import (
	"strings"
	"testing"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		wantErr  string
	}{
		{
			name:     "valid free text",
			question: Question{ID: 1, Text: "Describe your process", Type: TypeFreeText},
		},
		{
			name:     "valid single choice",
			question: Question{ID: 2, Text: "Monitored?", Type: TypeSingleChoice, Options: []string{"Yes", "No"}},
		},
		{
			name:     "zero id",
			question: Question{ID: 0, Text: "x", Type: TypeFreeText},
			wantErr:  "positive integer",
		},
		{
			name:     "negative id",
			question: Question{ID: -3, Text: "x", Type: TypeFreeText},
			wantErr:  "positive integer",
		},
		{
			name:     "missing text",
			question: Question{ID: 1, Type: TypeFreeText},
			wantErr:  "text is required",
		},
		{
			name:     "unknown type",
			question: Question{ID: 1, Text: "x", Type: "slider"},
			wantErr:  "unknown type",
		},
		{
			name:     "choice without options",
			question: Question{ID: 1, Text: "x", Type: TypeDropdown},
			wantErr:  "require options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestQuestionHasOption(t *testing.T) {
	q := Question{Options: []string{"Yes", "No", "Other"}}

	if !q.HasOption("yes") {
		t.Error("option lookup must be case-insensitive")
	}
	if q.HasOption("Maybe") {
		t.Error("unexpected option match")
	}
}

func TestQuestionnaireValidateDuplicateID(t *testing.T) {
	quest := Questionnaire{
		Title: "dup",
		Questions: []Question{
			{ID: 1, Text: "a", Type: TypeFreeText},
			{ID: 1, Text: "b", Type: TypeFreeText},
		},
	}

	err := quest.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestQuestionnaireQuestionByID(t *testing.T) {
	quest := Questionnaire{Questions: []Question{
		{ID: 1, Text: "a", Type: TypeFreeText},
		{ID: 7, Text: "b", Type: TypeFreeText},
	}}

	if q := quest.QuestionByID(7); q == nil || q.Text != "b" {
		t.Fatalf("QuestionByID(7) = %+v", q)
	}
	if q := quest.QuestionByID(99); q != nil {
		t.Fatalf("expected nil for unknown id, got %+v", q)
	}
}
