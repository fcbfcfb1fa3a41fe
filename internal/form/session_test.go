package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audite/formgraph/internal/models"
)

func heatingQuestionnaire() *models.Questionnaire {
	return &models.Questionnaire{
		Title: "Heating audit",
		Questions: []models.Question{
			{ID: 1, Order: 1, Text: "Do you have a heating system?", Required: true,
				Type: models.TypeSingleChoice, Options: []string{"Yes", "No"}},
			{ID: 2, Order: 2, Text: "Which fuels does it use?", Required: true,
				Type: models.TypeMultiChoice, Options: []string{"Gas", "Electricity", "Oil"},
				HasOtherOption: true,
				ParentID:       1, Operator: models.OpEquals, ConditionValue: "Yes"},
			{ID: 3, Order: 3, Text: "What is the gas boiler's age?",
				Type:     models.TypeNumber,
				ParentID: 2, Operator: models.OpIncludes, ConditionValue: "Gas"},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(heatingQuestionnaire(), DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t)

	assert.NotEmpty(t, s.ID)
	assert.True(t, s.Validation().Valid)
	require.Len(t, s.Records(), 3)

	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, 1, visible[0].ID)
	assert.Equal(t, 0, s.PercentComplete())
}

func TestNewSessionRejectsNil(t *testing.T) {
	_, err := NewSession(nil, DefaultOptions())
	assert.Error(t, err)
}

func TestSetAnswerRevealsAndCompletes(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	assert.Len(t, s.Visible(), 2)
	assert.Equal(t, 50, s.PercentComplete())

	require.NoError(t, s.SetAnswer(2, models.List("Gas")))
	assert.Len(t, s.Visible(), 3)
	assert.Equal(t, 67, s.PercentComplete())

	require.NoError(t, s.SetAnswer(3, models.Number(12)))
	assert.Equal(t, 100, s.PercentComplete())
}

func TestSetAnswersBatchIsOrderIndependent(t *testing.T) {
	// The child's id sorts before its parent's; applying the same answers
	// one at a time would cascade-clear the child before the parent lands.
	quest := &models.Questionnaire{
		Title: "Reversed ids",
		Questions: []models.Question{
			{ID: 2, Order: 1, Text: "Do you have a heating system?", Required: true,
				Type: models.TypeSingleChoice, Options: []string{"Yes", "No"}},
			{ID: 1, Order: 2, Text: "Which fuel does it burn?", Required: true,
				Type: models.TypeSingleChoice, Options: []string{"Gas", "Oil"},
				ParentID: 2, Operator: models.OpEquals, ConditionValue: "Yes"},
		},
	}
	s, err := NewSession(quest, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, s.SetAnswers(models.AnswerMap{
		2: models.Scalar("Yes"),
		1: models.Scalar("Gas"),
	}))

	answers := s.Answers()
	assert.True(t, answers.Has(1), "child answer must survive the batch install")
	assert.True(t, answers.Has(2))
	assert.Equal(t, 100, s.PercentComplete())
}

func TestSetAnswersUnknownQuestion(t *testing.T) {
	s := newTestSession(t)

	err := s.SetAnswers(models.AnswerMap{99: models.Scalar("x")})
	assert.Error(t, err)
	assert.Empty(t, s.Answers(), "a failed batch must not install any answer")
}

func TestSetAnswerUnknownQuestion(t *testing.T) {
	s := newTestSession(t)
	assert.Error(t, s.SetAnswer(99, models.Scalar("x")))
}

func TestCascadeClearing(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	require.NoError(t, s.SetAnswer(2, models.List("Gas")))
	require.NoError(t, s.SetAnswer(3, models.Number(12)))

	// Flipping the root to No hides the whole branch and clears both
	// downstream answers in the same transaction.
	require.NoError(t, s.SetAnswer(1, models.Scalar("No")))

	answers := s.Answers()
	assert.False(t, answers.Has(2), "hidden question 2 must not keep its answer")
	assert.False(t, answers.Has(3), "hidden question 3 must not keep its answer")
	require.Len(t, s.Visible(), 1)
	assert.Equal(t, 100, s.PercentComplete())

	// Flipping back reveals the branch empty again.
	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	assert.Equal(t, 50, s.PercentComplete())
}

func TestClearAnswerCascades(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	require.NoError(t, s.SetAnswer(2, models.List("Gas")))
	require.NoError(t, s.SetAnswer(3, models.Number(5)))

	s.ClearAnswer(1)

	answers := s.Answers()
	assert.Empty(t, answers)
	assert.Equal(t, 0, s.PercentComplete())
}

func TestOtherFieldLifecycle(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	require.NoError(t, s.SetAnswer(2, models.List("Other")))
	assert.True(t, s.Other().IsVisible(2))
	assert.True(t, s.Other().IsRequired(2))

	s.Other().ValidateNow(2, "district heating")

	// Dropping Other from the selection clears the satellite field.
	require.NoError(t, s.SetAnswer(2, models.List("Gas")))
	assert.False(t, s.Other().IsVisible(2))
	assert.Empty(t, s.Other().Text(2))
}

func TestSubmissionCheck(t *testing.T) {
	s := newTestSession(t)

	check := s.Validate()
	assert.False(t, check.Valid)
	assert.Equal(t, []int{1}, check.MissingRequired)

	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	check = s.Validate()
	assert.False(t, check.Valid)
	assert.Equal(t, []int{2}, check.MissingRequired)

	// Answering with Other makes the satellite field required too.
	require.NoError(t, s.SetAnswer(2, models.List("Other")))
	check = s.Validate()
	assert.False(t, check.Valid)
	assert.Empty(t, check.MissingRequired)
	require.Contains(t, check.OtherErrors, 2)

	s.Other().ValidateNow(2, "wood pellets")
	check = s.Validate()
	assert.True(t, check.Valid)
	assert.Empty(t, check.StaleAnswers)
}

func TestExportAnswers(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetAnswer(1, models.Scalar("Yes")))
	require.NoError(t, s.SetAnswer(2, models.List("Other")))
	s.Other().ValidateNow(2, "district heating")

	exports := s.ExportAnswers()
	require.Len(t, exports, 2)

	assert.Equal(t, 1, exports[0].QuestionID)
	assert.True(t, exports[0].Value.Equals("Yes"))
	assert.Empty(t, exports[0].OtherText)

	assert.Equal(t, 2, exports[1].QuestionID)
	assert.Equal(t, "district heating", exports[1].OtherText)
}

func TestSubmissionCheckComplete(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.SetAnswer(1, models.Scalar("No")))

	check := s.Validate()
	assert.True(t, check.Valid)
	assert.Empty(t, check.MissingRequired)
	assert.Empty(t, check.StaleAnswers)
	assert.Empty(t, check.OtherErrors)
	assert.Equal(t, 100, s.PercentComplete())
}
