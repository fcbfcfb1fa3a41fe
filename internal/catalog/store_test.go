package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audite/formgraph/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleQuestionnaire() *models.Questionnaire {
	return &models.Questionnaire{
		Title: "Heating audit",
		Questions: []models.Question{
			{ID: 1, Order: 1, Text: "Do you have a heating system?",
				Type: models.TypeSingleChoice, Options: []string{"Yes", "No"}},
			{ID: 2, Order: 2, Text: "Which fuels does it use?",
				Type: models.TypeMultiChoice, Options: []string{"Gas", "Electricity"},
				ParentID: 1, Operator: models.OpEquals, ConditionValue: "Yes"},
		},
	}
}

func TestImportAndGet(t *testing.T) {
	s := testStore(t)

	id, err := s.Import(sampleQuestionnaire(), "questions-heating.yaml", true)
	require.NoError(t, err)
	require.NotEmpty(t, id, "an id is generated when the questionnaire has none")

	quest, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, quest.ID)
	assert.Equal(t, "Heating audit", quest.Title)
	require.Len(t, quest.Questions, 2)

	// The definition round-trips through serialization intact.
	q2 := quest.Questions[1]
	assert.Equal(t, 1, q2.ParentID)
	assert.Equal(t, models.OpEquals, q2.Operator)
	assert.Equal(t, "Yes", q2.ConditionValue)
	assert.Equal(t, []string{"Gas", "Electricity"}, q2.Options)
}

func TestImportUpserts(t *testing.T) {
	s := testStore(t)

	quest := sampleQuestionnaire()
	quest.ID = "fixed-id"

	id, err := s.Import(quest, "v1.yaml", true)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	quest.Title = "Heating audit v2"
	id, err = s.Import(quest, "v2.yaml", false)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", id)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 1, "re-importing the same id must replace, not duplicate")
	assert.Equal(t, "Heating audit v2", entries[0].Title)
	assert.Equal(t, "v2.yaml", entries[0].SourceFile)
	assert.False(t, entries[0].Valid)
}

func TestList(t *testing.T) {
	s := testStore(t)

	first := sampleQuestionnaire()
	first.ID = "first"
	_, err := s.Import(first, "a.yaml", true)
	require.NoError(t, err)

	second := sampleQuestionnaire()
	second.ID = "second"
	second.Title = "Lighting audit"
	_, err = s.Import(second, "b.yaml", true)
	require.NoError(t, err)

	entries, err := s.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, 2, e.QuestionCount)
		assert.Equal(t, 1, e.ConditionalCount)
		assert.True(t, e.Valid)
		assert.False(t, e.ImportedAt.IsZero())
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	_, err := s.Get("no-such-id")
	assert.ErrorContains(t, err, "not found")
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	quest := sampleQuestionnaire()
	quest.ID = "doomed"
	_, err := s.Import(quest, "", true)
	require.NoError(t, err)

	require.NoError(t, s.Delete("doomed"))

	entries, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.ErrorContains(t, s.Delete("doomed"), "not found")
}

func TestImportNil(t *testing.T) {
	s := testStore(t)
	_, err := s.Import(nil, "", true)
	assert.Error(t, err)
}
