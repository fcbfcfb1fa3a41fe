// Package form owns one questionnaire session: an immutable question-set
// snapshot, the live answer map, and the derived visibility, progress and
// other-field state recomputed on every answer change.
package form

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/audite/formgraph/internal/graph"
	"github.com/audite/formgraph/internal/models"
	"github.com/audite/formgraph/internal/otherfield"
	"github.com/audite/formgraph/internal/visibility"
)

// Options tunes a session's satellite behavior.
type Options struct {
	OtherLimits   otherfield.Limits
	OtherDebounce time.Duration
}

// DefaultOptions returns the stock session options.
func DefaultOptions() Options {
	return Options{
		OtherLimits:   otherfield.DefaultLimits(),
		OtherDebounce: otherfield.DefaultDebounce,
	}
}

// Session is the form controller for one questionnaire. All methods are
// safe for concurrent use; derived state is recomputed as one transaction
// per answer change, visibility first, then completion.
type Session struct {
	// ID identifies this session toward the remote answer store.
	ID string

	mu         sync.Mutex
	quest      *models.Questionnaire
	validation models.ValidationResult
	answers    models.AnswerMap
	other      *otherfield.Store

	records []models.EvaluationRecord
	visible []models.Question
	percent int
}

// NewSession snapshots the questionnaire and validates its dependency
// structure once. A structurally broken questionnaire still yields a
// session (affected questions stay hidden); callers decide from
// Validation() whether to block the form entirely.
func NewSession(quest *models.Questionnaire, opts Options) (*Session, error) {
	if quest == nil {
		return nil, fmt.Errorf("questionnaire is required")
	}
	if err := quest.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		ID:         uuid.New().String(),
		quest:      quest,
		validation: graph.Validate(quest.Questions),
		answers:    make(models.AnswerMap),
		other:      otherfield.NewStore(quest.Questions, opts.OtherLimits, opts.OtherDebounce),
	}
	s.recomputeLocked()
	return s, nil
}

// SetAnswer records an answer and recomputes all derived state. Answers of
// questions that the change hides are cascade-cleared so hidden questions
// never hold stale values.
func (s *Session) SetAnswer(questionID int, value models.AnswerValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quest.QuestionByID(questionID) == nil {
		return fmt.Errorf("question %d not found", questionID)
	}

	s.answers[questionID] = value
	s.recomputeLocked()
	return nil
}

// SetAnswers installs a batch of answers and recomputes derived state once.
// Because every value is in place before visibility resolves, the batch is
// order-independent: a child answered alongside its parent is not cascade-
// cleared the way it would be if the answers arrived one at a time.
func (s *Session) SetAnswers(values models.AnswerMap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range values {
		if s.quest.QuestionByID(id) == nil {
			return fmt.Errorf("question %d not found", id)
		}
	}
	for id, value := range values {
		s.answers[id] = value
	}
	s.recomputeLocked()
	return nil
}

// ClearAnswer removes an answer and recomputes all derived state.
func (s *Session) ClearAnswer(questionID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.answers, questionID)
	s.recomputeLocked()
}

// recomputeLocked runs one answer-change transaction: resolve visibility,
// cascade-clear answers of questions that became hidden (which can hide
// further questions, so iterate to a fixpoint bounded by the set size),
// then recompute completion and other-field state.
func (s *Session) recomputeLocked() {
	for range s.quest.Questions {
		s.records = visibility.Resolve(s.quest.Questions, s.answers)

		cleared := false
		for _, rec := range s.records {
			if !rec.ShouldShow && s.answers.Has(rec.QuestionID) {
				delete(s.answers, rec.QuestionID)
				cleared = true
			}
		}
		if !cleared {
			break
		}
	}

	s.visible = visibility.VisibleQuestions(s.quest.Questions, s.answers)
	s.percent = visibility.PercentComplete(s.visible, s.answers)
	s.other.Sync(s.answers)

	if len(s.quest.Questions) == 0 {
		s.records = []models.EvaluationRecord{}
	}
}

// Records returns the latest evaluation records, one per question.
func (s *Session) Records() []models.EvaluationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.EvaluationRecord(nil), s.records...)
}

// Visible returns the currently visible questions in display order.
func (s *Session) Visible() []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Question(nil), s.visible...)
}

// PercentComplete returns the completion percentage over visible questions.
func (s *Session) PercentComplete() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.percent
}

// Answers returns a copy of the current answer map.
func (s *Session) Answers() models.AnswerMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// AnswerExport is one answered question's value together with the text of
// its other field, ready for submission to the answer store.
type AnswerExport struct {
	QuestionID int
	Value      models.AnswerValue
	OtherText  string
}

// ExportAnswers returns the current answers in ascending question id order,
// attaching each visible other field's committed text to its question.
func (s *Session) ExportAnswers() []AnswerExport {
	s.mu.Lock()
	answers := s.answers.Clone()
	s.mu.Unlock()

	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	exports := make([]AnswerExport, 0, len(ids))
	for _, id := range ids {
		exp := AnswerExport{QuestionID: id, Value: answers[id]}
		if s.other.IsVisible(id) {
			exp.OtherText = s.other.Text(id)
		}
		exports = append(exports, exp)
	}
	return exports
}

// Validation returns the structural validation result computed at session
// creation. It only changes when the question set itself changes, which
// ends the session.
func (s *Session) Validation() models.ValidationResult {
	return s.validation
}

// Other exposes the other-field co-validator for this session.
func (s *Session) Other() *otherfield.Store {
	return s.other
}

// SubmissionCheck reports whether the current answers are fit to submit.
type SubmissionCheck struct {
	Valid bool
	// MissingRequired lists visible required questions without an answer.
	MissingRequired []int
	// StaleAnswers lists answered questions that are not visible; present
	// only for questionnaires that bypass the session's cascade clearing.
	StaleAnswers []int
	// OtherErrors maps question ids to failing other-field validations.
	OtherErrors map[int][]otherfield.FieldError
}

// Validate performs the submission-time consistency check: required
// visible questions answered, no stale answers on hidden questions, and
// every visible other field valid (via the immediate, non-debounced path).
func (s *Session) Validate() SubmissionCheck {
	s.mu.Lock()
	visible := append([]models.Question(nil), s.visible...)
	answers := s.answers.Clone()
	s.mu.Unlock()

	check := SubmissionCheck{Valid: true, OtherErrors: make(map[int][]otherfield.FieldError)}

	_, missing := visibility.RequiredSatisfied(visible, answers)
	if len(missing) > 0 {
		check.Valid = false
		check.MissingRequired = missing
	}

	shown := make(map[int]bool, len(visible))
	for i := range visible {
		shown[visible[i].ID] = true
	}
	for id := range answers {
		if !shown[id] {
			check.Valid = false
			check.StaleAnswers = append(check.StaleAnswers, id)
		}
	}

	if !s.other.ValidateAll() {
		check.Valid = false
		for i := range s.quest.Questions {
			q := &s.quest.Questions[i]
			if !q.HasOtherOption {
				continue
			}
			if errs := s.other.Errors(q.ID); len(errs) > 0 {
				check.OtherErrors[q.ID] = errs
			}
		}
	}

	return check
}
