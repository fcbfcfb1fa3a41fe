// Package otherfield manages the auxiliary "specify other" free-text
// fields that activate when a question is answered with the Other sentinel.
//
// The field is a conditionally-required satellite of its question: it is
// visible only while the main answer is (or includes) "Other", required
// only while visible on a required question, and its text and errors are
// cleared the moment the main answer moves away from "Other" so stale text
// is never silently resubmitted.
package otherfield

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/audite/formgraph/internal/models"
)

// Field error codes surfaced inline by the UI.
const (
	ErrRequiredEmpty = "required-empty"
	ErrTooShort      = "too-short"
	ErrTooLong       = "too-long"
)

// FieldError is one validation failure on an other-text value.
type FieldError struct {
	Code    string
	Message string
}

func (e FieldError) String() string { return e.Message }

// Limits bounds the accepted other-text length.
type Limits struct {
	MinLength int
	MaxLength int
}

// DefaultLimits returns the stock bounds: any non-empty text up to 500 runes.
func DefaultLimits() Limits {
	return Limits{MinLength: 0, MaxLength: 500}
}

// DefaultDebounce is the quiet period after the last keystroke before a
// buffered text edit is committed and validated.
const DefaultDebounce = 500 * time.Millisecond

// Visible reports whether the question's other field is currently active:
// the main answer equals the sentinel for scalar shapes, or includes it
// for list shapes.
func Visible(q *models.Question, answers models.AnswerMap) bool {
	if !q.HasOtherOption {
		return false
	}
	value, ok := answers[q.ID]
	if !ok {
		return false
	}
	if _, scalar := value.ScalarValue(); scalar {
		return value.Equals(models.OtherSentinel)
	}
	return value.Includes(models.OtherSentinel)
}

// Required reports whether the other field must be filled before submission.
func Required(q *models.Question, answers models.AnswerMap) bool {
	return q.Required && Visible(q, answers)
}

// Check validates a text value against the limits. Pure; used both by the
// debounced commit path and by ValidateNow.
func Check(text string, required bool, limits Limits) []FieldError {
	trimmed := strings.TrimSpace(text)

	var errs []FieldError
	if required && trimmed == "" {
		errs = append(errs, FieldError{
			Code:    ErrRequiredEmpty,
			Message: "required but empty",
		})
		return errs
	}
	if trimmed == "" {
		return nil
	}
	if limits.MinLength > 0 && len([]rune(trimmed)) < limits.MinLength {
		errs = append(errs, FieldError{
			Code:    ErrTooShort,
			Message: fmt.Sprintf("must be at least %d characters", limits.MinLength),
		})
	}
	if limits.MaxLength > 0 && len([]rune(trimmed)) > limits.MaxLength {
		errs = append(errs, FieldError{
			Code:    ErrTooLong,
			Message: fmt.Sprintf("must be at most %d characters", limits.MaxLength),
		})
	}
	return errs
}

// Store tracks other-text values, their visibility, and validation state
// for every other-capable question of one form session. Keystrokes are
// buffered and committed after a quiet period; ValidateNow bypasses the
// buffer for submission-time checks.
type Store struct {
	mu        sync.Mutex
	limits    Limits
	debounce  time.Duration
	questions map[int]*models.Question

	texts    map[int]string
	visible  map[int]bool
	required map[int]bool
	errs     map[int][]FieldError

	pending map[int]*time.Timer
}

// NewStore indexes the other-capable questions of the set. A zero debounce
// falls back to DefaultDebounce.
func NewStore(questions []models.Question, limits Limits, debounce time.Duration) *Store {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	s := &Store{
		limits:    limits,
		debounce:  debounce,
		questions: make(map[int]*models.Question),
		texts:     make(map[int]string),
		visible:   make(map[int]bool),
		required:  make(map[int]bool),
		errs:      make(map[int][]FieldError),
		pending:   make(map[int]*time.Timer),
	}
	for i := range questions {
		if questions[i].HasOtherOption {
			s.questions[questions[i].ID] = &questions[i]
		}
	}
	return s
}

// Sync recomputes visibility and requirement from the current answers.
// Fields transitioning from visible to hidden have their text and errors
// cleared.
func (s *Store) Sync(answers models.AnswerMap) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, q := range s.questions {
		nowVisible := Visible(q, answers)
		if s.visible[id] && !nowVisible {
			s.clearLocked(id)
		}
		s.visible[id] = nowVisible
		s.required[id] = q.Required && nowVisible
	}
}

// SetText buffers a keystroke-driven edit, committing and validating it
// after the quiet period elapses with no further edits.
func (s *Store) SetText(questionID int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[questionID]; !ok {
		return
	}

	if timer := s.pending[questionID]; timer != nil {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Stop cannot halt a callback already blocked on the lock, so a
		// fired timer may have been superseded by a newer edit or cleared
		// by a visibility transition while waiting. Only the current timer
		// for a still-visible field commits.
		if s.pending[questionID] != timer {
			return
		}
		delete(s.pending, questionID)
		if !s.visible[questionID] {
			return
		}
		s.commitLocked(questionID, text)
	})
	s.pending[questionID] = timer
}

// ValidateNow commits and validates the text immediately, for focus-loss
// and form-submission paths that cannot wait for the debounce window.
func (s *Store) ValidateNow(questionID int, text string) []FieldError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[questionID]; !ok {
		return nil
	}
	if timer := s.pending[questionID]; timer != nil {
		timer.Stop()
		delete(s.pending, questionID)
	}
	return s.commitLocked(questionID, text)
}

func (s *Store) commitLocked(questionID int, text string) []FieldError {
	s.texts[questionID] = text
	errs := Check(text, s.required[questionID], s.limits)
	s.errs[questionID] = errs
	return errs
}

func (s *Store) clearLocked(questionID int) {
	if timer := s.pending[questionID]; timer != nil {
		timer.Stop()
		delete(s.pending, questionID)
	}
	delete(s.texts, questionID)
	delete(s.errs, questionID)
}

// Text returns the committed other-text for the question.
func (s *Store) Text(questionID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texts[questionID]
}

// IsVisible reports the field's visibility as of the last Sync.
func (s *Store) IsVisible(questionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible[questionID]
}

// IsRequired reports the field's requirement as of the last Sync.
func (s *Store) IsRequired(questionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.required[questionID]
}

// Errors returns the current validation errors for the question's field.
func (s *Store) Errors(questionID int) []FieldError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FieldError(nil), s.errs[questionID]...)
}

// ValidateAll re-validates every visible field immediately. It returns
// true when no field has errors; used at submission time.
func (s *Store) ValidateAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	clean := true
	for id := range s.questions {
		if !s.visible[id] {
			continue
		}
		if timer := s.pending[id]; timer != nil {
			timer.Stop()
			delete(s.pending, id)
		}
		errs := Check(s.texts[id], s.required[id], s.limits)
		s.errs[id] = errs
		if len(errs) > 0 {
			clean = false
		}
	}
	return clean
}
