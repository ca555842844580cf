// Package editor holds the in-memory survey draft being edited by an owner
// session and the mutation operations the editing surface is built from.
// Operations are synchronous and local; nothing here touches storage.
package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

var (
	// ErrNoDraft is returned by operations invoked before a draft was
	// initialized or loaded.
	ErrNoDraft = errors.New("editor: no draft loaded")
	// ErrDraftLoaded is returned by InitDraft when a draft already exists,
	// so an in-progress edit is never silently thrown away.
	ErrDraftLoaded = errors.New("editor: a draft is already loaded")
	// ErrLastOption is returned when removing an option would leave a
	// multiple-choice question with none.
	ErrLastOption = errors.New("editor: cannot remove the last option")
	// ErrTypeImmutable is returned when an update tries to change a
	// question's type after creation.
	ErrTypeImmutable = errors.New("editor: question type cannot change")
)

// IndexError reports a reorder index outside the question list.
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("editor: index %d out of range [0,%d)", e.Index, e.Length)
}

// Session owns at most one survey draft. Access through Manager.With is
// serialized per owner; direct use is fine in tests.
type Session struct {
	mu    sync.Mutex
	draft *models.Survey
	now   func() time.Time
	newID func() string
}

func NewSession() *Session {
	return &Session{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// Draft returns the current draft, or nil when none is loaded. The pointer
// aliases session state; callers that hold it past the session lock must use
// Snapshot instead.
func (s *Session) Draft() *models.Survey {
	return s.draft
}

// Snapshot returns a deep copy of the draft that shares no memory with the
// session, or nil when none is loaded. Safe to read or marshal after the
// session lock has been released.
func (s *Session) Snapshot() *models.Survey {
	if s.draft == nil {
		return nil
	}
	copied := *s.draft
	copied.Questions = make(models.QuestionList, len(s.draft.Questions))
	for i, q := range s.draft.Questions {
		copied.Questions[i] = q
		copied.Questions[i].Options = append([]models.Option(nil), q.Options...)
	}
	return &copied
}

// InitDraft starts a fresh unsaved draft owned by ownerID. It refuses to
// overwrite a draft that is already loaded.
func (s *Session) InitDraft(ownerID uint) error {
	if s.draft != nil {
		return ErrDraftLoaded
	}
	s.draft = &models.Survey{
		Questions: models.QuestionList{},
		CreatedBy: ownerID,
		CreatedAt: s.now(),
	}
	return nil
}

// LoadDraft replaces the current draft with a copy of an existing survey.
// The copy is deep, so later edits never reach the caller's survey.
func (s *Session) LoadDraft(survey *models.Survey) {
	copied := *survey
	copied.Questions = make(models.QuestionList, len(survey.Questions))
	for i, q := range survey.Questions {
		copied.Questions[i] = q
		copied.Questions[i].Options = append([]models.Option(nil), q.Options...)
	}
	s.draft = &copied
}

// ClearDraft discards the current draft.
func (s *Session) ClearDraft() {
	s.draft = nil
}

func (s *Session) SetTitle(title string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft.Title = title
	return nil
}

func (s *Session) SetDescription(description string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft.Description = description
	return nil
}

// NewQuestion builds a question of the given type with a fresh id. It does
// not touch the draft; callers pass the result to AddQuestion. Multiple
// choice questions start with two placeholder options so they are valid
// from the moment they exist.
func (s *Session) NewQuestion(qt models.QuestionType) (models.Question, error) {
	if !qt.Valid() {
		return models.Question{}, fmt.Errorf("editor: unknown question type %q", qt)
	}
	q := models.Question{
		ID:   s.newID(),
		Type: qt,
	}
	if qt == models.MultipleChoice {
		q.Options = []models.Option{
			{ID: s.newID(), Text: "Option 1"},
			{ID: s.newID(), Text: "Option 2"},
		}
	}
	return q, nil
}

// AddQuestion appends a question to the end of the draft's question list.
func (s *Session) AddQuestion(q models.Question) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	s.draft.Questions = append(s.draft.Questions, q)
	return nil
}

// UpdateQuestion replaces the question whose id matches. A miss is a no-op:
// updates never insert. The question's type is fixed at creation and a
// multiple-choice question keeps at least one option.
func (s *Session) UpdateQuestion(q models.Question) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	for i, existing := range s.draft.Questions {
		if existing.ID != q.ID {
			continue
		}
		if q.Type != existing.Type {
			return ErrTypeImmutable
		}
		if q.Type == models.MultipleChoice && len(q.Options) == 0 {
			return ErrLastOption
		}
		s.draft.Questions[i] = q
		return nil
	}
	return nil
}

// RemoveQuestion deletes the question with the given id; a miss is a no-op.
func (s *Session) RemoveQuestion(questionID string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	questions := s.draft.Questions[:0]
	for _, q := range s.draft.Questions {
		if q.ID != questionID {
			questions = append(questions, q)
		}
	}
	s.draft.Questions = questions
	return nil
}

// ReorderQuestions moves the question at source to destination, shifting
// the rest. Both indices must address existing questions.
func (s *Session) ReorderQuestions(source, destination int) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	n := len(s.draft.Questions)
	if source < 0 || source >= n {
		return &IndexError{Index: source, Length: n}
	}
	if destination < 0 || destination >= n {
		return &IndexError{Index: destination, Length: n}
	}
	if source == destination {
		return nil
	}
	moved := s.draft.Questions[source]
	rest := append(s.draft.Questions[:source], s.draft.Questions[source+1:]...)
	questions := make(models.QuestionList, 0, n)
	questions = append(questions, rest[:destination]...)
	questions = append(questions, moved)
	questions = append(questions, rest[destination:]...)
	s.draft.Questions = questions
	return nil
}

// AddOption appends a new empty-labelled option to a multiple-choice
// question and returns it.
func (s *Session) AddOption(questionID string) (models.Option, error) {
	if s.draft == nil {
		return models.Option{}, ErrNoDraft
	}
	for i, q := range s.draft.Questions {
		if q.ID != questionID || q.Type != models.MultipleChoice {
			continue
		}
		opt := models.Option{
			ID:   s.newID(),
			Text: fmt.Sprintf("Option %d", len(q.Options)+1),
		}
		s.draft.Questions[i].Options = append(s.draft.Questions[i].Options, opt)
		return opt, nil
	}
	return models.Option{}, fmt.Errorf("editor: no multiple-choice question %q", questionID)
}

// UpdateOptionText replaces the label of one option; a miss is a no-op.
func (s *Session) UpdateOptionText(questionID, optionID, text string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	for i, q := range s.draft.Questions {
		if q.ID != questionID {
			continue
		}
		for j, o := range q.Options {
			if o.ID == optionID {
				s.draft.Questions[i].Options[j].Text = text
				return nil
			}
		}
	}
	return nil
}

// RemoveOption deletes one option of a multiple-choice question. The last
// remaining option can never be removed.
func (s *Session) RemoveOption(questionID, optionID string) error {
	if s.draft == nil {
		return ErrNoDraft
	}
	for i, q := range s.draft.Questions {
		if q.ID != questionID {
			continue
		}
		if _, ok := q.OptionByID(optionID); !ok {
			return nil
		}
		if len(q.Options) <= 1 {
			return ErrLastOption
		}
		options := q.Options[:0]
		for _, o := range q.Options {
			if o.ID != optionID {
				options = append(options, o)
			}
		}
		s.draft.Questions[i].Options = options
		return nil
	}
	return nil
}
