package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType is the closed set of question kinds a survey can contain.
// The type is fixed when the question is created and never changes afterwards.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	Text           QuestionType = "TEXT"
	Rating         QuestionType = "RATING"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, Text, Rating:
		return true
	}
	return false
}

// Option is a single choice of a multiple-choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one prompt in a survey. Options is present only for
// MULTIPLE_CHOICE questions and always holds at least one entry there.
// MaxLength bounds TEXT answers when non-zero.
type Question struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Text      string       `json:"text"`
	Required  bool         `json:"required"`
	Options   []Option     `json:"options,omitempty"`
	MaxLength int          `json:"maxLength,omitempty"`
}

// OptionByID returns the option with the given id.
func (q *Question) OptionByID(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// QuestionList stores the ordered questions of a survey as a single JSONB
// document, preserving question order exactly as edited.
type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		l = QuestionList{}
	}
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = QuestionList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for QuestionList", value)
}

// Survey is the authoritative survey document. ID is assigned by the
// repository on first save; an empty ID marks an unsaved draft.
type Survey struct {
	ID          string       `json:"id" gorm:"primaryKey;size:36"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Questions   QuestionList `json:"questions" gorm:"type:jsonb"`
	CreatedBy   uint         `json:"createdBy" gorm:"index"`
	IsPublished bool         `json:"isPublished"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// QuestionByID returns the question with the given id.
func (s *Survey) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// SurveySummary is the dashboard listing shape: the survey plus its derived
// response count. The count is never stored on the survey document.
type SurveySummary struct {
	Survey
	ResponseCount int64 `json:"responseCount"`
}
