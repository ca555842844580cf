package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AnswerKind tags the payload of an Answer so consumers can match on it
// exhaustively instead of type-asserting a loose value.
type AnswerKind string

const (
	AnswerNone   AnswerKind = "none"
	AnswerText   AnswerKind = "text"
	AnswerChoice AnswerKind = "choice"
	AnswerRating AnswerKind = "rating"
)

// Answer is one entry of a response, keyed by the question it answers.
// Exactly one of Text, Choice or Rating is meaningful, selected by Kind;
// AnswerNone marks a question the respondent skipped. Choice holds the
// chosen option's text as it read at submission time.
type Answer struct {
	QuestionID string     `json:"questionId"`
	Kind       AnswerKind `json:"kind"`
	Text       string     `json:"text,omitempty"`
	Choice     string     `json:"choice,omitempty"`
	Rating     int        `json:"rating,omitempty"`
}

// IsEmpty reports whether the answer carries no usable value.
func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case AnswerText:
		return a.Text == ""
	case AnswerChoice:
		return a.Choice == ""
	case AnswerRating:
		return a.Rating == 0
	}
	return true
}

// AnswerList stores the ordered answers of a response as a JSONB document.
type AnswerList []Answer

func (l AnswerList) Value() (driver.Value, error) {
	if l == nil {
		l = AnswerList{}
	}
	return json.Marshal(l)
}

func (l *AnswerList) Scan(value interface{}) error {
	if value == nil {
		*l = AnswerList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported type %T for AnswerList", value)
}

// Response is one submitted set of answers for a published survey.
// Responses are written once at submission and never edited. Answers follow
// the survey's question order at submission time; SubmittedAt is always
// assigned server-side.
type Response struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	SurveyID    string     `json:"surveyId" gorm:"index;size:36"`
	Answers     AnswerList `json:"answers" gorm:"type:jsonb"`
	SubmittedAt time.Time  `json:"submittedAt"`
}
