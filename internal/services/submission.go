package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

// ErrNotAnswerable is returned when a submission targets a survey that is
// missing or not published. Respondents never see unpublished surveys.
var ErrNotAnswerable = errors.New("survey is not accepting responses")

// ValidationError rejects a submission, naming the first question that
// failed. Nothing is persisted on a validation failure.
type ValidationError struct {
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Message)
}

// RawAnswer is the respondent's input for one question, before it is typed
// by the owning question. Only the field matching the question's type is
// read; the rest are ignored.
type RawAnswer struct {
	Text   string `json:"text,omitempty"`
	Choice string `json:"choice,omitempty"`
	Rating int    `json:"rating,omitempty"`
}

// ResponseWriter is the persistence dependency of the submission flow.
type ResponseWriter interface {
	Create(ctx context.Context, response *models.Response) (string, error)
}

// SubmissionService validates a respondent's answers against the survey and
// packages them into an immutable Response document.
type SubmissionService struct {
	responses ResponseWriter
	now       func() time.Time
}

func NewSubmissionService(responses ResponseWriter) *SubmissionService {
	return &SubmissionService{
		responses: responses,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit checks every required question has a non-empty answer, builds the
// answers in the survey's question order and persists the response with a
// server-assigned timestamp. The raw map's iteration order never matters:
// position comes from the survey document alone.
func (s *SubmissionService) Submit(ctx context.Context, survey *models.Survey, raw map[string]RawAnswer) (*models.Response, error) {
	if survey == nil || !survey.IsPublished {
		return nil, ErrNotAnswerable
	}

	answers := make(models.AnswerList, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		answer := typedAnswer(q, raw)
		if q.Required && answer.IsEmpty() {
			return nil, &ValidationError{QuestionID: q.ID, Message: "an answer is required"}
		}
		if q.Type == models.Text && q.MaxLength > 0 && len(answer.Text) > q.MaxLength {
			return nil, &ValidationError{
				QuestionID: q.ID,
				Message:    fmt.Sprintf("answer exceeds %d characters", q.MaxLength),
			}
		}
		answers = append(answers, answer)
	}

	response := &models.Response{
		SurveyID:    survey.ID,
		Answers:     answers,
		SubmittedAt: s.now(),
	}
	if _, err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// typedAnswer lifts the raw input into the tagged answer variant selected
// by the question's type. A missing or empty input becomes AnswerNone.
func typedAnswer(q models.Question, raw map[string]RawAnswer) models.Answer {
	answer := models.Answer{QuestionID: q.ID, Kind: models.AnswerNone}
	in, ok := raw[q.ID]
	if !ok {
		return answer
	}
	switch q.Type {
	case models.Text:
		if in.Text != "" {
			answer.Kind = models.AnswerText
			answer.Text = in.Text
		}
	case models.MultipleChoice:
		if in.Choice != "" {
			answer.Kind = models.AnswerChoice
			answer.Choice = in.Choice
		}
	case models.Rating:
		if in.Rating != 0 {
			answer.Kind = models.AnswerRating
			answer.Rating = in.Rating
		}
	}
	return answer
}
