// Package stats computes per-question statistics from a survey and its
// submitted responses. Aggregation is a pure function of its inputs: same
// survey and responses, same output.
package stats

import "github.com/Abhishekabysm/dynamic-survey-builder/internal/models"

// RatingBucket is one row of a rating distribution.
type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// QuestionStats carries the statistics of one question. Exactly one of the
// type-specific sections is populated, selected by Type. Total counts the
// answers that contributed to the statistics.
type QuestionStats struct {
	QuestionID   string              `json:"questionId"`
	QuestionText string              `json:"questionText"`
	Type         models.QuestionType `json:"type"`
	Total        int                 `json:"total"`

	// MULTIPLE_CHOICE
	OptionCounts map[string]int `json:"optionCounts,omitempty"`

	// RATING
	Average      float64        `json:"average,omitempty"`
	Distribution []RatingBucket `json:"distribution,omitempty"`

	// TEXT
	Responses []string `json:"responses,omitempty"`
}

// MinRating and MaxRating bound the accepted rating scale. Values outside
// the scale are ignored during aggregation.
const (
	MinRating = 1
	MaxRating = 5
)

// Aggregate computes statistics for every question of the survey, in the
// survey's question order. Questions with no matching answers are still
// emitted with zeroed statistics so a results view can show "0 responses".
// Answers referencing a question or option no longer on the survey are
// skipped silently.
func Aggregate(survey *models.Survey, responses []models.Response) []QuestionStats {
	out := make([]QuestionStats, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		out = append(out, aggregateQuestion(q, responses))
	}
	return out
}

func aggregateQuestion(q models.Question, responses []models.Response) QuestionStats {
	st := QuestionStats{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Type:         q.Type,
	}

	switch q.Type {
	case models.MultipleChoice:
		st.OptionCounts = make(map[string]int, len(q.Options))
		for _, o := range q.Options {
			st.OptionCounts[o.Text] = 0
		}
		for _, a := range collect(q.ID, responses) {
			if a.Kind != models.AnswerChoice {
				continue
			}
			// Answers carry the chosen option's text as submitted; an answer
			// whose option was removed or relabelled afterwards counts nowhere.
			if _, ok := st.OptionCounts[a.Choice]; !ok {
				continue
			}
			st.OptionCounts[a.Choice]++
			st.Total++
		}

	case models.Rating:
		st.Distribution = make([]RatingBucket, 0, MaxRating)
		counts := make(map[int]int)
		sum := 0
		for _, a := range collect(q.ID, responses) {
			if a.Kind != models.AnswerRating || a.Rating < MinRating || a.Rating > MaxRating {
				continue
			}
			counts[a.Rating]++
			sum += a.Rating
			st.Total++
		}
		for r := MinRating; r <= MaxRating; r++ {
			st.Distribution = append(st.Distribution, RatingBucket{Rating: r, Count: counts[r]})
		}
		if st.Total > 0 {
			st.Average = float64(sum) / float64(st.Total)
		}

	case models.Text:
		st.Responses = []string{}
		for _, a := range collect(q.ID, responses) {
			if a.Kind != models.AnswerText || a.Text == "" {
				continue
			}
			st.Responses = append(st.Responses, a.Text)
			st.Total++
		}
	}

	return st
}

// collect gathers the non-empty answers for one question across all
// responses, preserving response order.
func collect(questionID string, responses []models.Response) []models.Answer {
	var answers []models.Answer
	for _, r := range responses {
		for _, a := range r.Answers {
			if a.QuestionID != questionID || a.Kind == models.AnswerNone {
				continue
			}
			answers = append(answers, a)
		}
	}
	return answers
}
