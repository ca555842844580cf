package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/stats"
)

// ResultsHandler aggregates a survey's responses into per-question
// statistics and chart options for the owner's results view.
type ResultsHandler struct {
	log       *zap.Logger
	surveys   SurveyStore
	responses ResponseStore
}

func NewResultsHandler(log *zap.Logger, surveys SurveyStore, responses ResponseStore) *ResultsHandler {
	return &ResultsHandler{log: log, surveys: surveys, responses: responses}
}

type questionResult struct {
	stats.QuestionStats
	Chart json.RawMessage `json:"chart,omitempty"`
}

type resultsView struct {
	SurveyID      string           `json:"surveyId"`
	Title         string           `json:"title"`
	ResponseCount int              `json:"responseCount"`
	Questions     []questionResult `json:"questions"`
}

// Show computes the full results view for one owned survey.
func (h *ResultsHandler) Show(c *gin.Context) {
	user, _ := currentUser(c)
	survey, err := h.surveys.Get(c.Request.Context(), c.Param("surveyId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}
	if survey.CreatedBy != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}

	responses, err := h.responses.ListBySurvey(c.Request.Context(), survey.ID)
	if err != nil {
		h.log.Error("Failed to load responses", zap.Error(err), zap.String("surveyID", survey.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load results"})
		return
	}

	aggregated := stats.Aggregate(survey, responses)
	questions := make([]questionResult, 0, len(aggregated))
	for i, st := range aggregated {
		result := questionResult{QuestionStats: st}
		if chart := buildChart(survey.Questions[i], st); chart != nil {
			encoded, err := json.Marshal(chart.JSON())
			if err == nil {
				result.Chart = encoded
			}
		}
		questions = append(questions, result)
	}

	c.JSON(http.StatusOK, resultsView{
		SurveyID:      survey.ID,
		Title:         survey.Title,
		ResponseCount: len(responses),
		Questions:     questions,
	})
}

// buildChart renders the chart options for one question's statistics. TEXT
// questions list their answers verbatim and get no chart.
func buildChart(q models.Question, st stats.QuestionStats) *charts.Bar {
	switch st.Type {
	case models.MultipleChoice:
		labels := make([]string, 0, len(q.Options))
		items := make([]opts.BarData, 0, len(q.Options))
		// Iterate the question's options rather than the count map so the
		// chart keeps the editor's option order.
		for _, o := range q.Options {
			labels = append(labels, o.Text)
			items = append(items, opts.BarData{Value: st.OptionCounts[o.Text]})
		}
		return barChart(q.Text, "Responses per option", labels, items)

	case models.Rating:
		labels := make([]string, 0, len(st.Distribution))
		items := make([]opts.BarData, 0, len(st.Distribution))
		for _, bucket := range st.Distribution {
			labels = append(labels, fmt.Sprintf("%d", bucket.Rating))
			items = append(items, opts.BarData{Value: bucket.Count})
		}
		subtitle := fmt.Sprintf("Average rating %.1f", st.Average)
		return barChart(q.Text, subtitle, labels, items)
	}
	return nil
}

func barChart(title, subtitle string, labels []string, items []opts.BarData) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value"}),
	)
	bar.SetXAxis(labels).AddSeries("Responses", items)
	return bar
}
