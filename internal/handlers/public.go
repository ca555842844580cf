package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/cache"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/repository"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/services"
)

// PublicHandler serves respondents: anyone holding a share link can fetch a
// published survey and submit answers, no account required.
type PublicHandler struct {
	log        *zap.Logger
	surveys    SurveyStore
	submission *services.SubmissionService
	counts     *cache.CountCache
}

func NewPublicHandler(log *zap.Logger, surveys SurveyStore, submission *services.SubmissionService, counts *cache.CountCache) *PublicHandler {
	return &PublicHandler{log: log, surveys: surveys, submission: submission, counts: counts}
}

// Get returns a published survey. Unpublished and missing surveys are
// indistinguishable to respondents.
func (h *PublicHandler) Get(c *gin.Context) {
	survey, err := h.surveys.Get(c.Request.Context(), c.Param("surveyId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
			return
		}
		h.log.Error("Failed to load public survey", zap.Error(err), zap.String("surveyID", c.Param("surveyId")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return
	}
	if !survey.IsPublished {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}
	c.JSON(http.StatusOK, survey)
}

type submitRequest struct {
	Answers map[string]services.RawAnswer `json:"answers"`
}

// Submit validates and stores a respondent's answers.
func (h *PublicHandler) Submit(c *gin.Context) {
	surveyID := c.Param("surveyId")
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	survey, err := h.surveys.Get(c.Request.Context(), surveyID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.log.Error("Failed to load survey for submission", zap.Error(err), zap.String("surveyID", surveyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit response"})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		survey = nil // the submission service rejects missing surveys
	}

	response, err := h.submission.Submit(c.Request.Context(), survey, req.Answers)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrNotAnswerable):
			c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		case errors.As(err, &validationErr):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      validationErr.Message,
				"questionId": validationErr.QuestionID,
			})
		default:
			h.log.Error("Failed to store response", zap.Error(err), zap.String("surveyID", surveyID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit response"})
		}
		return
	}

	h.counts.Invalidate(c.Request.Context(), surveyID)
	c.JSON(http.StatusCreated, gin.H{
		"id":          response.ID,
		"submittedAt": response.SubmittedAt,
	})
}
