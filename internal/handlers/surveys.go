package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/cache"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/repository"
)

// SurveyHandler serves the owner's dashboard surface: listing, inspecting,
// publishing and deleting surveys.
type SurveyHandler struct {
	log       *zap.Logger
	surveys   SurveyStore
	responses ResponseStore
	counts    *cache.CountCache
}

func NewSurveyHandler(log *zap.Logger, surveys SurveyStore, responses ResponseStore, counts *cache.CountCache) *SurveyHandler {
	return &SurveyHandler{log: log, surveys: surveys, responses: responses, counts: counts}
}

// responseCount derives a survey's response count, preferring the cache.
func (h *SurveyHandler) responseCount(c *gin.Context, surveyID string) (int64, error) {
	if n, ok := h.counts.ResponseCount(c.Request.Context(), surveyID); ok {
		return n, nil
	}
	n, err := h.responses.CountBySurvey(c.Request.Context(), surveyID)
	if err != nil {
		return 0, err
	}
	h.counts.SetResponseCount(c.Request.Context(), surveyID, n)
	return n, nil
}

// List returns the owner's surveys with their derived response counts.
func (h *SurveyHandler) List(c *gin.Context) {
	user, _ := currentUser(c)
	surveys, err := h.surveys.ListByOwner(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to list surveys", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load surveys"})
		return
	}

	summaries := make([]models.SurveySummary, 0, len(surveys))
	for _, survey := range surveys {
		count, err := h.responseCount(c, survey.ID)
		if err != nil {
			h.log.Error("Failed to count responses", zap.Error(err), zap.String("surveyID", survey.ID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load surveys"})
			return
		}
		summaries = append(summaries, models.SurveySummary{Survey: survey, ResponseCount: count})
	}
	c.JSON(http.StatusOK, summaries)
}

// ownedSurvey loads a survey and enforces ownership. A survey belonging to
// somebody else is reported as not found, not as forbidden.
func (h *SurveyHandler) ownedSurvey(c *gin.Context) (*models.Survey, bool) {
	user, _ := currentUser(c)
	survey, err := h.surveys.Get(c.Request.Context(), c.Param("surveyId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
			return nil, false
		}
		h.log.Error("Failed to load survey", zap.Error(err), zap.String("surveyID", c.Param("surveyId")))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return nil, false
	}
	if survey.CreatedBy != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return nil, false
	}
	return survey, true
}

func (h *SurveyHandler) Get(c *gin.Context) {
	survey, ok := h.ownedSurvey(c)
	if !ok {
		return
	}
	count, err := h.responseCount(c, survey.ID)
	if err != nil {
		h.log.Error("Failed to count responses", zap.Error(err), zap.String("surveyID", survey.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return
	}
	c.JSON(http.StatusOK, models.SurveySummary{Survey: *survey, ResponseCount: count})
}

// Publish makes a survey publicly visible and answerable. The transition is
// one-way: there is no unpublish.
func (h *SurveyHandler) Publish(c *gin.Context) {
	survey, ok := h.ownedSurvey(c)
	if !ok {
		return
	}
	if err := h.surveys.Publish(c.Request.Context(), survey.ID); err != nil {
		h.log.Error("Failed to publish survey", zap.Error(err), zap.String("surveyID", survey.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish survey"})
		return
	}
	survey.IsPublished = true
	c.JSON(http.StatusOK, survey)
}

// Delete removes a survey and, with it, its responses.
func (h *SurveyHandler) Delete(c *gin.Context) {
	survey, ok := h.ownedSurvey(c)
	if !ok {
		return
	}
	if err := h.surveys.Delete(c.Request.Context(), survey.ID); err != nil {
		h.log.Error("Failed to delete survey", zap.Error(err), zap.String("surveyID", survey.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete survey"})
		return
	}
	h.counts.Invalidate(c.Request.Context(), survey.ID)
	c.Status(http.StatusNoContent)
}
