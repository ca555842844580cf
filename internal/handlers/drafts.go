package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/editor"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/repository"
)

// DraftHandler drives the owner's editing session. Every route requires an
// authenticated, verified owner; mutations act only on that owner's draft.
// Responses are built from snapshots taken inside the session lock, so a
// concurrent edit from a second tab never races with JSON marshaling.
type DraftHandler struct {
	log     *zap.Logger
	surveys SurveyStore
	drafts  *editor.Manager
}

func NewDraftHandler(log *zap.Logger, surveys SurveyStore, drafts *editor.Manager) *DraftHandler {
	return &DraftHandler{log: log, surveys: surveys, drafts: drafts}
}

// draftError translates editor errors into HTTP responses.
func draftError(c *gin.Context, err error) {
	var indexErr *editor.IndexError
	switch {
	case errors.Is(err, editor.ErrNoDraft):
		c.JSON(http.StatusConflict, gin.H{"error": "no draft loaded"})
	case errors.Is(err, editor.ErrDraftLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": "a draft is already being edited"})
	case errors.Is(err, editor.ErrLastOption):
		c.JSON(http.StatusConflict, gin.H{"error": "a multiple-choice question needs at least one option"})
	case errors.Is(err, editor.ErrTypeImmutable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "question type cannot be changed"})
	case errors.As(err, &indexErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": indexErr.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// withDraft runs fn under the owner's session lock and captures a snapshot
// of the draft on success, so the handler can respond without the lock.
func (h *DraftHandler) withDraft(ownerID uint, fn func(s *editor.Session) error) (*models.Survey, error) {
	var snapshot *models.Survey
	err := h.drafts.With(ownerID, func(s *editor.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		snapshot = s.Snapshot()
		return nil
	})
	return snapshot, err
}

// Init starts a fresh draft. It refuses to clobber an in-progress edit.
func (h *DraftHandler) Init(c *gin.Context) {
	user, _ := currentUser(c)
	draft, err := h.withDraft(user.ID, func(s *editor.Session) error {
		return s.InitDraft(user.ID)
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

type loadRequest struct {
	SurveyID string `json:"surveyId"`
}

// Load replaces the draft with a persisted survey for editing.
func (h *DraftHandler) Load(c *gin.Context) {
	user, _ := currentUser(c)
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SurveyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "surveyId is required"})
		return
	}

	survey, err := h.surveys.Get(c.Request.Context(), req.SurveyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
			return
		}
		h.log.Error("Failed to load survey for editing", zap.Error(err), zap.String("surveyID", req.SurveyID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return
	}
	if survey.CreatedBy != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "survey not found"})
		return
	}

	draft, _ := h.withDraft(user.ID, func(s *editor.Session) error {
		s.LoadDraft(survey)
		return nil
	})
	c.JSON(http.StatusOK, draft)
}

// Get returns the current draft.
func (h *DraftHandler) Get(c *gin.Context) {
	user, _ := currentUser(c)
	draft, _ := h.withDraft(user.ID, func(s *editor.Session) error {
		return nil
	})
	if draft == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no draft loaded"})
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Clear discards the draft, e.g. when the editor is closed without saving.
func (h *DraftHandler) Clear(c *gin.Context) {
	user, _ := currentUser(c)
	h.drafts.With(user.ID, func(s *editor.Session) error {
		s.ClearDraft()
		return nil
	})
	c.Status(http.StatusNoContent)
}

type metadataRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateMetadata sets the draft's title and/or description.
func (h *DraftHandler) UpdateMetadata(c *gin.Context) {
	user, _ := currentUser(c)
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.withDraft(user.ID, func(s *editor.Session) error {
		if req.Title != nil {
			if err := s.SetTitle(*req.Title); err != nil {
				return err
			}
		}
		if req.Description != nil {
			if err := s.SetDescription(*req.Description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type addQuestionRequest struct {
	Type models.QuestionType `json:"type"`
}

// AddQuestion creates a question of the requested type and appends it.
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	user, _ := currentUser(c)
	var req addQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var question models.Question
	err := h.drafts.With(user.ID, func(s *editor.Session) error {
		q, err := s.NewQuestion(req.Type)
		if err != nil {
			return err
		}
		if err := s.AddQuestion(q); err != nil {
			return err
		}
		// Copy the options so the response does not alias draft state.
		question = q
		question.Options = append([]models.Option(nil), q.Options...)
		return nil
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion replaces a question by id. An unknown id is a no-op, same
// as the in-memory operation it fronts.
func (h *DraftHandler) UpdateQuestion(c *gin.Context) {
	user, _ := currentUser(c)
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	question.ID = c.Param("questionId")

	draft, err := h.withDraft(user.ID, func(s *editor.Session) error {
		return s.UpdateQuestion(question)
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *DraftHandler) RemoveQuestion(c *gin.Context) {
	user, _ := currentUser(c)
	err := h.drafts.With(user.ID, func(s *editor.Session) error {
		return s.RemoveQuestion(c.Param("questionId"))
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type reorderRequest struct {
	SourceIndex      int `json:"sourceIndex"`
	DestinationIndex int `json:"destinationIndex"`
}

// Reorder moves a question from one position to another, as a drag-reorder
// in the editor does.
func (h *DraftHandler) Reorder(c *gin.Context) {
	user, _ := currentUser(c)
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.withDraft(user.ID, func(s *editor.Session) error {
		return s.ReorderQuestions(req.SourceIndex, req.DestinationIndex)
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *DraftHandler) AddOption(c *gin.Context) {
	user, _ := currentUser(c)
	var option models.Option
	err := h.drafts.With(user.ID, func(s *editor.Session) error {
		o, err := s.AddOption(c.Param("questionId"))
		option = o
		return err
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

type optionTextRequest struct {
	Text string `json:"text"`
}

func (h *DraftHandler) UpdateOption(c *gin.Context) {
	user, _ := currentUser(c)
	var req optionTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	draft, err := h.withDraft(user.ID, func(s *editor.Session) error {
		return s.UpdateOptionText(c.Param("questionId"), c.Param("optionId"), req.Text)
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (h *DraftHandler) RemoveOption(c *gin.Context) {
	user, _ := currentUser(c)
	err := h.drafts.With(user.ID, func(s *editor.Session) error {
		return s.RemoveOption(c.Param("questionId"), c.Param("optionId"))
	})
	if err != nil {
		draftError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Save persists the draft: first save creates the document and assigns its
// id, later saves replace it. The draft stays loaded so editing continues.
func (h *DraftHandler) Save(c *gin.Context) {
	user, _ := currentUser(c)
	saved, err := h.withDraft(user.ID, func(s *editor.Session) error {
		draft := s.Draft()
		if draft == nil {
			return editor.ErrNoDraft
		}
		if draft.ID == "" {
			if _, err := h.surveys.Create(c.Request.Context(), draft); err != nil {
				return err
			}
			return nil
		}
		return h.surveys.Update(c.Request.Context(), draft)
	})
	if err != nil {
		if errors.Is(err, editor.ErrNoDraft) {
			draftError(c, err)
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "survey no longer exists"})
			return
		}
		h.log.Error("Failed to save draft", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save survey"})
		return
	}
	c.JSON(http.StatusOK, saved)
}