package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

// SurveyStore is the persistence surface the survey handlers depend on.
// The gorm repositories satisfy it in production; tests plug in fakes.
type SurveyStore interface {
	Create(ctx context.Context, survey *models.Survey) (string, error)
	Get(ctx context.Context, id string) (*models.Survey, error)
	Update(ctx context.Context, survey *models.Survey) error
	Publish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Survey, error)
}

// ResponseStore covers the response side of the persistence gateway.
type ResponseStore interface {
	Create(ctx context.Context, response *models.Response) (string, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]models.Response, error)
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
}

// UserStore covers account lookup and creation.
type UserStore interface {
	Create(ctx context.Context, email, password string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	MarkVerified(ctx context.Context, id uint) error
}

// currentUser pulls the user loaded by the session middleware out of the
// gin context.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
