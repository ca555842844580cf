package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Create stores a submitted response. Responses are write-once; there is no
// update path.
func (r *ResponseRepository) Create(ctx context.Context, response *models.Response) (string, error) {
	response.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(response).Error; err != nil {
		response.ID = ""
		return "", err
	}
	return response.ID, nil
}

// ListBySurvey returns all responses for a survey in submission order.
func (r *ResponseRepository) ListBySurvey(ctx context.Context, surveyID string) ([]models.Response, error) {
	var responses []models.Response
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("submitted_at ASC").
		Find(&responses).Error
	return responses, err
}

// CountBySurvey derives the response count by counting documents. The count
// is never stored on the survey record.
func (r *ResponseRepository) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}
