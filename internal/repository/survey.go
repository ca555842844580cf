package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/models"
)

type SurveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// Create persists a new survey document, assigning its id.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.Survey) (string, error) {
	survey.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(survey).Error; err != nil {
		survey.ID = ""
		return "", err
	}
	return survey.ID, nil
}

func (r *SurveyRepository) Get(ctx context.Context, id string) (*models.Survey, error) {
	var survey models.Survey
	err := r.db.WithContext(ctx).First(&survey, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &survey, nil
}

// Update replaces the stored survey document. Last write wins; no
// concurrency token is checked.
func (r *SurveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	result := r.db.WithContext(ctx).Model(&models.Survey{}).
		Where("id = ?", survey.ID).
		Updates(map[string]interface{}{
			"title":        survey.Title,
			"description":  survey.Description,
			"questions":    survey.Questions,
			"is_published": survey.IsPublished,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Publish flips the one-way published flag. There is no unpublish.
func (r *SurveyRepository) Publish(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Survey{}).
		Where("id = ?", id).
		Update("is_published", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a survey and all of its responses in one transaction.
// Cascading is a deliberate gateway-boundary choice: responses to a deleted
// survey are never left orphaned.
func (r *SurveyRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("survey_id = ?", id).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Survey{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RecentlyUpdated returns surveys touched since the given time, across all
// owners. Used by the response count warmer.
func (r *SurveyRepository) RecentlyUpdated(ctx context.Context, since time.Time) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.WithContext(ctx).
		Where("updated_at >= ?", since).
		Find(&surveys).Error
	return surveys, err
}

// ListByOwner returns the owner's surveys, most recently updated first.
func (r *SurveyRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Survey, error) {
	var surveys []models.Survey
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("updated_at DESC").
		Find(&surveys).Error
	return surveys, err
}
