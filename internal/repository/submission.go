package repository

import (
	"context"
	"errors"

	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// SubmissionRepository persists festival submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.FestivalSubmission) error
	GetByID(ctx context.Context, id uint) (*models.FestivalSubmission, error)
	Update(ctx context.Context, sub *models.FestivalSubmission) error
	Delete(ctx context.Context, id uint) error
	ListBySubmitter(ctx context.Context, submitterID uint, limit, offset int) ([]models.FestivalSubmission, error)
	ListByFestival(ctx context.Context, slug string, limit, offset int) ([]models.FestivalSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository returns a new SubmissionRepository implementation.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, sub *models.FestivalSubmission) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.FestivalSubmission, error) {
	var sub models.FestivalSubmission
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Submission", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *submissionRepository) Update(ctx context.Context, sub *models.FestivalSubmission) error {
	if err := r.db.WithContext(ctx).Save(sub).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.FestivalSubmission{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) ListBySubmitter(ctx context.Context, submitterID uint, limit, offset int) ([]models.FestivalSubmission, error) {
	var subs []models.FestivalSubmission
	err := r.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *submissionRepository) ListByFestival(ctx context.Context, slug string, limit, offset int) ([]models.FestivalSubmission, error) {
	var subs []models.FestivalSubmission
	err := r.db.WithContext(ctx).
		Where("festival_slug = ?", slug).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}
