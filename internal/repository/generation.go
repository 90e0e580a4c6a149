package repository

import (
	"context"
	"errors"
	"time"

	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// GenerationRepository persists AI generation jobs.
type GenerationRepository interface {
	Create(ctx context.Context, job *models.GenerationJob) error
	GetByID(ctx context.Context, id uint) (*models.GenerationJob, error)
	Update(ctx context.Context, job *models.GenerationJob) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GenerationJob, error)
	// ListStalePending returns pending jobs created before the cutoff, for the
	// janitor to expire and refund.
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.GenerationJob, error)
}

type generationRepository struct {
	db *gorm.DB
}

// NewGenerationRepository returns a new GenerationRepository implementation.
func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(ctx context.Context, job *models.GenerationJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *generationRepository) GetByID(ctx context.Context, id uint) (*models.GenerationJob, error) {
	var job models.GenerationJob
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Generation job", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &job, nil
}

func (r *generationRepository) Update(ctx context.Context, job *models.GenerationJob) error {
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *generationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.GenerationJob, error) {
	var jobs []models.GenerationJob
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}

func (r *generationRepository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.GenerationJob, error) {
	var jobs []models.GenerationJob
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.GenerationStatusPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}
