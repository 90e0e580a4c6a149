package repository

import (
	"context"
	"errors"

	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// PosterRepository persists poster image metadata. The encoded files
// themselves live on disk under the configured upload directory.
type PosterRepository interface {
	Create(ctx context.Context, poster *models.Poster) error
	GetByID(ctx context.Context, id uint) (*models.Poster, error)
	GetByHash(ctx context.Context, ownerID uint, hash string) (*models.Poster, error)
	Delete(ctx context.Context, id uint) error
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Poster, error)
}

type posterRepository struct {
	db *gorm.DB
}

// NewPosterRepository returns a new PosterRepository implementation.
func NewPosterRepository(db *gorm.DB) PosterRepository {
	return &posterRepository{db: db}
}

func (r *posterRepository) Create(ctx context.Context, poster *models.Poster) error {
	if err := r.db.WithContext(ctx).Create(poster).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *posterRepository) GetByID(ctx context.Context, id uint) (*models.Poster, error) {
	var poster models.Poster
	if err := r.db.WithContext(ctx).First(&poster, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poster", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &poster, nil
}

// GetByHash deduplicates re-uploads of the same source image by one owner.
func (r *posterRepository) GetByHash(ctx context.Context, ownerID uint, hash string) (*models.Poster, error) {
	var poster models.Poster
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND content_hash = ?", ownerID, hash).
		First(&poster).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &poster, nil
}

func (r *posterRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Poster{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *posterRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Poster, error) {
	var posters []models.Poster
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posters).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posters, nil
}
