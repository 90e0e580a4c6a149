package repository

import (
	"context"
	"errors"

	"reelcorps/internal/cache"
	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// ScriptRepository persists screenplays.
type ScriptRepository interface {
	Create(ctx context.Context, script *models.Script) error
	GetByID(ctx context.Context, id uint) (*models.Script, error)
	Update(ctx context.Context, script *models.Script) error
	Delete(ctx context.Context, id uint) error
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Script, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.Script, error)
}

type scriptRepository struct {
	db *gorm.DB
}

// NewScriptRepository returns a new ScriptRepository implementation.
func NewScriptRepository(db *gorm.DB) ScriptRepository {
	return &scriptRepository{db: db}
}

func (r *scriptRepository) Create(ctx context.Context, script *models.Script) error {
	if err := r.db.WithContext(ctx).Create(script).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *scriptRepository) GetByID(ctx context.Context, id uint) (*models.Script, error) {
	var script models.Script
	key := cache.ScriptKey(id)

	err := cache.Aside(ctx, key, &script, cache.ScriptTTL, func() error {
		if err := r.db.WithContext(ctx).First(&script, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Script", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &script, nil
}

func (r *scriptRepository) Update(ctx context.Context, script *models.Script) error {
	if err := r.db.WithContext(ctx).Save(script).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateScript(ctx, script.ID)
	return nil
}

func (r *scriptRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Script{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateScript(ctx, id)
	return nil
}

func (r *scriptRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]models.Script, error) {
	var scripts []models.Script
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&scripts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return scripts, nil
}

func (r *scriptRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.Script, error) {
	var scripts []models.Script
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&scripts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return scripts, nil
}
