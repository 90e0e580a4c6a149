package repository

import (
	"context"
	"errors"

	"reelcorps/internal/cache"
	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository persists production projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uint) error
	ListByCreator(ctx context.Context, creatorID uint, limit, offset int) ([]models.Project, error)
	ListPublic(ctx context.Context, stage models.ProjectStage, limit, offset int) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository returns a new ProjectRepository implementation.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	key := cache.ProjectKey(id)

	err := cache.Aside(ctx, key, &project, cache.ProjectTTL, func() error {
		if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Project", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, project.ID)
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Project{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProject(ctx, id)
	return nil
}

func (r *projectRepository) ListByCreator(ctx context.Context, creatorID uint, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}

// ListPublic lists public projects, optionally filtered by stage.
func (r *projectRepository) ListPublic(ctx context.Context, stage models.ProjectStage, limit, offset int) ([]models.Project, error) {
	var projects []models.Project
	q := r.db.WithContext(ctx).Where("is_public = ?", true)
	if stage != "" {
		q = q.Where("stage = ?", stage)
	}
	err := q.Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&projects).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return projects, nil
}
