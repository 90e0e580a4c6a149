package repository

import (
	"context"
	"errors"

	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// ForumRepository persists forum posts and their comments.
type ForumRepository interface {
	CreatePost(ctx context.Context, post *models.ForumPost) error
	GetPostByID(ctx context.Context, id uint) (*models.ForumPost, error)
	UpdatePost(ctx context.Context, post *models.ForumPost) error
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, category models.ForumCategory, limit, offset int) ([]models.ForumPost, error)

	CreateComment(ctx context.Context, comment *models.ForumComment) error
	GetCommentByID(ctx context.Context, id uint) (*models.ForumComment, error)
	DeleteComment(ctx context.Context, id uint) error
	ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.ForumComment, error)
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository returns a new ForumRepository implementation.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) CreatePost(ctx context.Context, post *models.ForumPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) GetPostByID(ctx context.Context, id uint) (*models.ForumPost, error) {
	var post models.ForumPost
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Forum post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *forumRepository) UpdatePost(ctx context.Context, post *models.ForumPost) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) DeletePost(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.ForumPost{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) ListPosts(ctx context.Context, category models.ForumCategory, limit, offset int) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	q := r.db.WithContext(ctx).Preload("Author")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *forumRepository) CreateComment(ctx context.Context, comment *models.ForumComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) GetCommentByID(ctx context.Context, id uint) (*models.ForumComment, error) {
	var comment models.ForumComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *forumRepository) DeleteComment(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.ForumComment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *forumRepository) ListComments(ctx context.Context, postID uint, limit, offset int) ([]models.ForumComment, error) {
	var comments []models.ForumComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
