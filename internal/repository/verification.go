package repository

import (
	"context"
	"errors"

	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// VerificationRepository persists membership verification requests.
type VerificationRepository interface {
	Create(ctx context.Context, req *models.VerificationRequest) error
	GetByID(ctx context.Context, id uint) (*models.VerificationRequest, error)
	GetPendingByUser(ctx context.Context, userID uint) (*models.VerificationRequest, error)
	Update(ctx context.Context, req *models.VerificationRequest) error
	ListByStatus(ctx context.Context, status models.VerificationStatus, limit, offset int) ([]models.VerificationRequest, error)
	ListByUser(ctx context.Context, userID uint) ([]models.VerificationRequest, error)
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository returns a new VerificationRepository implementation.
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(ctx context.Context, req *models.VerificationRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *verificationRepository) GetByID(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Verification request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

// GetPendingByUser returns the user's open request, or nil if none exists.
func (r *verificationRepository) GetPendingByUser(ctx context.Context, userID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.VerificationStatusPending).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *verificationRepository) Update(ctx context.Context, req *models.VerificationRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *verificationRepository) ListByStatus(ctx context.Context, status models.VerificationStatus, limit, offset int) ([]models.VerificationRequest, error) {
	var reqs []models.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&reqs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *verificationRepository) ListByUser(ctx context.Context, userID uint) ([]models.VerificationRequest, error) {
	var reqs []models.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}
