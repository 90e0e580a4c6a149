package repository

import (
	"context"
	"errors"

	"reelcorps/internal/cache"
	"reelcorps/internal/models"

	"gorm.io/gorm"
)

// CreditRepository applies balance changes and records the ledger. Every
// mutation happens inside a DB transaction so users.credits and
// credit_transactions never disagree.
type CreditRepository interface {
	// Debit atomically charges amount (positive) from the user's balance.
	// Fails with INSUFFICIENT_CREDITS when the balance cannot cover it.
	Debit(ctx context.Context, userID uint, amount int64, txType models.CreditTransactionType, reference string) (*models.CreditTransaction, error)
	// Credit atomically adds amount (positive) to the user's balance.
	Credit(ctx context.Context, userID uint, amount int64, txType models.CreditTransactionType, reference string) (*models.CreditTransaction, error)
	Balance(ctx context.Context, userID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error)
}

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository returns a new CreditRepository implementation.
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Debit(ctx context.Context, userID uint, amount int64, txType models.CreditTransactionType, reference string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("Debit amount must be positive")
	}

	var entry models.CreditTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional update is the concurrency guard: two racing debits
		// cannot both pass the credits >= amount check.
		res := tx.Model(&models.User{}).
			Where("id = ? AND credits >= ?", userID, amount).
			Update("credits", gorm.Expr("credits - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var user models.User
			if err := tx.First(&user, userID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("User", userID)
				}
				return err
			}
			return models.NewInsufficientCreditsError(amount, user.Credits)
		}

		var balance int64
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Pluck("credits", &balance).Error; err != nil {
			return err
		}

		entry = models.CreditTransaction{
			UserID:       userID,
			Type:         txType,
			Amount:       -amount,
			BalanceAfter: balance,
			Reference:    reference,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, userID)
	return &entry, nil
}

func (r *creditRepository) Credit(ctx context.Context, userID uint, amount int64, txType models.CreditTransactionType, reference string) (*models.CreditTransaction, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("Credit amount must be positive")
	}

	var entry models.CreditTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("credits", gorm.Expr("credits + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", userID)
		}

		var balance int64
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Pluck("credits", &balance).Error; err != nil {
			return err
		}

		entry = models.CreditTransaction{
			UserID:       userID,
			Type:         txType,
			Amount:       amount,
			BalanceAfter: balance,
			Reference:    reference,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, userID)
	return &entry, nil
}

func (r *creditRepository) Balance(ctx context.Context, userID uint) (int64, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("credits").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("User", userID)
		}
		return 0, models.NewInternalError(err)
	}
	return user.Credits, nil
}

func (r *creditRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.CreditTransaction, error) {
	var entries []models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
