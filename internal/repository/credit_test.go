package repository

import (
	"context"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCreditRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "producer")

	t.Run("Credit raises balance and records ledger", func(t *testing.T) {
		entry, err := repo.Credit(ctx, user.ID, 25, models.CreditTypeGrant, "signup bonus")
		require.NoError(t, err)
		assert.Equal(t, int64(25), entry.Amount)
		assert.Equal(t, int64(25), entry.BalanceAfter)

		balance, err := repo.Balance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(25), balance)
	})

	t.Run("Debit lowers balance with signed ledger amount", func(t *testing.T) {
		entry, err := repo.Debit(ctx, user.ID, 10, models.CreditTypeDebit, "generation:1")
		require.NoError(t, err)
		assert.Equal(t, int64(-10), entry.Amount)
		assert.Equal(t, int64(15), entry.BalanceAfter)
	})

	t.Run("Debit beyond balance fails without mutation", func(t *testing.T) {
		_, err := repo.Debit(ctx, user.ID, 100, models.CreditTypeDebit, "generation:2")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "INSUFFICIENT_CREDITS", appErr.Code)

		balance, err := repo.Balance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(15), balance)

		entries, err := repo.ListByUser(ctx, user.ID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2, "failed debit must not write a ledger row")
	})

	t.Run("Refund restores the debited amount", func(t *testing.T) {
		entry, err := repo.Credit(ctx, user.ID, 10, models.CreditTypeRefund, "generation:1")
		require.NoError(t, err)
		assert.Equal(t, int64(25), entry.BalanceAfter)
	})

	t.Run("Ledger always matches users.credits", func(t *testing.T) {
		entries, err := repo.ListByUser(ctx, user.ID, 50, 0)
		require.NoError(t, err)

		var sum int64
		for _, e := range entries {
			sum += e.Amount
		}
		balance, err := repo.Balance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, balance, sum)
	})

	t.Run("Non-positive amounts rejected", func(t *testing.T) {
		_, err := repo.Debit(ctx, user.ID, 0, models.CreditTypeDebit, "")
		assert.Error(t, err)
		_, err = repo.Credit(ctx, user.ID, -5, models.CreditTypeGrant, "")
		assert.Error(t, err)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := repo.Credit(ctx, 9999, 10, models.CreditTypeGrant, "")
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
