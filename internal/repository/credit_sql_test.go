package repository

import (
	"context"
	"testing"

	"reelcorps/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

// The debit guard must live in the UPDATE itself so two racing debits cannot
// both pass a read-then-write check against Postgres.
func TestDebitGuardIsConditionalUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCreditRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .*credits.* WHERE id = \$\d+ AND credits >= \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .*credits.* FROM "users" WHERE id = \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(90))
	mock.ExpectQuery(`INSERT INTO "credit_transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	entry, err := repo.Debit(context.Background(), 7, 10, models.CreditTypeDebit, "generation:abc")
	require.NoError(t, err)
	assert.Equal(t, int64(-10), entry.Amount)
	assert.Equal(t, int64(90), entry.BalanceAfter)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// When the guard matches no rows the transaction must roll back without
// touching the ledger.
func TestDebitInsufficientRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCreditRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET .*credits.* WHERE id = \$\d+ AND credits >= \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "credits"}).AddRow(7, 3))
	mock.ExpectRollback()

	_, err := repo.Debit(context.Background(), 7, 10, models.CreditTypeDebit, "generation:abc")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INSUFFICIENT_CREDITS", appErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
