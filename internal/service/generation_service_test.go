package service

import (
	"context"
	"testing"
	"time"

	"reelcorps/internal/models"
	"reelcorps/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationService(t *testing.T) {
	db := setupTestDB(t)
	jobs := repository.NewGenerationRepository(db)
	credits := repository.NewCreditRepository(db)
	svc := NewGenerationService(jobs, credits)
	ctx := context.Background()

	user := createTestUser(t, db, "animator", 100)

	t.Run("Start debits the per-kind cost", func(t *testing.T) {
		job, err := svc.Start(ctx, StartInput{UserID: user.ID, Kind: models.GenerationKindStoryboard})
		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusPending, job.Status)
		assert.Equal(t, GenerationCost(models.GenerationKindStoryboard), job.CostCredits)
		assert.NotEmpty(t, job.ProviderRef)

		balance, err := credits.Balance(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(85), balance)
	})

	t.Run("Unknown kind rejected before any debit", func(t *testing.T) {
		_, err := svc.Start(ctx, StartInput{UserID: user.ID, Kind: "hologram"})
		require.Error(t, err)

		balance, _ := credits.Balance(ctx, user.ID)
		assert.Equal(t, int64(85), balance)
	})

	t.Run("Insufficient credits rejected", func(t *testing.T) {
		poor := createTestUser(t, db, "broke", 3)
		_, err := svc.Start(ctx, StartInput{UserID: poor.ID, Kind: models.GenerationKindScriptCoverage})
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "INSUFFICIENT_CREDITS", appErr.Code)
	})

	t.Run("Complete is terminal", func(t *testing.T) {
		job, err := svc.Start(ctx, StartInput{UserID: user.ID, Kind: models.GenerationKindScriptCoverage})
		require.NoError(t, err)

		done, err := svc.Complete(ctx, job.ID, "https://cdn.example.com/coverage.pdf")
		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusCompleted, done.Status)
		assert.NotNil(t, done.CompletedAt)

		_, err = svc.Complete(ctx, job.ID, "again")
		assert.Error(t, err)
		_, err = svc.Fail(ctx, job.ID, "too late")
		assert.Error(t, err)
	})

	t.Run("Fail refunds the debit", func(t *testing.T) {
		before, _ := credits.Balance(ctx, user.ID)

		job, err := svc.Start(ctx, StartInput{UserID: user.ID, Kind: models.GenerationKindTrailerCut})
		require.NoError(t, err)

		mid, _ := credits.Balance(ctx, user.ID)
		assert.Equal(t, before-40, mid)

		failed, err := svc.Fail(ctx, job.ID, "provider timeout")
		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusFailed, failed.Status)
		assert.Equal(t, "provider timeout", failed.Error)

		after, _ := credits.Balance(ctx, user.ID)
		assert.Equal(t, before, after)
	})

	t.Run("ExpireStale fails and refunds old pending jobs", func(t *testing.T) {
		job, err := svc.Start(ctx, StartInput{UserID: user.ID, Kind: models.GenerationKindStoryboard})
		require.NoError(t, err)

		// Age the job past the cutoff.
		old := time.Now().UTC().Add(-2 * time.Hour)
		require.NoError(t, db.Model(&models.GenerationJob{}).
			Where("id = ?", job.ID).
			Update("created_at", old).Error)

		before, _ := credits.Balance(ctx, user.ID)

		expired, err := svc.ExpireStale(ctx, time.Hour, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)

		reloaded, err := svc.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusFailed, reloaded.Status)

		after, _ := credits.Balance(ctx, user.ID)
		assert.Equal(t, before+job.CostCredits, after)
	})

	t.Run("Fresh pending jobs survive the janitor", func(t *testing.T) {
		job, err := svc.Start(ctx, StartInput{UserID: user.ID, Kind: models.GenerationKindScriptCoverage})
		require.NoError(t, err)

		expired, err := svc.ExpireStale(ctx, time.Hour, 100)
		require.NoError(t, err)
		assert.Zero(t, expired)

		reloaded, err := svc.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusPending, reloaded.Status)
	})
}
