package repository

import (
	"context"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScriptRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "screenwriter")
	other := createTestUser(t, db, "reader")

	t.Run("Create and GetByID", func(t *testing.T) {
		script := &models.Script{
			AuthorID: author.ID,
			Title:    "Desert Convoy",
			Logline:  "A supply run goes sideways.",
			Format:   models.ScriptFormatFeature,
		}
		require.NoError(t, repo.Create(ctx, script))
		require.NotZero(t, script.ID)

		got, err := repo.GetByID(ctx, script.ID)
		require.NoError(t, err)
		assert.Equal(t, "Desert Convoy", got.Title)
		assert.False(t, got.IsPublic)
	})

	t.Run("ListByAuthor excludes other authors", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Script{
			AuthorID: other.ID,
			Title:    "Someone Else's Story",
			Format:   models.ScriptFormatShort,
		}))

		mine, err := repo.ListByAuthor(ctx, author.ID, 20, 0)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, author.ID, mine[0].AuthorID)
	})

	t.Run("ListPublic only returns shared scripts", func(t *testing.T) {
		pub, err := repo.ListPublic(ctx, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, pub)

		scripts, err := repo.ListByAuthor(ctx, author.ID, 1, 0)
		require.NoError(t, err)
		script := scripts[0]
		script.IsPublic = true
		require.NoError(t, repo.Update(ctx, &script))

		pub, err = repo.ListPublic(ctx, 20, 0)
		require.NoError(t, err)
		require.Len(t, pub, 1)
		assert.Equal(t, script.ID, pub[0].ID)
	})

	t.Run("Delete soft-deletes", func(t *testing.T) {
		scripts, err := repo.ListByAuthor(ctx, author.ID, 1, 0)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, scripts[0].ID))

		_, err = repo.GetByID(ctx, scripts[0].ID)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})

	t.Run("GetByID unknown", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 424242)
		require.Error(t, err)
	})
}

func TestProjectRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "director")

	t.Run("Create and stage filter", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Project{
			CreatorID: creator.ID,
			Title:     "Homefront Doc",
			Stage:     models.ProjectStageDevelopment,
			IsPublic:  true,
		}))
		require.NoError(t, repo.Create(ctx, &models.Project{
			CreatorID: creator.ID,
			Title:     "Night Patrol",
			Stage:     models.ProjectStageProduction,
			IsPublic:  true,
		}))
		require.NoError(t, repo.Create(ctx, &models.Project{
			CreatorID: creator.ID,
			Title:     "Hidden Cut",
			Stage:     models.ProjectStageProduction,
			IsPublic:  false,
		}))

		all, err := repo.ListPublic(ctx, "", 20, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		inProd, err := repo.ListPublic(ctx, models.ProjectStageProduction, 20, 0)
		require.NoError(t, err)
		require.Len(t, inProd, 1)
		assert.Equal(t, "Night Patrol", inProd[0].Title)

		mine, err := repo.ListByCreator(ctx, creator.ID, 20, 0)
		require.NoError(t, err)
		assert.Len(t, mine, 3)
	})
}
