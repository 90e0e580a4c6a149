package repository

import (
	"context"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	u1 := createTestUser(t, db, "sender")
	u2 := createTestUser(t, db, "recipient")
	u3 := createTestUser(t, db, "outsider")

	var convID uint

	t.Run("CreateConversation with participants", func(t *testing.T) {
		conv := &models.Conversation{CreatedBy: u1.ID}
		err := repo.CreateConversation(ctx, conv, []uint{u1.ID, u2.ID})
		require.NoError(t, err)
		require.NotZero(t, conv.ID)
		convID = conv.ID

		fetched, err := repo.GetConversation(ctx, conv.ID)
		require.NoError(t, err)
		assert.Len(t, fetched.Participants, 2)
	})

	t.Run("IsParticipant", func(t *testing.T) {
		ok, err := repo.IsParticipant(ctx, convID, u2.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.IsParticipant(ctx, convID, u3.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("GetDirectConversation finds the existing thread", func(t *testing.T) {
		found, err := repo.GetDirectConversation(ctx, u2.ID, u1.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, convID, found.ID)

		none, err := repo.GetDirectConversation(ctx, u1.ID, u3.ID)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("Messages order newest first", func(t *testing.T) {
		first := &models.Message{ConversationID: convID, SenderID: u1.ID, Body: "scout report"}
		require.NoError(t, repo.CreateMessage(ctx, first))
		second := &models.Message{ConversationID: convID, SenderID: u2.ID, Body: "copy that"}
		require.NoError(t, repo.CreateMessage(ctx, second))

		msgs, err := repo.ListMessages(ctx, convID, 10, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, second.ID, msgs[0].ID)
	})

	t.Run("ListConversations scopes to the member", func(t *testing.T) {
		convs, err := repo.ListConversations(ctx, u1.ID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, convs, 1)

		convs, err = repo.ListConversations(ctx, u3.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, convs)
	})
}
