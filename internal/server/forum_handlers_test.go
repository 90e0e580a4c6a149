package server

import (
	"fmt"
	"net/http"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedForumPost(t *testing.T, s *Server, authorID uint) *models.ForumPost {
	t.Helper()
	post := &models.ForumPost{
		AuthorID: authorID,
		Category: models.ForumCategoryGeneral,
		Title:    "Location scouting near Fort Bragg",
		Body:     "Anyone shot around the training areas?",
	}
	require.NoError(t, s.db.Create(post).Error)
	return post
}

func TestCreateForumPost(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)
	_, token := createUser(t, s, "poster", models.RoleVerified)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{"valid", map[string]any{"title": "Crew call", "body": "Need a gaffer."}, http.StatusCreated},
		{"missing title", map[string]any{"body": "text"}, http.StatusBadRequest},
		{"blank body", map[string]any{"title": "Crew call", "body": "  "}, http.StatusBadRequest},
		{"unknown category", map[string]any{"title": "Crew call", "body": "x", "category": "classifieds"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/api/forum/posts", token, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusCreated {
				// Unset category falls back to the general board.
				assert.Equal(t, string(models.ForumCategoryGeneral), body["category"])
			}
		})
	}
}

func TestForumModeration(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	author, authorToken := createUser(t, s, "author", models.RoleVerified)
	_, bystanderToken := createUser(t, s, "bystander", models.RoleVerified)
	adminUser, adminToken := createUser(t, s, "moderator", models.RoleVerified)
	makeAdmin(t, s, adminUser.ID)

	post := seedForumPost(t, s, author.ID)

	// A bystander can read but not edit or delete someone else's thread.
	resp, _ := doJSON(t, app, "GET",
		fmt.Sprintf("/api/forum/posts/%d", post.ID), bystanderToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT",
		fmt.Sprintf("/api/forum/posts/%d", post.ID), bystanderToken,
		map[string]any{"title": "Defaced"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE",
		fmt.Sprintf("/api/forum/posts/%d", post.ID), bystanderToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// An admin can remove the thread without being its author.
	resp, _ = doJSON(t, app, "DELETE",
		fmt.Sprintf("/api/forum/posts/%d", post.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET",
		fmt.Sprintf("/api/forum/posts/%d", post.ID), authorToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForumComments(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	author, _ := createUser(t, s, "author", models.RoleVerified)
	_, replierToken := createUser(t, s, "replier", models.RoleVerified)
	post := seedForumPost(t, s, author.ID)

	resp, body := doJSON(t, app, "POST",
		fmt.Sprintf("/api/forum/posts/%d/comments", post.ID), replierToken,
		map[string]any{"body": "Shot a short there last spring."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	commentID := uint(body["id"].(float64))

	resp, _ = doJSON(t, app, "GET",
		fmt.Sprintf("/api/forum/posts/%d/comments", post.ID), replierToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Comments on a missing thread 404.
	resp, _ = doJSON(t, app, "POST", "/api/forum/posts/9999/comments", replierToken,
		map[string]any{"body": "into the void"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A comment can only be deleted through its own thread's path.
	other := seedForumPost(t, s, author.ID)
	resp, _ = doJSON(t, app, "DELETE",
		fmt.Sprintf("/api/forum/posts/%d/comments/%d", other.ID, commentID), replierToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE",
		fmt.Sprintf("/api/forum/posts/%d/comments/%d", post.ID, commentID), replierToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
