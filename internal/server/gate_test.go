package server

import (
	"net/http"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Membership gate behavior: scripts, projects, forum, conversations,
// submissions, generation and posters are all closed to unverified accounts,
// reads included.
func TestVerifiedRequiredBlocksUnverified(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	_, publicToken := createUser(t, s, "civilian", models.RolePublic)

	gatedReads := []string{
		"/api/friends",
		"/api/scripts",
		"/api/projects",
		"/api/forum/posts",
		"/api/conversations",
		"/api/submissions",
		"/api/generate",
		"/api/posters",
	}
	for _, path := range gatedReads {
		resp, body := doJSON(t, app, "GET", path, publicToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "Verified membership required", body["error"], path)
	}

	// A denied write must leave no rows behind.
	resp, _ := doJSON(t, app, "POST", "/api/scripts", publicToken, map[string]any{
		"title":   "Sneaky Draft",
		"content": "FADE IN:",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var count int64
	require.NoError(t, s.db.Model(&models.Script{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVerifiedRequiredAllowsVerified(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	_, token := createUser(t, s, "veteran", models.RoleVerified)

	resp, _ := doJSON(t, app, "GET", "/api/scripts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/scripts", token, map[string]any{
		"title":   "First Draft",
		"logline": "A veteran returns home.",
		"content": "FADE IN:",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "First Draft", body["title"])
}

// Ungated surfaces stay open to unverified accounts: profile, verification
// submission, credit balance, festival catalog.
func TestUnverifiedRetainsAccountAccess(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	_, token := createUser(t, s, "applicant", models.RolePublic)

	resp, _ := doJSON(t, app, "GET", "/api/users/me", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/api/credits", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["balance"])

	resp, _ = doJSON(t, app, "GET", "/api/festivals", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// A signed token can outlive its account. The gate treats that as an
// authentication failure, never as a server error.
func TestGateRejectsDeletedAccount(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "ghost", models.RoleVerified)
	adminUser, adminToken := createUser(t, s, "exadmin", models.RoleVerified)
	makeAdmin(t, s, adminUser.ID)

	require.NoError(t, s.db.Delete(&models.User{}, user.ID).Error)
	require.NoError(t, s.db.Delete(&models.User{}, adminUser.ID).Error)

	resp, body := doJSON(t, app, "GET", "/api/scripts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["error"], "no longer exists")

	resp, body = doJSON(t, app, "GET", "/api/admin/feature-flags", adminToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["error"], "no longer exists")
}
