package server

import (
	"fmt"
	"net/http"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grantCredits(t *testing.T, s *Server, userID uint, amount int64) {
	t.Helper()
	_, err := s.creditService.AdminGrant(t.Context(), userID, amount, "test top-up")
	require.NoError(t, err)
}

func makeAdmin(t *testing.T, s *Server, userID uint) {
	t.Helper()
	require.NoError(t, s.db.Model(&models.User{}).
		Where("id = ?", userID).Update("is_admin", true).Error)
}

func TestStartGenerationDebitsCredits(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "director", models.RoleVerified)
	grantCredits(t, s, user.ID, 100)
	script := seedScript(t, s, user.ID, false)

	resp, body := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind":      "script_coverage",
		"script_id": script.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, string(models.GenerationStatusPending), body["status"])
	assert.EqualValues(t, 5, body["cost_credits"])

	resp, balance := doJSON(t, app, "GET", "/api/credits", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 95, balance["balance"])
}

func TestStartGenerationInsufficientCredits(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "broke", models.RoleVerified)
	grantCredits(t, s, user.ID, 10)

	// Trailer cuts cost 40.
	resp, body := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind": "trailer_cut",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_CREDITS", body["code"])

	// The failed start leaves no job and no debit behind.
	var jobs int64
	require.NoError(t, s.db.Model(&models.GenerationJob{}).Count(&jobs).Error)
	assert.Zero(t, jobs)

	balance, err := s.creditService.Balance(t.Context(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 10, balance)
}

func TestStartGenerationUnknownKind(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)
	user, token := createUser(t, s, "confused", models.RoleVerified)
	grantCredits(t, s, user.ID, 100)

	resp, _ := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind": "hologram",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStartGenerationForeignScript(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "director", models.RoleVerified)
	other, _ := createUser(t, s, "other", models.RoleVerified)
	grantCredits(t, s, user.ID, 100)
	foreign := seedScript(t, s, other.ID, true)

	resp, _ := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind":      "script_coverage",
		"script_id": foreign.ID,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFailGenerationRefunds(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "director", models.RoleVerified)
	grantCredits(t, s, user.ID, 100)
	adminUser, adminToken := createUser(t, s, "operator", models.RoleVerified)
	makeAdmin(t, s, adminUser.ID)

	resp, body := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind": "storyboard",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	jobID := uint(body["id"].(float64))

	balance, err := s.creditService.Balance(t.Context(), user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 85, balance)

	// Provider failure relayed through the operator surface refunds the cost.
	resp, body = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/generation/%d/fail", jobID), adminToken,
		map[string]any{"reason": "render node died"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.GenerationStatusFailed), body["status"])
	assert.Equal(t, "render node died", body["error"])

	balance, err = s.creditService.Balance(t.Context(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, balance)

	// A settled job cannot settle twice.
	resp, _ = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/generation/%d/fail", jobID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompleteGeneration(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "director", models.RoleVerified)
	grantCredits(t, s, user.ID, 100)
	adminUser, adminToken := createUser(t, s, "operator", models.RoleVerified)
	makeAdmin(t, s, adminUser.ID)

	resp, body := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind": "script_coverage",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	jobID := uint(body["id"].(float64))

	resp, body = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/generation/%d/complete", jobID), adminToken,
		map[string]any{"result_url": "https://media.example.com/coverage/42.pdf"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.GenerationStatusCompleted), body["status"])
	assert.NotNil(t, body["completed_at"])

	// No refund on success.
	balance, err := s.creditService.Balance(t.Context(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 95, balance)

	// The operator relay refuses a completion without a result URL.
	resp, _ = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/generation/%d/complete", jobID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerationJobOwnership(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	user, token := createUser(t, s, "director", models.RoleVerified)
	_, otherToken := createUser(t, s, "snoop", models.RoleVerified)
	grantCredits(t, s, user.ID, 100)

	resp, body := doJSON(t, app, "POST", "/api/generate", token, map[string]any{
		"kind": "script_coverage",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	jobID := uint(body["id"].(float64))

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/generate/%d", jobID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/generate/%d", jobID), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
