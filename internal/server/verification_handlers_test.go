package server

import (
	"fmt"
	"net/http"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End to end: public member applies, admin approves, gate opens.
func TestVerificationLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	applicant, token := createUser(t, s, "applicant", models.RolePublic)
	adminUser, adminToken := createUser(t, s, "reviewer", models.RoleVerified)
	makeAdmin(t, s, adminUser.ID)

	// Gated content is closed before verification.
	resp, _ := doJSON(t, app, "GET", "/api/scripts", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Submit moves the member to pending.
	resp, body := doJSON(t, app, "POST", "/api/verification", token, map[string]any{
		"service_branch":   "Army",
		"years_of_service": 6,
		"document_ref":     "dd214-upload-1234",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := uint(body["id"].(float64))
	assert.Equal(t, string(models.VerificationStatusPending), body["status"])

	var fresh models.User
	require.NoError(t, s.db.First(&fresh, applicant.ID).Error)
	assert.Equal(t, models.RolePending, fresh.Role)

	// Pending is still outside the gate.
	resp, _ = doJSON(t, app, "GET", "/api/scripts", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A second submit returns the open request instead of filing another.
	resp, body = doJSON(t, app, "POST", "/api/verification", token, map[string]any{
		"service_branch":   "Navy",
		"years_of_service": 2,
		"document_ref":     "other-doc",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, requestID, body["id"])
	assert.Equal(t, "Army", body["service_branch"])

	// The reviewer sees it in the queue and approves.
	resp, _ = doJSON(t, app, "GET", "/api/admin/verification", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/verification/%d/approve", requestID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.VerificationStatusApproved), body["status"])

	require.NoError(t, s.db.First(&fresh, applicant.ID).Error)
	assert.Equal(t, models.RoleVerified, fresh.Role)
	assert.True(t, fresh.IsVerified)
	assert.Equal(t, "Army", fresh.ServiceBranch)

	// The gate is open now.
	resp, _ = doJSON(t, app, "GET", "/api/scripts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Re-deciding a settled request fails.
	resp, _ = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/verification/%d/approve", requestID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerificationRejectionReturnsToPublic(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	applicant, token := createUser(t, s, "applicant", models.RolePublic)
	adminUser, adminToken := createUser(t, s, "reviewer", models.RoleVerified)
	makeAdmin(t, s, adminUser.ID)

	resp, body := doJSON(t, app, "POST", "/api/verification", token, map[string]any{
		"service_branch":   "Marine Corps",
		"years_of_service": 4,
		"document_ref":     "dd214-upload-9",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	requestID := uint(body["id"].(float64))

	resp, body = doJSON(t, app, "POST",
		fmt.Sprintf("/api/admin/verification/%d/reject", requestID), adminToken,
		map[string]any{"reason": "document unreadable"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.VerificationStatusRejected), body["status"])
	assert.Equal(t, "document unreadable", body["reason"])

	// Back to public, free to re-apply.
	var fresh models.User
	require.NoError(t, s.db.First(&fresh, applicant.ID).Error)
	assert.Equal(t, models.RolePublic, fresh.Role)

	resp, _ = doJSON(t, app, "POST", "/api/verification", token, map[string]any{
		"service_branch":   "Marine Corps",
		"years_of_service": 4,
		"document_ref":     "dd214-upload-10",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSubmitVerificationValidation(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)
	_, token := createUser(t, s, "applicant", models.RolePublic)
	_, verifiedToken := createUser(t, s, "veteran", models.RoleVerified)

	tests := []struct {
		name  string
		token string
		body  map[string]any
	}{
		{"unknown branch", token, map[string]any{
			"service_branch": "starfleet", "years_of_service": 3, "document_ref": "x"}},
		{"years out of range", token, map[string]any{
			"service_branch": "Army", "years_of_service": 99, "document_ref": "x"}},
		{"missing document", token, map[string]any{
			"service_branch": "Army", "years_of_service": 3}},
		{"already verified", verifiedToken, map[string]any{
			"service_branch": "Army", "years_of_service": 3, "document_ref": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, "POST", "/api/verification", tt.token, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAdminRequired(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)
	_, token := createUser(t, s, "regular", models.RoleVerified)

	resp, body := doJSON(t, app, "GET", "/api/admin/verification", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", body["error"])
}
