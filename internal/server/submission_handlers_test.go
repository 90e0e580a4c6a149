package server

import (
	"fmt"
	"net/http"
	"testing"

	"reelcorps/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubmission(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	author, token := createUser(t, s, "filmmaker", models.RoleVerified)
	other, _ := createUser(t, s, "rival", models.RoleVerified)
	ownScript := seedScript(t, s, author.ID, false)
	foreignScript := seedScript(t, s, other.ID, true)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{
			name: "valid script entry",
			body: map[string]any{
				"festival_slug": "veterans-film-festival",
				"script_id":     ownScript.ID,
				"notes":         "first round",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown festival",
			body:       map[string]any{"festival_slug": "cannes", "script_id": ownScript.ID},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no material",
			body:       map[string]any{"festival_slug": "veterans-film-festival"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "festival takes no scripts",
			body:       map[string]any{"festival_slug": "gi-film-festival", "script_id": ownScript.ID},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "someone else's script",
			body:       map[string]any{"festival_slug": "veterans-film-festival", "script_id": foreignScript.ID},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/api/submissions", token, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, string(models.SubmissionStatusDraft), body["status"])
				assert.Nil(t, body["submitted_at"])
			}
		})
	}
}

func TestUpdateSubmissionStatusStampsSubmittedAt(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	author, token := createUser(t, s, "filmmaker", models.RoleVerified)
	script := seedScript(t, s, author.ID, false)

	scriptID := script.ID
	sub := &models.FestivalSubmission{
		SubmitterID:  author.ID,
		FestivalSlug: "slamdance",
		ScriptID:     &scriptID,
		Status:       models.SubmissionStatusDraft,
	}
	require.NoError(t, s.db.Create(sub).Error)

	resp, body := doJSON(t, app, "PUT",
		fmt.Sprintf("/api/submissions/%d/status", sub.ID), token,
		map[string]any{"status": "submitted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(models.SubmissionStatusSubmitted), body["status"])
	assert.NotNil(t, body["submitted_at"])
	firstStamp := body["submitted_at"]

	// Later transitions keep the original stamp.
	resp, _ = doJSON(t, app, "PUT",
		fmt.Sprintf("/api/submissions/%d/status", sub.ID), token,
		map[string]any{"status": "accepted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = doJSON(t, app, "PUT",
		fmt.Sprintf("/api/submissions/%d/status", sub.ID), token,
		map[string]any{"status": "submitted"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, firstStamp, body["submitted_at"])

	// Unknown status is refused.
	resp, _ = doJSON(t, app, "PUT",
		fmt.Sprintf("/api/submissions/%d/status", sub.ID), token,
		map[string]any{"status": "shortlisted-maybe"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmissionOwnership(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)

	author, _ := createUser(t, s, "filmmaker", models.RoleVerified)
	_, otherToken := createUser(t, s, "snoop", models.RoleVerified)

	script := seedScript(t, s, author.ID, false)
	scriptID := script.ID
	sub := &models.FestivalSubmission{
		SubmitterID:  author.ID,
		FestivalSlug: "slamdance",
		ScriptID:     &scriptID,
		Status:       models.SubmissionStatusDraft,
	}
	require.NoError(t, s.db.Create(sub).Error)

	// Another member sees 404, never 403.
	resp, _ := doJSON(t, app, "GET",
		fmt.Sprintf("/api/submissions/%d", sub.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE",
		fmt.Sprintf("/api/submissions/%d", sub.ID), otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
