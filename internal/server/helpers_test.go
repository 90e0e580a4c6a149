package server

import (
	"net/http"
	"testing"

	"reelcorps/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(http.StatusOK)
	})

	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Limit: 20, Offset: 0}},
		{"explicit", "?limit=5&offset=10", Pagination{Limit: 5, Offset: 10}},
		{"clamped to max", "?limit=5000", Pagination{Limit: 100, Offset: 0}},
		{"negative falls back", "?limit=-3&offset=-7", Pagination{Limit: 20, Offset: 0}},
		{"garbage falls back", "?limit=abc", Pagination{Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", "/"+tt.query, nil)
			require.NoError(t, err)
			_, err = app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"requestId", "request ID"},
		{"commentId", "comment ID"},
		{"slug", "slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeParam(tt.param))
	}
}

func TestRespondAppErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", models.NewNotFoundError("Script", 1), http.StatusNotFound},
		{"validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"insufficient credits", models.NewInsufficientCreditsError(40, 3), http.StatusBadRequest},
		{"unauthorized", models.NewUnauthorizedError("nope"), http.StatusUnauthorized},
		{"rate limited", models.NewRateLimitError("slow down"), http.StatusTooManyRequests},
		{"internal", models.NewInternalError(assert.AnError), http.StatusInternalServerError},
		{"plain error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondAppError(c, tt.err)
			})

			req, err := http.NewRequest("GET", "/", nil)
			require.NoError(t, err)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestBuildAppErrorEnvelope(t *testing.T) {
	s := newTestServer(t, nil)
	app := s.BuildApp()

	// Router-level errors keep their status and the JSON error envelope.
	resp, body := doJSON(t, app, "GET", "/api/no-such-route", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "Cannot GET")
}
