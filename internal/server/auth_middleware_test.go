package server

import (
	"net/http"
	"testing"
	"time"

	"reelcorps/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, nil)
	app := newTestApp(s)
	user, validToken := createUser(t, s, "authuser", models.RoleVerified)

	now := time.Now()
	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub":      "1",
			"username": user.Username,
			"iss":      jwtIssuer,
			"aud":      jwtAudience,
			"exp":      now.Add(time.Hour).Unix(),
			"iat":      now.Unix(),
			"nbf":      now.Unix(),
			"jti":      "test-jti",
		}
	}

	wrongIssuer := base()
	wrongIssuer["iss"] = "someone-else"
	wrongAudience := base()
	wrongAudience["aud"] = "other-client"
	expired := base()
	expired["exp"] = now.Add(-time.Hour).Unix()
	badSubject := base()
	badSubject["sub"] = "not-a-number"

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"valid token", validToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "not.a.jwt", http.StatusUnauthorized},
		{"wrong secret", signTestToken(t, "other-secret", base()), http.StatusUnauthorized},
		{"wrong issuer", signTestToken(t, s.config.JWTSecret, wrongIssuer), http.StatusUnauthorized},
		{"wrong audience", signTestToken(t, s.config.JWTSecret, wrongAudience), http.StatusUnauthorized},
		{"expired token", signTestToken(t, s.config.JWTSecret, expired), http.StatusUnauthorized},
		{"bad subject", signTestToken(t, s.config.JWTSecret, badSubject), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, app, "GET", "/api/users/me", tt.token, nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestAuthRequiredRevokedJTI(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newTestServer(t, rdb)
	app := newTestApp(s)
	_, token := createUser(t, s, "revoked", models.RoleVerified)

	resp, _ := doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Revoke through logout, then the same token must be refused.
	resp, _ = doJSON(t, app, "POST", "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body["error"], "revoked")
}

func TestWSTicketSingleUse(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newTestServer(t, rdb)
	app := newTestApp(s)
	_, token := createUser(t, s, "wsuser", models.RoleVerified)

	resp, body := doJSON(t, app, "POST", "/api/ws/ticket", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticket := body["ticket"].(string)
	require.NotEmpty(t, ticket)
	assert.EqualValues(t, 60, body["expires_in"])

	// The ticket lives under a bounded TTL key.
	mr.CheckGet(t, "ws_ticket:"+ticket, "1")

	// First redemption consumes it atomically.
	req, err := http.NewRequest("GET", "/api/ws?ticket="+ticket, nil)
	require.NoError(t, err)
	first, err := app.Test(req, -1)
	require.NoError(t, err)
	// Not a websocket upgrade request, but authentication already passed;
	// the upgrade layer answers 426.
	assert.NotEqual(t, http.StatusUnauthorized, first.StatusCode)
	assert.False(t, mr.Exists("ws_ticket:"+ticket))

	// Second redemption fails.
	req2, err := http.NewRequest("GET", "/api/ws?ticket="+ticket, nil)
	require.NoError(t, err)
	second, err := app.Test(req2, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, second.StatusCode)
}

func TestWSTicketExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := newTestServer(t, rdb)
	app := newTestApp(s)
	_, token := createUser(t, s, "slowpoke", models.RoleVerified)

	resp, body := doJSON(t, app, "POST", "/api/ws/ticket", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticket := body["ticket"].(string)

	mr.FastForward(2 * time.Minute)

	req, err := http.NewRequest("GET", "/api/ws?ticket="+ticket, nil)
	require.NoError(t, err)
	result, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, result.StatusCode)
}
