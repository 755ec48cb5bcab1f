package server

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/auth"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	app, _ := setupTestServer(t)

	token := registerUser(t, app, "@alice", "alice@example.com")
	require.NotEmpty(t, token)

	// The register token works on a protected route.
	resp, body := doJSON(t, app, fiber.MethodGet, "/api/profile/me", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["profile_complete"])

	// A fresh login issues a new token.
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/auth/login", map[string]string{
		"handle":   "@alice",
		"password": "Sup3rSecret",
	}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "@alice", user["handle"])
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	app, _ := setupTestServer(t)
	registerUser(t, app, "@alice", "alice@example.com")

	cases := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{"weak password", map[string]string{
			"email": "x@example.com", "password": "weak", "handle": "@fresh1", "nickname": "Fresh",
		}, fiber.StatusBadRequest},
		{"bad handle", map[string]string{
			"email": "x@example.com", "password": "Sup3rSecret", "handle": "@a", "nickname": "Fresh",
		}, fiber.StatusBadRequest},
		{"duplicate email", map[string]string{
			"email": "alice@example.com", "password": "Sup3rSecret", "handle": "@fresh1", "nickname": "Fresh",
		}, fiber.StatusConflict},
		{"handle taken different case", map[string]string{
			"email": "x@example.com", "password": "Sup3rSecret", "handle": "@ALICE", "nickname": "Fresh",
		}, fiber.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/register", tc.body, "")
			assert.Equal(t, tc.status, resp.StatusCode, "body: %v", body)
		})
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	app, _ := setupTestServer(t)
	registerUser(t, app, "@alice", "alice@example.com")

	// Wrong password and unknown handle produce identical responses.
	resp1, body1 := doJSON(t, app, fiber.MethodPost, "/api/auth/login", map[string]string{
		"handle": "@alice", "password": "wrong-password",
	}, "")
	resp2, body2 := doJSON(t, app, fiber.MethodPost, "/api/auth/login", map[string]string{
		"handle": "@nobody", "password": "wrong-password",
	}, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp1.StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, resp2.StatusCode)
	assert.Equal(t, body1["error"], body2["error"])
}

func TestLoginLockoutEndToEnd(t *testing.T) {
	app, srv := setupTestServer(t)
	registerUser(t, app, "@alice", "alice@example.com")

	// Four failures stay generic 401s.
	for i := 0; i < 4; i++ {
		resp, _ := doJSON(t, app, fiber.MethodPost, "/api/auth/login", map[string]string{
			"handle": "@alice", "password": "wrong-password",
		}, "")
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	// The fifth crosses the threshold.
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/auth/login", map[string]string{
		"handle": "@alice", "password": "wrong-password",
	}, "")
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode, "body: %v", body)

	// Even the correct password fails while the lock holds.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/login", map[string]string{
		"handle": "@alice", "password": "Sup3rSecret",
	}, "")
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	// The audit trail recorded the transition.
	events := srv.audit.Recent(10)
	require.NotEmpty(t, events)
	assert.Equal(t, "account_locked", string(events[0].Kind))
}

func TestLogoutRequiresAuth(t *testing.T) {
	app, _ := setupTestServer(t)

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token := registerUser(t, app, "@alice", "alice@example.com")
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/auth/logout", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRequiredRejectsGarbageTokens(t *testing.T) {
	app, _ := setupTestServer(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/profile/me", nil, "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestFederatedSignInsCreateMultiplePendingAccounts(t *testing.T) {
	_, srv := setupTestServer(t)
	ctx := context.Background()
	client := auth.ClientInfo{IP: "203.0.113.9", UserAgent: "test"}

	// Every first federated sign-in stores an empty handle; pending
	// accounts must not collide with each other on it.
	first, err := srv.authenticator.FederatedLogin(ctx, "one@example.com", "User One", "", client)
	require.NoError(t, err)
	second, err := srv.authenticator.FederatedLogin(ctx, "two@example.com", "User Two", "", client)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.ProfileComplete())
	assert.False(t, second.ProfileComplete())
}

func TestGoogleRedirectUnconfigured(t *testing.T) {
	app, _ := setupTestServer(t)

	resp, _ := doJSON(t, app, fiber.MethodGet, "/api/auth/google", nil, "")
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
}
