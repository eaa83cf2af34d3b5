package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/services"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	env.users.registerOut = &models.UserView{UserID: 42, Email: "a@b.c", Role: models.RoleUser}

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "a@b.c", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, float64(42), body["user_id"])
	require.Equal(t, "a@b.c", body["email"])
	require.NotContains(t, w.Body.String(), "password")
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{"email": "a@b.c"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.users.registerErr = common.ErrorConflict

	w := env.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "a@b.c", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "Email already exists", decodeBody(t, w)["error"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.users.loginOut = &services.LoginResult{
		Token: "tok-123",
		User:  activeUser(7, models.RoleUser),
	}

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "a@b.c", "password": "secret1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "tok-123", body["token"])
	user := body["user"].(map[string]any)
	require.Equal(t, float64(7), user["user_id"])
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)

	env.users.loginErr = common.ErrorUnauthorized
	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@b.c", "password": "x"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	env.users.loginErr = common.ErrAccountDeactivated
	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@b.c", "password": "x"}, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "Account is deactivated", decodeBody(t, w)["error"])

	env.users.loginErr = common.ErrorInternal
	w = env.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "a@b.c", "password": "x"}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Internal server error", decodeBody(t, w)["error"], "no internal detail leaks")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/logout", map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Token is required", decodeBody(t, w)["error"])

	w = env.do(t, http.MethodPost, "/api/auth/logout", map[string]any{"token": "tok"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Logged out successfully", decodeBody(t, w)["message"])
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t)

	// missing token
	w := env.do(t, http.MethodPost, "/api/auth/verify", map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Token is required", decodeBody(t, w)["error"])

	// valid
	env.users.verifyOut = activeUser(7, models.RoleUser)
	w = env.do(t, http.MethodPost, "/api/auth/verify", map[string]any{"token": "tok"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["valid"])

	// invalid
	env.users.verifyErr = common.ErrorUnauthorized
	w = env.do(t, http.MethodPost, "/api/auth/verify", map[string]any{"token": "tok"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["valid"])
	require.Equal(t, "Invalid token", body["error"])

	// expired
	env.users.verifyErr = common.ErrTokenExpired
	w = env.do(t, http.MethodPost, "/api/auth/verify", map[string]any{"token": "tok"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Token expired", decodeBody(t, w)["error"])

	// deactivated
	env.users.verifyErr = common.ErrAccountDeactivated
	w = env.do(t, http.MethodPost, "/api/auth/verify", map[string]any{"token": "tok"}, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, false, decodeBody(t, w)["valid"])
}
