package handlers

import (
	"net/http"
	"testing"

	"timesheets/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.createUser("John Smith", "john@example.com", models.RoleOperative, 22.5)

	rec := f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "john@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "john@example.com", body.User.Email)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	var tokenCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			tokenCookie = c
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Equal(t, body.Token, tokenCookie.Value)
	assert.True(t, tokenCookie.HttpOnly)

	// The issued token works against authenticated routes.
	rec = f.do(http.MethodGet, "/api/timesheets", body.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.createUser("John Smith", "john@example.com", models.RoleOperative, 22.5)

	rec := f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "john@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, rec))

	// Unknown email gets the same answer as a wrong password.
	rec = f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, rec))

	rec = f.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "john@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email and password are required", errorMessage(t, rec))
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newFixture(t)
	op := f.createUser("John Smith", "john@example.com", models.RoleOperative, 22.5)
	require.NoError(t, f.db.Model(&op).Update("is_active", false).Error)

	rec := f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "john@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "account disabled", errorMessage(t, rec))
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture(t)
	op := f.createUser("John Smith", "john@example.com", models.RoleOperative, 22.5)

	rec := f.do(http.MethodPost, "/api/auth/logout", f.token(op), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	op := f.createUser("John Smith", "john@example.com", models.RoleOperative, 22.5)
	token := f.token(op)

	rec := f.do(http.MethodPut, "/api/user/password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "newpassword",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "current password is incorrect", errorMessage(t, rec))

	rec = f.do(http.MethodPut, "/api/user/password", token, map[string]string{
		"current_password": "password123",
		"new_password":     "abc",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be at least 6 characters", errorMessage(t, rec))

	rec = f.do(http.MethodPut, "/api/user/password", token, map[string]string{
		"current_password": "password123",
		"new_password":     "newpassword",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Old password stops working, the new one logs in.
	rec = f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "john@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "john@example.com",
		"password": "newpassword",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
