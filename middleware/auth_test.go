package middleware

import (
	"testing"
	"time"

	"timesheets/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	user := &models.User{Name: "Alice", Role: models.RoleSupervisor}
	user.ID = 42

	token, err := GenerateToken(user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, models.RoleSupervisor, claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	SetJWTSecret("test-secret")
	user := &models.User{Name: "Alice", Role: models.RoleOperative}
	user.ID = 1

	token, err := GenerateToken(user, time.Hour)
	require.NoError(t, err)

	SetJWTSecret("another-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenTampered(t *testing.T) {
	SetJWTSecret("test-secret")
	user := &models.User{Name: "Alice", Role: models.RoleOperative}
	user.ID = 1

	token, err := GenerateToken(user, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	SetJWTSecret("test-secret")
	user := &models.User{Name: "Alice", Role: models.RoleOperative}
	user.ID = 1

	token, err := GenerateToken(user, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}
