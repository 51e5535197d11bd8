package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService() *Service {
	return NewService(
		"test-access-secret-key-123456789",
		"test-refresh-secret-key-123456789",
		time.Hour,
		24*time.Hour,
	)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := setupTestService()
	employeeID := uuid.New()

	token, err := svc.GenerateAccessToken(employeeID, "ana@lab.example", "UNIT_MANAGER", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, employeeID, claims.EmployeeID)
	assert.Equal(t, "ana@lab.example", claims.Email)
	assert.Equal(t, "UNIT_MANAGER", claims.SystemRole)
	assert.True(t, claims.MustChangePassword)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := setupTestService()
	employeeID := uuid.New()

	token, err := svc.GenerateRefreshToken(employeeID, "ana@lab.example")
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, employeeID, claims.EmployeeID)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidate_RejectsWrongTokenType(t *testing.T) {
	svc := setupTestService()

	refresh, err := svc.GenerateRefreshToken(uuid.New(), "ana@lab.example")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidate_RejectsWrongSecret(t *testing.T) {
	svc := setupTestService()
	other := NewService("other-secret", "other-refresh-secret", time.Hour, 24*time.Hour)

	token, err := svc.GenerateAccessToken(uuid.New(), "ana@lab.example", "COLLABORATOR", false)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidate_RejectsExpiredToken(t *testing.T) {
	svc := NewService("s", "r", -time.Minute, -time.Minute)

	token, err := svc.GenerateAccessToken(uuid.New(), "ana@lab.example", "COLLABORATOR", false)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
	assert.True(t, svc.IsTokenExpired(token))
}

func TestValidate_RejectsGarbage(t *testing.T) {
	svc := setupTestService()
	_, err := svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
