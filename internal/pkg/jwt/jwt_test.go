package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@example.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestSSEToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestValidateSSEToken_Rejects(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	access, _, err := svc.GenerateAccessToken("user-1", "a@example.com", user.RoleEmployee)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	other := NewJWTService("other-secret", time.Hour)
	foreign, _, err := other.GenerateSSEToken("user-1")
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(foreign)
	assert.Error(t, err)

	expired := NewJWTService("secret", time.Hour).(*JWTService)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.GenerateSSEToken("user-1")
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(stale)
	assert.Error(t, err)
}
