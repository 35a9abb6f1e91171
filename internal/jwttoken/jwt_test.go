package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bolao/pkg/domainerrors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-signing-key", "bolao")
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "John Doe", "https://example.com/avatar.png", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", claims.Name)
	assert.Equal(t, "https://example.com/avatar.png", claims.AvatarURL)
	assert.Equal(t, "bolao", claims.Issuer)

	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := New("test-signing-key", "bolao")

	token, err := svc.GenerateAccessToken(uuid.New(), "John Doe", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := New("key-a", "bolao").GenerateAccessToken(uuid.New(), "John Doe", "", time.Hour)
	require.NoError(t, err)

	_, err = New("key-b", "bolao").ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestValidateGarbage(t *testing.T) {
	_, err := New("key", "bolao").ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
