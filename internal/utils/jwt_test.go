package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	access, err := NewAccessToken("secret", "admin@example.com", "ADMIN", 30)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), access.Exp, 5*time.Second)

	parsed, err := jwt.Parse(access.Token, func(tok *jwt.Token) (any, error) {
		require.Equal(t, jwt.SigningMethodHS256, tok.Method)
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	access, err := NewAccessToken("secret", "admin@example.com", "ADMIN", 30)
	require.NoError(t, err)

	_, err = jwt.Parse(access.Token, func(*jwt.Token) (any, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}
