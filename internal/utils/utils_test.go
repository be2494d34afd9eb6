package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	h1, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("hunter22", bcrypt.MinCost)
	require.NoError(t, err)

	require.NotEqual(t, "hunter22", h1)
	require.NotEqual(t, h1, h2, "salting must make equal passwords hash differently")
	require.True(t, VerifyPassword(h1, "hunter22"))
	require.True(t, VerifyPassword(h2, "hunter22"))
	require.False(t, VerifyPassword(h1, "hunter23"))
	require.False(t, VerifyPassword("not-a-hash", "hunter22"))
}

func TestNewAccessToken(t *testing.T) {
	const secret = "test-secret"
	access, err := NewAccessToken(secret, 42, 30)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)
	require.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), access.Exp, 5*time.Second)

	tok, err := jwt.Parse(access.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	require.EqualValues(t, 42, claims["sub"])

	// a different secret must not verify
	_, err = jwt.Parse(access.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}
