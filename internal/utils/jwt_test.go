package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestUserIDFromToken_ExtractsSubject(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	got, err := UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", got)
}

func TestUserIDFromToken_NoSubject(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	_, err := UserIDFromToken(token)
	require.Error(t, err)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	_, err := UserIDFromToken("not-a-jwt")
	require.Error(t, err)
}

func TestTokenExpired_FreshToken(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	assert.False(t, TokenExpired(token))
}

func TestTokenExpired_PastExpiry(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})

	assert.True(t, TokenExpired(token))
}

func TestTokenExpired_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "user-1"})

	// без exp считаем просроченным — мост отдаст fallback в очередь
	assert.True(t, TokenExpired(token))
}

func TestTokenExpired_Garbage(t *testing.T) {
	assert.True(t, TokenExpired("###"))
}
