package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	SetJWTSecret("test-secret")

	token, exp, err := GenerateToken(42, "ana", "waiter", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserId)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "waiter", claims.Role)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	SetJWTSecret("test-secret")

	token, _, err := GenerateToken(1, "ana", "waiter", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	SetJWTSecret("first-secret")
	token, _, err := GenerateToken(1, "ana", "waiter", time.Hour)
	require.NoError(t, err)

	SetJWTSecret("second-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
