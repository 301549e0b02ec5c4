package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/lib/jwt"
)

func TestGenerateAndParseToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)

	token, err := maker.GenerateToken("student1", "student", "uid-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)

	assert.Equal(t, "student1", claims.Username)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "uid-123", claims.UserUID)
}

func TestParseToken_Expired(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("student1", "student", "uid-123")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	require.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Minute)
	other := jwt.NewJWTMaker("other-secret", time.Minute)

	token, err := maker.GenerateToken("student1", "student", "uid-123")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}
