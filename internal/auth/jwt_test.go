package auth

import (
	"testing"

	"tasktrack-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("u-1", "sarah", models.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "sarah", claims.Username)
	require.Equal(t, models.RoleManager, claims.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, CheckPassword(hash, "s3cret"))
	require.False(t, CheckPassword(hash, "wrong"))
}
