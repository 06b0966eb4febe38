package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateToken(userID, "user@example.com", "User", "MANAGER", false, "v1")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, "MANAGER", claims.RoleCode)
	require.Equal(t, "v1", claims.TokenVersion)
	require.False(t, claims.IsSuperuser)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "user@example.com", "User", "VENDOR", false, "v1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ValidateToken(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}
