package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "member@club.test", RoleMember, "test-secret")
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "member@club.test", claims.Email)
	assert.Equal(t, RoleMember, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.test", RoleAdmin, "secret-one")
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-two")
	assert.Error(t, err)
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := GenerateAccessToken(1, "a@b.test", RoleMember, "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	_, err = ValidateToken("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestRefreshAccessToken(t *testing.T) {
	_, refresh, err := GenerateTokens(7, "t@club.test", RoleTrainer, "access-secret", "refresh-secret")
	require.NoError(t, err)

	newAccess, claims, err := RefreshAccessToken(refresh, "refresh-secret", "access-secret")
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)

	accessClaims, err := ValidateToken(newAccess, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, "access", accessClaims.TokenType)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	access, err := GenerateAccessToken(7, "t@club.test", RoleTrainer, "same-secret")
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(access, "same-secret", "same-secret")
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
