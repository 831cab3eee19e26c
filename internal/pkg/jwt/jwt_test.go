package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "lrojas", "AGENT", testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "lrojas", claims.Username)
	assert.Equal(t, "AGENT", claims.Role)
	assert.Equal(t, "rentaguard", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "lrojas", "AGENT", testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "some-other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredAccessToken(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "lrojas", "AGENT", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("user-1", "token-abc", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "token-abc", claims.TokenID)
}

func TestRefreshAndAccessTokensAreNotInterchangeable(t *testing.T) {
	refresh, err := GenerateRefreshToken("user-1", "token-abc", testSecret, 7)
	require.NoError(t, err)

	// A refresh token parses as access claims but carries no username or
	// role, so downstream role checks fail closed.
	claims, err := ValidateAccessToken(refresh, testSecret)
	if err == nil {
		assert.Empty(t, claims.Role)
	}
}

func TestGarbageToken(t *testing.T) {
	_, err := ValidateAccessToken("not.a.jwt", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
