package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

func TestAccessTokenGenerate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeGuarantorRepo()
	svc := NewAccessTokenService(repo, nil)

	g := repo.add(&models.Guarantor{PolicyID: "policy-1"})

	token, expiresAt, err := svc.Generate(ctx, g.ID, 7)
	require.NoError(t, err)
	assert.Len(t, token, 64) // 32 bytes hex-encoded
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	require.NotNil(t, g.AccessToken)
	assert.Equal(t, token, *g.AccessToken)

	t.Run("regenerating replaces the previous token", func(t *testing.T) {
		second, _, err := svc.Generate(ctx, g.ID, 7)
		require.NoError(t, err)
		assert.NotEqual(t, token, second)

		_, _, err = svc.Validate(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("nonpositive days fall back to the default", func(t *testing.T) {
		_, expiresAt, err := svc.Generate(ctx, g.ID, 0)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(DefaultTokenDays*24*time.Hour), expiresAt, time.Minute)
	})
}

func TestAccessTokenValidate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeGuarantorRepo()
	svc := NewAccessTokenService(repo, nil)

	g := repo.add(&models.Guarantor{PolicyID: "policy-1"})
	token, _, err := svc.Generate(ctx, g.ID, 3)
	require.NoError(t, err)

	t.Run("valid token resolves the guarantor", func(t *testing.T) {
		got, remaining, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, g.ID, got.ID)
		assert.Equal(t, 71, remaining) // 3 days minus the moment just elapsed
	})

	t.Run("empty token", func(t *testing.T) {
		_, _, err := svc.Validate(ctx, "")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, _, err := svc.Validate(ctx, "deadbeef")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("expiry is strictly after, not at", func(t *testing.T) {
		// Far enough in the future to still be "now or later" when the
		// check runs; a token expiring in the past is expired.
		atBoundary := time.Now().Add(2 * time.Second)
		g.TokenExpiresAt = &atBoundary
		_, _, err := svc.Validate(ctx, token)
		assert.NoError(t, err)

		past := time.Now().Add(-time.Millisecond)
		g.TokenExpiresAt = &past
		_, _, err = svc.Validate(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("token with no expiry is invalid", func(t *testing.T) {
		g.TokenExpiresAt = nil
		_, _, err := svc.Validate(ctx, token)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestAccessTokenRefresh(t *testing.T) {
	ctx := context.Background()
	repo := newFakeGuarantorRepo()
	activity := &fakeActivity{}
	svc := NewAccessTokenService(repo, activity)

	g := repo.add(&models.Guarantor{PolicyID: "policy-1"})
	token, _, err := svc.Generate(ctx, g.ID, 1)
	require.NoError(t, err)

	t.Run("extends from now, token unchanged", func(t *testing.T) {
		expiresAt, err := svc.Refresh(ctx, g.ID, 14, "agent-1", "")
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), expiresAt, time.Minute)

		got, _, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, g.ID, got.ID)
		assert.Contains(t, activity.actions(), domain.ActionTokenRefreshed)
	})

	t.Run("unknown guarantor", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "nope", 7, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrGuarantorNotFound)
	})

	t.Run("no token to refresh", func(t *testing.T) {
		other := repo.add(&models.Guarantor{PolicyID: "policy-1"})
		_, err := svc.Refresh(ctx, other.ID, 7, "agent-1", "")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestAccessTokenRevoke(t *testing.T) {
	ctx := context.Background()
	repo := newFakeGuarantorRepo()
	activity := &fakeActivity{}
	svc := NewAccessTokenService(repo, activity)

	g := repo.add(&models.Guarantor{PolicyID: "policy-1"})
	token, _, err := svc.Generate(ctx, g.ID, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, g.ID, "admin-1", ""))
	assert.Nil(t, g.AccessToken)
	assert.Nil(t, g.TokenExpiresAt)
	assert.Contains(t, activity.actions(), domain.ActionTokenRevoked)

	_, _, err = svc.Validate(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
