package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/adapters/persistence/repositories"
	"rentaguard/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Access Token Lifecycle - account-less guarantor self-service
// ============================================================

// DefaultTokenDays is the default access token lifetime
const DefaultTokenDays = 7

// AccessTokenService manages the opaque bearer token that lets a
// guarantor load and edit their own record without an account. One
// token per guarantor; generating overwrites the previous one.
type AccessTokenService struct {
	guarantorRepo repositories.GuarantorRepository
	activity      ActivityRecorder
}

// NewAccessTokenService creates a new access token service
func NewAccessTokenService(guarantorRepo repositories.GuarantorRepository, activity ActivityRecorder) *AccessTokenService {
	return &AccessTokenService{guarantorRepo: guarantorRepo, activity: activity}
}

// Generate mints a fresh token for a guarantor, valid for expiryDays
// from now, and persists it. Any prior token stops working.
func (s *AccessTokenService) Generate(ctx context.Context, guarantorID string, expiryDays int) (string, time.Time, error) {
	if expiryDays <= 0 {
		expiryDays = DefaultTokenDays
	}

	token, err := generateOpaqueToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	expiresAt := time.Now().Add(time.Duration(expiryDays) * 24 * time.Hour)
	if err := s.guarantorRepo.SaveToken(ctx, guarantorID, &token, &expiresAt); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// Validate resolves a token to its guarantor. A miss is
// domain.ErrTokenInvalid; strictly past the expiry instant is
// domain.ErrTokenExpired (a request at the exact instant still
// passes). Returns the remaining whole hours alongside the snapshot.
func (s *AccessTokenService) Validate(ctx context.Context, token string) (*models.Guarantor, int, error) {
	if token == "" {
		return nil, 0, domain.ErrTokenInvalid
	}

	g, err := s.guarantorRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrTokenInvalid
		}
		return nil, 0, err
	}

	if g.TokenExpiresAt == nil {
		return nil, 0, domain.ErrTokenInvalid
	}
	if time.Now().After(*g.TokenExpiresAt) {
		return nil, 0, domain.ErrTokenExpired
	}

	remaining := int(time.Until(*g.TokenExpiresAt).Hours())
	return g, remaining, nil
}

// Refresh extends the token's life to expiryDays from now (not from
// the old expiry). The token string itself is unchanged.
func (s *AccessTokenService) Refresh(ctx context.Context, guarantorID string, expiryDays int, actorID, ipAddress string) (time.Time, error) {
	if expiryDays <= 0 {
		expiryDays = DefaultTokenDays
	}

	g, err := s.guarantorRepo.GetByID(ctx, guarantorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, domain.ErrGuarantorNotFound
		}
		return time.Time{}, err
	}
	if g.AccessToken == nil {
		return time.Time{}, domain.ErrTokenInvalid
	}

	expiresAt := time.Now().Add(time.Duration(expiryDays) * 24 * time.Hour)
	if err := s.guarantorRepo.SaveToken(ctx, guarantorID, g.AccessToken, &expiresAt); err != nil {
		return time.Time{}, err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionTokenRefreshed, actorID, fmt.Sprintf("%d days", expiryDays), ipAddress)
	}
	return expiresAt, nil
}

// Revoke nulls out both token and expiry
func (s *AccessTokenService) Revoke(ctx context.Context, guarantorID, actorID, ipAddress string) error {
	g, err := s.guarantorRepo.GetByID(ctx, guarantorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrGuarantorNotFound
		}
		return err
	}

	if err := s.guarantorRepo.SaveToken(ctx, guarantorID, nil, nil); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionTokenRevoked, actorID, "", ipAddress)
	}
	return nil
}

// generateOpaqueToken returns 32 bytes of crypto randomness hex-encoded
func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
