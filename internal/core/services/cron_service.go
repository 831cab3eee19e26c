package services

import (
	"context"
	"log"
	"time"

	"rentaguard/internal/adapters/persistence/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronService runs the scheduled housekeeping jobs: revoking expired
// guarantor access tokens and purging expired staff refresh tokens.
type CronService struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB) *CronService {
	return &CronService{
		db:   db,
		cron: cron.New(),
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() {
	// 02:15 daily: drop access tokens past their expiry
	s.cron.AddFunc("15 2 * * *", s.sweepExpiredAccessTokens)
	// 03:00 daily: purge expired staff refresh tokens
	s.cron.AddFunc("0 3 * * *", s.purgeExpiredRefreshTokens)

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler, waiting for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

// sweepExpiredAccessTokens nulls out guarantor access tokens whose
// expiry has passed. Expired tokens are already rejected at
// validation; the sweep keeps the table free of stale secrets.
func (s *CronService) sweepExpiredAccessTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := s.db.WithContext(ctx).
		Model(&models.Guarantor{}).
		Where("access_token IS NOT NULL AND token_expires_at < ?", time.Now()).
		Updates(map[string]interface{}{
			"access_token":     nil,
			"token_expires_at": nil,
		})
	if result.Error != nil {
		log.Printf("❌ Access token sweep error: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("🗑️ Revoked %d expired access tokens", result.RowsAffected)
	}

	var expiringSoon int64
	err := s.db.WithContext(ctx).
		Model(&models.Guarantor{}).
		Where("access_token IS NOT NULL AND token_expires_at BETWEEN ? AND ?", time.Now(), time.Now().Add(24*time.Hour)).
		Count(&expiringSoon).Error
	if err != nil {
		log.Printf("❌ Expiring token count error: %v", err)
		return
	}
	if expiringSoon > 0 {
		log.Printf("⚠️ %d guarantor access tokens expire within 24h", expiringSoon)
	}
}

func (s *CronService) purgeExpiredRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := s.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		log.Printf("❌ Refresh token purge error: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("🗑️ Purged %d expired refresh tokens", result.RowsAffected)
	}
}
