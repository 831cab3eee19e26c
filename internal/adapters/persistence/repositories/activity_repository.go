package repositories

import (
	"context"

	"rentaguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// activityLogRepository implements ActivityLogRepository
type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// Create appends a timeline entry
func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByPolicyID lists a policy's timeline, newest first
func (r *activityLogRepository) GetByPolicyID(ctx context.Context, policyID string, limit int) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("policy_id = ?", policyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// GetByGuarantorID lists one guarantor's timeline, newest first
func (r *activityLogRepository) GetByGuarantorID(ctx context.Context, guarantorID string, limit int) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	err := r.db.WithContext(ctx).
		Where("guarantor_id = ?", guarantorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
