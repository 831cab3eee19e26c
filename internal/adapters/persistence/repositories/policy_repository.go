package repositories

import (
	"context"

	"rentaguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// policyRepository implements PolicyRepository
type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new rental policy repository
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

// Create creates a new rental policy
func (r *policyRepository) Create(ctx context.Context, policy *models.RentalPolicy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

// GetByID gets a policy with its guarantors
func (r *policyRepository) GetByID(ctx context.Context, id string) (*models.RentalPolicy, error) {
	var policy models.RentalPolicy
	err := r.db.WithContext(ctx).
		Preload("Guarantors").
		First(&policy, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// GetByFolio gets a policy by its folio
func (r *policyRepository) GetByFolio(ctx context.Context, folio string) (*models.RentalPolicy, error) {
	var policy models.RentalPolicy
	err := r.db.WithContext(ctx).
		Where("folio = ?", folio).
		First(&policy).Error
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// Update updates a policy
func (r *policyRepository) Update(ctx context.Context, policy *models.RentalPolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

// List lists policies with pagination
func (r *policyRepository) List(ctx context.Context, offset, limit int) ([]*models.RentalPolicy, int64, error) {
	var policies []*models.RentalPolicy
	var total int64

	r.db.WithContext(ctx).Model(&models.RentalPolicy{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&policies).Error

	return policies, total, err
}
