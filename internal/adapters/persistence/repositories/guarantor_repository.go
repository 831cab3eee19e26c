package repositories

import (
	"context"
	"time"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"

	"gorm.io/gorm"
)

// guarantorRepository implements GuarantorRepository
type guarantorRepository struct {
	db *gorm.DB
}

// NewGuarantorRepository creates a new guarantor repository
func NewGuarantorRepository(db *gorm.DB) GuarantorRepository {
	return &guarantorRepository{db: db}
}

// Create creates a new guarantor
func (r *guarantorRepository) Create(ctx context.Context, g *models.Guarantor) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *guarantorRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Preload("PropertyGuarantee").
		Preload("IncomeGuarantee").
		Preload("PersonalReferences").
		Preload("CommercialReferences")
}

// GetByID gets a guarantor aggregate by ID
func (r *guarantorRepository) GetByID(ctx context.Context, id string) (*models.Guarantor, error) {
	var g models.Guarantor
	err := r.preloaded(ctx).First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetByPolicyID gets all guarantors attached to a policy
func (r *guarantorRepository) GetByPolicyID(ctx context.Context, policyID string) ([]*models.Guarantor, error) {
	var gs []*models.Guarantor
	err := r.preloaded(ctx).
		Where("policy_id = ?", policyID).
		Order("created_at ASC").
		Find(&gs).Error
	return gs, err
}

// GetByToken gets a guarantor by its access token
func (r *guarantorRepository) GetByToken(ctx context.Context, token string) (*models.Guarantor, error) {
	var g models.Guarantor
	err := r.preloaded(ctx).First(&g, "access_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update saves the guarantor row (not its sub-records)
func (r *guarantorRepository) Update(ctx context.Context, g *models.Guarantor) error {
	return r.db.WithContext(ctx).Omit(
		"Person", "Company", "PropertyGuarantee", "IncomeGuarantee",
		"PersonalReferences", "CommercialReferences",
	).Save(g).Error
}

// Delete soft deletes a guarantor
func (r *guarantorRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Guarantor{}, "id = ?", id).Error
}

// SavePerson upserts the individual profile
func (r *guarantorRepository) SavePerson(ctx context.Context, p *models.PersonProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveCompany upserts the company profile
func (r *guarantorRepository) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SavePropertyGuarantee upserts the property guarantee sub-record
func (r *guarantorRepository) SavePropertyGuarantee(ctx context.Context, pg *models.PropertyGuarantee) error {
	return r.db.WithContext(ctx).Save(pg).Error
}

// SaveIncomeGuarantee upserts the income guarantee sub-record
func (r *guarantorRepository) SaveIncomeGuarantee(ctx context.Context, ig *models.IncomeGuarantee) error {
	return r.db.WithContext(ctx).Save(ig).Error
}

// ClearPropertyGuarantee removes the property guarantee sub-record
func (r *guarantorRepository) ClearPropertyGuarantee(ctx context.Context, guarantorID string) error {
	return r.db.WithContext(ctx).
		Where("guarantor_id = ?", guarantorID).
		Delete(&models.PropertyGuarantee{}).Error
}

// ClearIncomeGuarantee removes the income guarantee sub-record
func (r *guarantorRepository) ClearIncomeGuarantee(ctx context.Context, guarantorID string) error {
	return r.db.WithContext(ctx).
		Where("guarantor_id = ?", guarantorID).
		Delete(&models.IncomeGuarantee{}).Error
}

// SetGuaranteeMethod changes the method and clears the opposite
// method's data in one transaction. A reader never sees a guarantor
// with both methods populated nor a half-applied switch.
func (r *guarantorRepository) SetGuaranteeMethod(ctx context.Context, guarantorID string, method domain.GuaranteeMethod, clearProperty, clearIncome bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearProperty {
			if err := tx.Where("guarantor_id = ?", guarantorID).
				Delete(&models.PropertyGuarantee{}).Error; err != nil {
				return err
			}
			// Spouse consent only applies to the property method, so the
			// marital sub-record goes with it.
			if err := tx.Model(&models.PersonProfile{}).
				Where("guarantor_id = ?", guarantorID).
				Updates(map[string]interface{}{
					"marital_status": "",
					"spouse_name":    "",
					"spouse_id_no":   "",
				}).Error; err != nil {
				return err
			}
		}
		if clearIncome {
			if err := tx.Where("guarantor_id = ?", guarantorID).
				Delete(&models.IncomeGuarantee{}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Guarantor{}).
			Where("id = ?", guarantorID).
			Updates(map[string]interface{}{
				"guarantee_method":       string(method),
				"has_property_guarantee": method == domain.MethodProperty,
			}).Error
	})
}

// SavePersonalReferences replaces the personal reference list
func (r *guarantorRepository) SavePersonalReferences(ctx context.Context, guarantorID string, refs []models.PersonalReference) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guarantor_id = ?", guarantorID).
			Delete(&models.PersonalReference{}).Error; err != nil {
			return err
		}
		if len(refs) == 0 {
			return nil
		}
		for i := range refs {
			refs[i].GuarantorID = guarantorID
		}
		return tx.Create(&refs).Error
	})
}

// SaveCommercialReferences replaces the commercial reference list
func (r *guarantorRepository) SaveCommercialReferences(ctx context.Context, guarantorID string, refs []models.CommercialReference) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("guarantor_id = ?", guarantorID).
			Delete(&models.CommercialReference{}).Error; err != nil {
			return err
		}
		if len(refs) == 0 {
			return nil
		}
		for i := range refs {
			refs[i].GuarantorID = guarantorID
		}
		return tx.Create(&refs).Error
	})
}

// SaveToken overwrites the access token and expiry
func (r *guarantorRepository) SaveToken(ctx context.Context, guarantorID string, token *string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Guarantor{}).
		Where("id = ?", guarantorID).
		Updates(map[string]interface{}{
			"access_token":     token,
			"token_expires_at": expiresAt,
		}).Error
}

// MarkAsComplete flags the guarantor as information-complete
func (r *guarantorRepository) MarkAsComplete(ctx context.Context, guarantorID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Guarantor{}).
		Where("id = ?", guarantorID).
		Updates(map[string]interface{}{
			"information_complete": true,
			"completed_at":         at,
		}).Error
}

// MarkSubmitted stamps the submission time
func (r *guarantorRepository) MarkSubmitted(ctx context.Context, guarantorID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Guarantor{}).
		Where("id = ?", guarantorID).
		Updates(map[string]interface{}{
			"submitted_at":        at,
			"verification_status": string(domain.VerificationInReview),
		}).Error
}

// SetVerificationStatus records a staff decision
func (r *guarantorRepository) SetVerificationStatus(ctx context.Context, guarantorID string, status domain.VerificationStatus, verifiedBy *string, reason *string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Guarantor{}).
		Where("id = ?", guarantorID).
		Updates(map[string]interface{}{
			"verification_status": string(status),
			"verified_by":         verifiedBy,
			"verified_at":         &now,
			"rejection_reason":    reason,
		}).Error
}

// Archive soft deletes and stamps the ARCHIVED reason. Verification
// history stays untouched.
func (r *guarantorRepository) Archive(ctx context.Context, guarantorID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Guarantor{}).
			Where("id = ?", guarantorID).
			Update("rejection_reason", "ARCHIVED").Error; err != nil {
			return err
		}
		return tx.Delete(&models.Guarantor{}, "id = ?", guarantorID).Error
	})
}

// Restore undoes an archive: back to PENDING, rejection metadata cleared
func (r *guarantorRepository) Restore(ctx context.Context, guarantorID string) error {
	return r.db.WithContext(ctx).
		Unscoped().
		Model(&models.Guarantor{}).
		Where("id = ?", guarantorID).
		Updates(map[string]interface{}{
			"deleted_at":          nil,
			"rejection_reason":    nil,
			"verification_status": string(domain.VerificationPending),
		}).Error
}
