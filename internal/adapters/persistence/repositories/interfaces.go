package repositories

import (
	"context"
	"time"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/core/domain"
)

// UserRepository defines staff user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines staff refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}

// PolicyRepository defines rental policy repository interface
type PolicyRepository interface {
	Create(ctx context.Context, policy *models.RentalPolicy) error
	GetByID(ctx context.Context, id string) (*models.RentalPolicy, error)
	GetByFolio(ctx context.Context, folio string) (*models.RentalPolicy, error)
	Update(ctx context.Context, policy *models.RentalPolicy) error
	List(ctx context.Context, offset, limit int) ([]*models.RentalPolicy, int64, error)
}

// GuarantorRepository defines guarantor repository interface.
// GetByID/GetByToken return the full aggregate (profiles, guarantees,
// references preloaded).
type GuarantorRepository interface {
	Create(ctx context.Context, g *models.Guarantor) error
	GetByID(ctx context.Context, id string) (*models.Guarantor, error)
	GetByPolicyID(ctx context.Context, policyID string) ([]*models.Guarantor, error)
	GetByToken(ctx context.Context, token string) (*models.Guarantor, error)
	Update(ctx context.Context, g *models.Guarantor) error
	Delete(ctx context.Context, id string) error

	SavePerson(ctx context.Context, p *models.PersonProfile) error
	SaveCompany(ctx context.Context, c *models.CompanyProfile) error

	SavePropertyGuarantee(ctx context.Context, pg *models.PropertyGuarantee) error
	SaveIncomeGuarantee(ctx context.Context, ig *models.IncomeGuarantee) error
	ClearPropertyGuarantee(ctx context.Context, guarantorID string) error
	ClearIncomeGuarantee(ctx context.Context, guarantorID string) error

	// SetGuaranteeMethod applies the method change and the opposite
	// method's clearing in a single transaction.
	SetGuaranteeMethod(ctx context.Context, guarantorID string, method domain.GuaranteeMethod, clearProperty, clearIncome bool) error

	// Reference saves are full replaces: delete-all then insert-all in
	// one transaction, never a merge.
	SavePersonalReferences(ctx context.Context, guarantorID string, refs []models.PersonalReference) error
	SaveCommercialReferences(ctx context.Context, guarantorID string, refs []models.CommercialReference) error

	SaveToken(ctx context.Context, guarantorID string, token *string, expiresAt *time.Time) error
	MarkAsComplete(ctx context.Context, guarantorID string, at time.Time) error
	MarkSubmitted(ctx context.Context, guarantorID string, at time.Time) error
	SetVerificationStatus(ctx context.Context, guarantorID string, status domain.VerificationStatus, verifiedBy *string, reason *string) error

	Archive(ctx context.Context, guarantorID string) error
	Restore(ctx context.Context, guarantorID string) error
}

// AddressRepository defines address repository interface
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id string) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
}

// DocumentRepository defines document repository interface
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByGuarantorID(ctx context.Context, guarantorID string) ([]*models.Document, error)
	CountByCategory(ctx context.Context, guarantorID string) (map[string]int, error)
	Delete(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]*models.DocumentCategory, error)
}

// ActivityLogRepository defines activity log repository interface
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	GetByPolicyID(ctx context.Context, policyID string, limit int) ([]*models.ActivityLog, error)
	GetByGuarantorID(ctx context.Context, guarantorID string, limit int) ([]*models.ActivityLog, error)
}
