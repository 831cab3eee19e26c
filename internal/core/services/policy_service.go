package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"time"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/adapters/persistence/repositories"
	"rentaguard/internal/core/domain"

	"gorm.io/gorm"
)

// PolicyService manages rental policies and runs the policy-wide
// completion check after guarantor submissions.
type PolicyService struct {
	policyRepo    repositories.PolicyRepository
	guarantorRepo repositories.GuarantorRepository
	addresses     AddressUpserter
	activity      ActivityRecorder
}

// NewPolicyService creates a new policy service
func NewPolicyService(
	policyRepo repositories.PolicyRepository,
	guarantorRepo repositories.GuarantorRepository,
	addresses AddressUpserter,
	activity ActivityRecorder,
) *PolicyService {
	return &PolicyService{
		policyRepo:    policyRepo,
		guarantorRepo: guarantorRepo,
		addresses:     addresses,
		activity:      activity,
	}
}

// CreatePolicyInput represents create policy input
type CreatePolicyInput struct {
	TenantName      string        `json:"tenant_name" validate:"required"`
	LandlordName    string        `json:"landlord_name" validate:"required"`
	MonthlyRent     float64       `json:"monthly_rent" validate:"required,gt=0"`
	DepositAmount   float64       `json:"deposit_amount" validate:"gte=0"`
	PolicyFee       float64       `json:"policy_fee" validate:"gte=0"`
	PropertyAddress *AddressInput `json:"property_address,omitempty"`
}

// Create creates a rental policy with a generated folio
func (s *PolicyService) Create(ctx context.Context, input *CreatePolicyInput, actorID, ipAddress string) (*models.RentalPolicy, error) {
	policy := &models.RentalPolicy{
		Folio:         generateFolio(),
		TenantName:    input.TenantName,
		LandlordName:  input.LandlordName,
		MonthlyRent:   input.MonthlyRent,
		DepositAmount: input.DepositAmount,
		PolicyFee:     input.PolicyFee,
		Status:        string(domain.PolicyOpen),
		CreatedBy:     actorID,
	}

	if input.PropertyAddress != nil {
		addr, err := s.addresses.CreateAddress(ctx, input.PropertyAddress)
		if err != nil {
			return nil, err
		}
		policy.PropertyAddressID = &addr.ID
	}

	if err := s.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(policy.ID, nil, "POLICY_CREATED", actorID, policy.Folio, ipAddress)
	}
	return policy, nil
}

// GetByID gets a policy with its guarantors
func (s *PolicyService) GetByID(ctx context.Context, id string) (*models.RentalPolicy, error) {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}
	return policy, nil
}

// GetByFolio gets a policy by its human-facing folio
func (s *PolicyService) GetByFolio(ctx context.Context, folio string) (*models.RentalPolicy, error) {
	policy, err := s.policyRepo.GetByFolio(ctx, folio)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}
	return policy, nil
}

// List lists policies with pagination
func (s *PolicyService) List(ctx context.Context, offset, limit int) ([]*models.RentalPolicy, int64, error) {
	return s.policyRepo.List(ctx, offset, limit)
}

// UpdatePolicyInput represents a partial policy update
type UpdatePolicyInput struct {
	TenantName    *string  `json:"tenant_name,omitempty"`
	LandlordName  *string  `json:"landlord_name,omitempty"`
	MonthlyRent   *float64 `json:"monthly_rent,omitempty" validate:"omitempty,gt=0"`
	DepositAmount *float64 `json:"deposit_amount,omitempty" validate:"omitempty,gte=0"`
	PolicyFee     *float64 `json:"policy_fee,omitempty" validate:"omitempty,gte=0"`
	Status        *string  `json:"status,omitempty" validate:"omitempty,oneof=OPEN GUARANTORS_COMPLETE CLOSED"`
}

// Update applies a partial policy patch
func (s *PolicyService) Update(ctx context.Context, id string, input *UpdatePolicyInput) (*models.RentalPolicy, error) {
	policy, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.TenantName != nil {
		policy.TenantName = *input.TenantName
	}
	if input.LandlordName != nil {
		policy.LandlordName = *input.LandlordName
	}
	if input.MonthlyRent != nil {
		policy.MonthlyRent = *input.MonthlyRent
	}
	if input.DepositAmount != nil {
		policy.DepositAmount = *input.DepositAmount
	}
	if input.PolicyFee != nil {
		policy.PolicyFee = *input.PolicyFee
	}
	if input.Status != nil {
		policy.Status = *input.Status
	}

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// FinanceSummary computes the signing total and the per-guarantor
// income screening for an already fetched policy.
func (s *PolicyService) FinanceSummary(ctx context.Context, policy *models.RentalPolicy) (*PolicyFinanceSummary, error) {
	guarantors, err := s.guarantorRepo.GetByPolicyID(ctx, policy.ID)
	if err != nil {
		return nil, err
	}
	return BuildPolicyFinanceSummary(policy, guarantors), nil
}

// CheckPolicyCompletion re-evaluates a policy after a guarantor
// submits. When every active guarantor has been submitted the policy
// moves to GUARANTORS_COMPLETE. Runs in the background; errors are
// logged, never propagated.
func (s *PolicyService) CheckPolicyCompletion(policyID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		guarantors, err := s.guarantorRepo.GetByPolicyID(ctx, policyID)
		if err != nil {
			log.Printf("❌ Policy completion check error for %s: %v", policyID, err)
			return
		}
		if len(guarantors) == 0 {
			return
		}
		for _, g := range guarantors {
			if g.SubmittedAt == nil {
				return
			}
		}

		policy, err := s.policyRepo.GetByID(ctx, policyID)
		if err != nil {
			log.Printf("❌ Policy completion check error for %s: %v", policyID, err)
			return
		}
		if policy.Status != string(domain.PolicyOpen) {
			return
		}
		policy.Status = string(domain.PolicyGuarantorsComplete)
		if err := s.policyRepo.Update(ctx, policy); err != nil {
			log.Printf("❌ Policy completion update error for %s: %v", policyID, err)
			return
		}
		log.Printf("✅ Policy %s: all guarantors submitted", policyID)
	}()
}

// generateFolio builds a folio like RG-20260829-4F2A9C
func generateFolio() string {
	b := make([]byte, 3)
	rand.Read(b)
	return fmt.Sprintf("RG-%s-%X", time.Now().Format("20060102"), b)
}
