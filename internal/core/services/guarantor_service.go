package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/adapters/persistence/repositories"
	"rentaguard/internal/core/domain"

	"gorm.io/gorm"
)

// GuarantorService orchestrates the guarantor lifecycle: create,
// partial update, guarantee-method switch, completion, submission and
// staff verification. Persistence, addresses, documents and the
// activity timeline are collaborators.
type GuarantorService struct {
	guarantorRepo repositories.GuarantorRepository
	policyRepo    repositories.PolicyRepository
	tokenService  *AccessTokenService
	addresses     AddressUpserter
	documents     DocumentCounter
	activity      ActivityRecorder
	policyChecker PolicyCompletionChecker
}

// NewGuarantorService creates a new guarantor service
func NewGuarantorService(
	guarantorRepo repositories.GuarantorRepository,
	policyRepo repositories.PolicyRepository,
	tokenService *AccessTokenService,
	addresses AddressUpserter,
	documents DocumentCounter,
	activity ActivityRecorder,
	policyChecker PolicyCompletionChecker,
) *GuarantorService {
	return &GuarantorService{
		guarantorRepo: guarantorRepo,
		policyRepo:    policyRepo,
		tokenService:  tokenService,
		addresses:     addresses,
		documents:     documents,
		activity:      activity,
		policyChecker: policyChecker,
	}
}

// CreateGuarantorInput represents create guarantor input
type CreateGuarantorInput struct {
	PolicyID     string               `json:"policy_id" validate:"required"`
	Role         domain.GuarantorRole `json:"role" validate:"required,oneof=FIADOR OBLIGADO_SOLIDARIO"`
	IsCompany    bool                 `json:"is_company"`
	Email        string               `json:"email" validate:"required,email"`
	Phone        string               `json:"phone" validate:"required"`
	Relationship string               `json:"relationship,omitempty"`
}

// Create creates a guarantor with the minimal required identifiers and
// a fresh access token. A fiador starts locked to the property method.
func (s *GuarantorService) Create(ctx context.Context, input *CreateGuarantorInput, actorID, ipAddress string) (*models.Guarantor, error) {
	if _, err := s.policyRepo.GetByID(ctx, input.PolicyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}

	g := &models.Guarantor{
		PolicyID:           input.PolicyID,
		Role:               input.Role,
		IsCompany:          input.IsCompany,
		Email:              input.Email,
		Phone:              input.Phone,
		Relationship:       input.Relationship,
		VerificationStatus: domain.VerificationPending,
	}
	if g.IsFiador() {
		g.GuaranteeMethod = domain.MethodProperty
		g.HasPropertyGuarantee = true
	}
	if input.IsCompany {
		g.Company = &models.CompanyProfile{}
	} else {
		g.Person = &models.PersonProfile{Nationality: domain.NationalityMexican}
	}

	if err := s.guarantorRepo.Create(ctx, g); err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokenService.Generate(ctx, g.ID, DefaultTokenDays)
	if err != nil {
		return nil, err
	}
	g.AccessToken = &token
	g.TokenExpiresAt = &expiresAt

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionGuarantorCreated, actorID, string(g.Role), ipAddress)
	}

	return g, nil
}

// GetByID gets a guarantor aggregate by ID
func (s *GuarantorService) GetByID(ctx context.Context, id string) (*models.Guarantor, error) {
	g, err := s.guarantorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGuarantorNotFound
		}
		return nil, err
	}
	return g, nil
}

// GetByPolicyID lists a policy's guarantors
func (s *GuarantorService) GetByPolicyID(ctx context.Context, policyID string) ([]*models.Guarantor, error) {
	return s.guarantorRepo.GetByPolicyID(ctx, policyID)
}

// PersonPatch is the partial update shape for the individual variant
type PersonPatch struct {
	FullName         *string               `json:"full_name,omitempty"`
	Nationality      *domain.Nationality   `json:"nationality,omitempty"`
	CURP             *string               `json:"curp,omitempty"`
	PassportNo       *string               `json:"passport_no,omitempty"`
	EmploymentStatus *string               `json:"employment_status,omitempty"`
	Employer         *string               `json:"employer,omitempty"`
	Position         *string               `json:"position,omitempty"`
	MonthlyIncome    *float64              `json:"monthly_income,omitempty"`
	IncomeSource     *string               `json:"income_source,omitempty"`
	EmployerAddress  *AddressInput         `json:"employer_address,omitempty"`
	MaritalStatus    *domain.MaritalStatus `json:"marital_status,omitempty"`
	SpouseName       *string               `json:"spouse_name,omitempty"`
	SpouseIDNo       *string               `json:"spouse_id_no,omitempty"`
}

// CompanyPatch is the partial update shape for the company variant
type CompanyPatch struct {
	CompanyName      *string `json:"company_name,omitempty"`
	RFC              *string `json:"rfc,omitempty"`
	LegalRepName     *string `json:"legal_rep_name,omitempty"`
	LegalRepPosition *string `json:"legal_rep_position,omitempty"`
	LegalRepRFC      *string `json:"legal_rep_rfc,omitempty"`
	LegalRepPhone    *string `json:"legal_rep_phone,omitempty"`
	LegalRepEmail    *string `json:"legal_rep_email,omitempty"`
}

// PropertyGuaranteePatch is the partial update shape for property collateral
type PropertyGuaranteePatch struct {
	PropertyValue        *float64      `json:"property_value,omitempty"`
	DeedNumber           *string       `json:"deed_number,omitempty"`
	RegistryFolio        *string       `json:"registry_folio,omitempty"`
	TaxAccount           *string       `json:"tax_account,omitempty"`
	UnderLegalProceeding *bool         `json:"under_legal_proceeding,omitempty"`
	PropertyAddress      *AddressInput `json:"property_address,omitempty"`
}

// IncomeGuaranteePatch is the partial update shape for income backing
type IncomeGuaranteePatch struct {
	MonthlyIncome           *float64 `json:"monthly_income,omitempty"`
	IncomeSource            *string  `json:"income_source,omitempty"`
	BankName                *string  `json:"bank_name,omitempty"`
	AccountHolder           *string  `json:"account_holder,omitempty"`
	HasAdditionalProperties *bool    `json:"has_additional_properties,omitempty"`
}

// UpdateGuarantorInput represents a partial update; any subset of
// fields may be patched.
type UpdateGuarantorInput struct {
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"phone,omitempty"`
	SecondaryPhone *string `json:"secondary_phone,omitempty"`
	SecondaryEmail *string `json:"secondary_email,omitempty"`
	Relationship   *string `json:"relationship,omitempty"`

	Address *AddressInput `json:"address,omitempty"`

	Person  *PersonPatch  `json:"person,omitempty"`
	Company *CompanyPatch `json:"company,omitempty"`

	PropertyGuarantee *PropertyGuaranteePatch `json:"property_guarantee,omitempty"`
	IncomeGuarantee   *IncomeGuaranteePatch   `json:"income_guarantee,omitempty"`
}

// Update applies a partial patch. Address sub-objects are upserted via
// the address collaborator and only the returned id is stored. When
// the patch flips IsComplete to true the guarantor is auto-flagged as
// information-saved; that side effect is intentional.
func (s *GuarantorService) Update(ctx context.Context, id string, input *UpdateGuarantorInput, actorID, ipAddress string) (*models.Guarantor, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Kind-mismatch short-circuits before anything persists
	if input.Person != nil && g.IsCompany {
		return nil, fmt.Errorf("%w: person data is only applicable to individual guarantors", domain.ErrKindMismatch)
	}
	if input.Company != nil && !g.IsCompany {
		return nil, fmt.Errorf("%w: company data is only applicable to company guarantors", domain.ErrKindMismatch)
	}

	wasComplete := g.InformationComplete

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	applyString(&g.Email, input.Email)
	applyString(&g.Phone, input.Phone)
	applyString(&g.SecondaryPhone, input.SecondaryPhone)
	applyString(&g.SecondaryEmail, input.SecondaryEmail)
	applyString(&g.Relationship, input.Relationship)

	if input.Address != nil {
		addrID, err := s.upsertAddress(ctx, g.AddressID, input.Address)
		if err != nil {
			return nil, err
		}
		g.AddressID = &addrID
	}

	if err := s.guarantorRepo.Update(ctx, g); err != nil {
		return nil, err
	}

	if input.Person != nil {
		if err := s.applyPersonPatch(ctx, g, input.Person); err != nil {
			return nil, err
		}
	}
	if input.Company != nil {
		if err := s.applyCompanyPatch(ctx, g, input.Company); err != nil {
			return nil, err
		}
	}
	if input.PropertyGuarantee != nil {
		if err := s.applyPropertyPatch(ctx, g, input.PropertyGuarantee); err != nil {
			return nil, err
		}
	}
	if input.IncomeGuarantee != nil {
		if err := s.applyIncomePatch(ctx, g, input.IncomeGuarantee); err != nil {
			return nil, err
		}
	}

	// Re-read the aggregate and auto-complete if the patch got it there
	g, err = s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !wasComplete && IsComplete(g) {
		now := time.Now()
		if err := s.guarantorRepo.MarkAsComplete(ctx, g.ID, now); err != nil {
			return nil, err
		}
		g.InformationComplete = true
		g.CompletedAt = &now
		if s.activity != nil {
			s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionInfoCompleted, actorID, "", ipAddress)
		}
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionGuarantorUpdated, actorID, "", ipAddress)
	}

	return g, nil
}

func (s *GuarantorService) upsertAddress(ctx context.Context, existing *string, input *AddressInput) (string, error) {
	if existing != nil {
		addr, err := s.addresses.UpdateAddress(ctx, *existing, input)
		if err != nil {
			return "", err
		}
		return addr.ID, nil
	}
	addr, err := s.addresses.CreateAddress(ctx, input)
	if err != nil {
		return "", err
	}
	return addr.ID, nil
}

func (s *GuarantorService) applyPersonPatch(ctx context.Context, g *models.Guarantor, patch *PersonPatch) error {
	p := g.Person
	if p == nil {
		p = &models.PersonProfile{GuarantorID: g.ID, Nationality: domain.NationalityMexican}
	}

	if patch.FullName != nil {
		p.FullName = *patch.FullName
	}
	if patch.Nationality != nil {
		p.Nationality = *patch.Nationality
	}
	if patch.CURP != nil {
		p.CURP = strings.ToUpper(*patch.CURP)
	}
	if patch.PassportNo != nil {
		p.PassportNo = *patch.PassportNo
	}
	if patch.EmploymentStatus != nil {
		p.EmploymentStatus = *patch.EmploymentStatus
	}
	if patch.Employer != nil {
		p.Employer = *patch.Employer
	}
	if patch.Position != nil {
		p.Position = *patch.Position
	}
	if patch.MonthlyIncome != nil {
		p.MonthlyIncome = *patch.MonthlyIncome
	}
	if patch.IncomeSource != nil {
		p.IncomeSource = *patch.IncomeSource
	}
	if patch.MaritalStatus != nil {
		p.MaritalStatus = *patch.MaritalStatus
	}
	if patch.SpouseName != nil {
		p.SpouseName = *patch.SpouseName
	}
	if patch.SpouseIDNo != nil {
		p.SpouseIDNo = *patch.SpouseIDNo
	}
	if patch.EmployerAddress != nil {
		addrID, err := s.upsertAddress(ctx, p.EmployerAddressID, patch.EmployerAddress)
		if err != nil {
			return err
		}
		p.EmployerAddressID = &addrID
	}

	return s.guarantorRepo.SavePerson(ctx, p)
}

func (s *GuarantorService) applyCompanyPatch(ctx context.Context, g *models.Guarantor, patch *CompanyPatch) error {
	c := g.Company
	if c == nil {
		c = &models.CompanyProfile{GuarantorID: g.ID}
	}

	if patch.CompanyName != nil {
		c.CompanyName = *patch.CompanyName
	}
	if patch.RFC != nil {
		c.RFC = strings.ToUpper(*patch.RFC)
	}
	if patch.LegalRepName != nil {
		c.LegalRepName = *patch.LegalRepName
	}
	if patch.LegalRepPosition != nil {
		c.LegalRepPosition = *patch.LegalRepPosition
	}
	if patch.LegalRepRFC != nil {
		c.LegalRepRFC = strings.ToUpper(*patch.LegalRepRFC)
	}
	if patch.LegalRepPhone != nil {
		c.LegalRepPhone = *patch.LegalRepPhone
	}
	if patch.LegalRepEmail != nil {
		c.LegalRepEmail = *patch.LegalRepEmail
	}

	return s.guarantorRepo.SaveCompany(ctx, c)
}

func (s *GuarantorService) applyPropertyPatch(ctx context.Context, g *models.Guarantor, patch *PropertyGuaranteePatch) error {
	// Patching property data while income is in effect means choosing
	// the property method; that only goes through silently when the
	// income side holds no real data.
	if MethodInEffect(g) != domain.MethodProperty {
		sw, err := PlanMethodSwitch(g, domain.MethodProperty, false)
		if err != nil {
			return err
		}
		if err := s.guarantorRepo.SetGuaranteeMethod(ctx, g.ID, domain.MethodProperty, sw.ClearProperty, sw.ClearIncome); err != nil {
			return err
		}
		g.GuaranteeMethod = domain.MethodProperty
		g.HasPropertyGuarantee = true
	}

	pg := g.PropertyGuarantee
	if pg == nil {
		pg = &models.PropertyGuarantee{GuarantorID: g.ID}
	}

	if patch.PropertyValue != nil {
		pg.PropertyValue = *patch.PropertyValue
	}
	if patch.DeedNumber != nil {
		pg.DeedNumber = *patch.DeedNumber
	}
	if patch.RegistryFolio != nil {
		pg.RegistryFolio = *patch.RegistryFolio
	}
	if patch.TaxAccount != nil {
		pg.TaxAccount = *patch.TaxAccount
	}
	if patch.UnderLegalProceeding != nil {
		pg.UnderLegalProceeding = *patch.UnderLegalProceeding
	}
	if patch.PropertyAddress != nil {
		addrID, err := s.upsertAddress(ctx, pg.PropertyAddressID, patch.PropertyAddress)
		if err != nil {
			return err
		}
		pg.PropertyAddressID = &addrID
	}

	return s.guarantorRepo.SavePropertyGuarantee(ctx, pg)
}

func (s *GuarantorService) applyIncomePatch(ctx context.Context, g *models.Guarantor, patch *IncomeGuaranteePatch) error {
	if MethodInEffect(g) != domain.MethodIncome {
		sw, err := PlanMethodSwitch(g, domain.MethodIncome, false)
		if err != nil {
			return err
		}
		if err := s.guarantorRepo.SetGuaranteeMethod(ctx, g.ID, domain.MethodIncome, sw.ClearProperty, sw.ClearIncome); err != nil {
			return err
		}
		g.GuaranteeMethod = domain.MethodIncome
		g.HasPropertyGuarantee = false
	}

	ig := g.IncomeGuarantee
	if ig == nil {
		ig = &models.IncomeGuarantee{GuarantorID: g.ID}
	}

	if patch.MonthlyIncome != nil {
		ig.MonthlyIncome = *patch.MonthlyIncome
	}
	if patch.IncomeSource != nil {
		ig.IncomeSource = *patch.IncomeSource
	}
	if patch.BankName != nil {
		ig.BankName = *patch.BankName
	}
	if patch.AccountHolder != nil {
		ig.AccountHolder = *patch.AccountHolder
	}
	if patch.HasAdditionalProperties != nil {
		ig.HasAdditionalProperties = *patch.HasAdditionalProperties
	}

	return s.guarantorRepo.SaveIncomeGuarantee(ctx, ig)
}

// SetGuaranteeMethod switches an obligado solidario's guarantee method.
// The opposite method's data is cleared in the same transaction; when
// that clearing would lose data the caller must pass confirmDataLoss.
func (s *GuarantorService) SetGuaranteeMethod(ctx context.Context, id string, method domain.GuaranteeMethod, confirmDataLoss bool, actorID, ipAddress string) (*models.Guarantor, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sw, err := PlanMethodSwitch(g, method, confirmDataLoss)
	if err != nil {
		return nil, err
	}

	if err := s.guarantorRepo.SetGuaranteeMethod(ctx, g.ID, sw.Target, sw.ClearProperty, sw.ClearIncome); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionMethodChanged, actorID, string(method), ipAddress)
	}

	return s.GetByID(ctx, id)
}

// PersonalReferenceInput is one entry in a reference replacement list
type PersonalReferenceInput struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
	YearsKnown   int    `json:"years_known"`
}

// CommercialReferenceInput is one entry in a reference replacement list
type CommercialReferenceInput struct {
	CompanyName string `json:"company_name" validate:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	YearsActive int    `json:"years_active"`
}

// BuildPersonalReferences converts inputs into persistence rows
func BuildPersonalReferences(guarantorID string, inputs []PersonalReferenceInput) []models.PersonalReference {
	refs := make([]models.PersonalReference, len(inputs))
	for i, in := range inputs {
		refs[i] = models.PersonalReference{
			GuarantorID:  guarantorID,
			FullName:     in.FullName,
			Phone:        in.Phone,
			Relationship: in.Relationship,
			YearsKnown:   in.YearsKnown,
		}
	}
	return refs
}

// BuildCommercialReferences converts inputs into persistence rows
func BuildCommercialReferences(guarantorID string, inputs []CommercialReferenceInput) []models.CommercialReference {
	refs := make([]models.CommercialReference, len(inputs))
	for i, in := range inputs {
		refs[i] = models.CommercialReference{
			GuarantorID: guarantorID,
			CompanyName: in.CompanyName,
			ContactName: in.ContactName,
			Phone:       in.Phone,
			YearsActive: in.YearsActive,
		}
	}
	return refs
}

// SavePersonalReferences replaces an individual guarantor's reference list
func (s *GuarantorService) SavePersonalReferences(ctx context.Context, id string, refs []models.PersonalReference, actorID, ipAddress string) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g.IsCompany {
		return fmt.Errorf("%w: personal references are only applicable to individual guarantors", domain.ErrKindMismatch)
	}

	if err := s.guarantorRepo.SavePersonalReferences(ctx, id, refs); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionReferencesSaved, actorID, fmt.Sprintf("%d personal", len(refs)), ipAddress)
	}
	return nil
}

// SaveCommercialReferences replaces a company guarantor's reference list
func (s *GuarantorService) SaveCommercialReferences(ctx context.Context, id string, refs []models.CommercialReference, actorID, ipAddress string) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !g.IsCompany {
		return fmt.Errorf("%w: commercial references are only applicable to company guarantors", domain.ErrKindMismatch)
	}

	if err := s.guarantorRepo.SaveCommercialReferences(ctx, id, refs); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionReferencesSaved, actorID, fmt.Sprintf("%d commercial", len(refs)), ipAddress)
	}
	return nil
}

// CompletionResult is the caller-facing completeness report
type CompletionResult struct {
	IsComplete            bool                     `json:"is_complete"`
	Percentage            int                      `json:"percentage"`
	ValidationErrors      []domain.ValidationError `json:"validation_errors"`
	References            domain.ReferenceSummary  `json:"references"`
	RequiresSpouseConsent bool                     `json:"requires_spouse_consent"`
	ConsentDocuments      []string                 `json:"consent_documents,omitempty"`
}

// Completion evaluates a guarantor without mutating it
func (s *GuarantorService) Completion(ctx context.Context, id string) (*CompletionResult, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildCompletion(g), nil
}

func buildCompletion(g *models.Guarantor) *CompletionResult {
	kind := domain.ReferencePersonal
	if g.IsCompany {
		kind = domain.ReferenceCommercial
	}

	result := &CompletionResult{
		IsComplete:            IsComplete(g),
		Percentage:            CompletionPercentage(g),
		ValidationErrors:      ValidateForSubmission(g),
		References:            SummarizeReferences(kind, g.ReferenceCount()),
		RequiresSpouseConsent: RequiresSpouseConsent(g),
	}
	if result.RequiresSpouseConsent {
		result.ConsentDocuments = SpouseConsentDocuments()
	}
	if result.ValidationErrors == nil {
		result.ValidationErrors = []domain.ValidationError{}
	}
	return result
}

// CanSubmitResult is the submission gate's verdict. The guarantee's own
// validity is surfaced apart from the generic missing list so callers
// can tell "the guarantee itself is broken" from "other fields missing".
type CanSubmitResult struct {
	CanSubmit            bool                     `json:"can_submit"`
	GuaranteeMethodValid bool                     `json:"guarantee_method_valid"`
	MissingRequirements  []domain.ValidationError `json:"missing_requirements"`
	MissingDocuments     []string                 `json:"missing_documents"`
}

// CanSubmit runs the full submission gate: field validation, document
// counts and the guarantee-validity flag.
func (s *GuarantorService) CanSubmit(ctx context.Context, id string) (*CanSubmitResult, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.evaluateSubmission(ctx, g)
}

func (s *GuarantorService) evaluateSubmission(ctx context.Context, g *models.Guarantor) (*CanSubmitResult, error) {
	result := &CanSubmitResult{
		GuaranteeMethodValid: GuaranteeValid(g),
		MissingRequirements:  ValidateForSubmission(g),
		MissingDocuments:     []string{},
	}

	required, err := s.documents.RequiredCategories(ctx, g.IsCompany)
	if err != nil {
		return nil, err
	}
	if RequiresSpouseConsent(g) {
		required = append(required, SpouseConsentDocuments()...)
	}

	counts, err := s.documents.CountByCategory(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	for _, category := range required {
		if counts[category] == 0 {
			result.MissingDocuments = append(result.MissingDocuments, category)
		}
	}

	if result.MissingRequirements == nil {
		result.MissingRequirements = []domain.ValidationError{}
	}
	result.CanSubmit = len(result.MissingRequirements) == 0 && len(result.MissingDocuments) == 0
	return result, nil
}

// Submit sends the guarantor for human verification. It fails fast
// when the gate is closed, citing every missing requirement, and then
// kicks off the policy-wide completion check.
func (s *GuarantorService) Submit(ctx context.Context, id string, actorID, ipAddress string) (*models.Guarantor, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.SubmittedAt != nil {
		return nil, domain.ErrAlreadySubmitted
	}

	verdict, err := s.evaluateSubmission(ctx, g)
	if err != nil {
		return nil, err
	}
	if !verdict.CanSubmit {
		missing := make([]string, 0, len(verdict.MissingRequirements)+len(verdict.MissingDocuments))
		for _, ve := range verdict.MissingRequirements {
			missing = append(missing, ve.Message)
		}
		missing = append(missing, verdict.MissingDocuments...)
		return nil, fmt.Errorf("%w: %s", domain.ErrNotSubmittable, strings.Join(missing, "; "))
	}

	now := time.Now()
	if !g.InformationComplete {
		if err := s.guarantorRepo.MarkAsComplete(ctx, g.ID, now); err != nil {
			return nil, err
		}
	}
	if err := s.guarantorRepo.MarkSubmitted(ctx, g.ID, now); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionSubmitted, actorID, "", ipAddress)
	}
	if s.policyChecker != nil {
		s.policyChecker.CheckPolicyCompletion(g.PolicyID)
	}

	return s.GetByID(ctx, id)
}

// SetVerificationInput represents a staff verification decision
type SetVerificationInput struct {
	Status domain.VerificationStatus `json:"status" validate:"required,oneof=IN_REVIEW APPROVED REJECTED REQUIRES_CHANGES"`
	Reason string                    `json:"reason,omitempty"`
}

// SetVerification records a staff decision on a submitted guarantor
func (s *GuarantorService) SetVerification(ctx context.Context, id string, input *SetVerificationInput, staffID, ipAddress string) (*models.Guarantor, error) {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var reason *string
	if input.Status == domain.VerificationRejected || input.Status == domain.VerificationRequiresChanges {
		if input.Reason == "" {
			return nil, fmt.Errorf("%w: a reason is required to reject or request changes", domain.ErrInvalidInput)
		}
		reason = &input.Reason
	}

	if err := s.guarantorRepo.SetVerificationStatus(ctx, g.ID, input.Status, &staffID, reason); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionVerificationSet, staffID, string(input.Status), ipAddress)
	}

	return s.GetByID(ctx, id)
}

// Archive soft deletes a guarantor. Verification history is kept; the
// rejection reason slot records "ARCHIVED".
func (s *GuarantorService) Archive(ctx context.Context, id string, actorID, ipAddress string) error {
	g, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guarantorRepo.Archive(ctx, g.ID); err != nil {
		return err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionGuarantorArchived, actorID, "", ipAddress)
	}
	return nil
}

// Restore un-archives a guarantor: verification back to PENDING and
// rejection metadata cleared, nothing else touched.
func (s *GuarantorService) Restore(ctx context.Context, id string, actorID, ipAddress string) (*models.Guarantor, error) {
	if err := s.guarantorRepo.Restore(ctx, id); err != nil {
		return nil, err
	}

	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(g.PolicyID, &g.ID, domain.ActionGuarantorRestored, actorID, "", ipAddress)
	}
	return g, nil
}

// ============================================================
// Token-scoped operations (account-less self-service). The token is
// re-validated inside each call; validity is never cached.
// ============================================================

// TokenSnapshot is what an access-token holder sees
type TokenSnapshot struct {
	Guarantor      *models.GuarantorResponse `json:"guarantor"`
	Completion     *CompletionResult         `json:"completion"`
	RemainingHours int                       `json:"token_remaining_hours"`
}

// GetByToken loads the snapshot for a valid token
func (s *GuarantorService) GetByToken(ctx context.Context, token string) (*TokenSnapshot, error) {
	g, remaining, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return &TokenSnapshot{
		Guarantor:      g.ToResponse(),
		Completion:     buildCompletion(g),
		RemainingHours: remaining,
	}, nil
}

// UpdateByToken re-validates the token and applies a partial patch as
// the guarantor themselves.
func (s *GuarantorService) UpdateByToken(ctx context.Context, token string, input *UpdateGuarantorInput, ipAddress string) (*models.Guarantor, error) {
	g, _, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, g.ID, input, "TOKEN", ipAddress)
}

// SubmitByToken re-validates the token and submits
func (s *GuarantorService) SubmitByToken(ctx context.Context, token string, ipAddress string) (*models.Guarantor, error) {
	g, _, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, g.ID, "TOKEN", ipAddress)
}
