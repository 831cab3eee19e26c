package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rentaguard/internal/core/domain"
)

// ============================================================
// Guarantor aggregate
// ============================================================

// Guarantor represents the guarantors table. Exactly one of Person/Company
// is populated, discriminated by IsCompany; the discriminator never changes
// after creation.
type Guarantor struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	PolicyID string `gorm:"index;size:36;not null" json:"policy_id"`

	Role      domain.GuarantorRole `gorm:"size:30;not null" json:"role"`
	IsCompany bool                 `gorm:"not null" json:"is_company"`

	// Contact block
	Email          string `gorm:"size:100" json:"email"`
	Phone          string `gorm:"size:20" json:"phone"`
	SecondaryPhone string `gorm:"size:20" json:"secondary_phone,omitempty"`
	SecondaryEmail string `gorm:"size:100" json:"secondary_email,omitempty"`
	Relationship   string `gorm:"size:100" json:"relationship"` // relationship to the tenant

	AddressID *string `gorm:"size:36" json:"address_id"`

	// Guarantee selection. GuaranteeMethod is the enum; HasPropertyGuarantee
	// is a legacy flag that still arrives from imported records. The flag
	// forces PROPERTY even when the enum disagrees (see services.MethodInEffect).
	GuaranteeMethod      domain.GuaranteeMethod `gorm:"size:10" json:"guarantee_method"`
	HasPropertyGuarantee bool                   `gorm:"default:false" json:"has_property_guarantee"`

	Person  *PersonProfile  `gorm:"foreignKey:GuarantorID" json:"person,omitempty"`
	Company *CompanyProfile `gorm:"foreignKey:GuarantorID" json:"company,omitempty"`

	PropertyGuarantee *PropertyGuarantee `gorm:"foreignKey:GuarantorID" json:"property_guarantee,omitempty"`
	IncomeGuarantee   *IncomeGuarantee   `gorm:"foreignKey:GuarantorID" json:"income_guarantee,omitempty"`

	PersonalReferences   []PersonalReference   `gorm:"foreignKey:GuarantorID" json:"personal_references,omitempty"`
	CommercialReferences []CommercialReference `gorm:"foreignKey:GuarantorID" json:"commercial_references,omitempty"`

	// Access token for account-less self-service. Expiry is always set
	// when the token is.
	AccessToken    *string    `gorm:"size:64;uniqueIndex" json:"-"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	VerificationStatus domain.VerificationStatus `gorm:"size:20;default:'PENDING'" json:"verification_status"`
	VerifiedBy         *string                   `gorm:"size:36" json:"verified_by,omitempty"`
	VerifiedAt         *time.Time                `json:"verified_at,omitempty"`
	RejectionReason    *string                   `gorm:"size:255" json:"rejection_reason,omitempty"`

	InformationComplete bool       `gorm:"default:false" json:"information_complete"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Guarantor) TableName() string {
	return "guarantors"
}

func (g *Guarantor) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// IsPerson narrows the variant
func (g *Guarantor) IsPerson() bool {
	return !g.IsCompany
}

// IsFiador reports whether this guarantor is the property-only figure
func (g *Guarantor) IsFiador() bool {
	return g.Role == domain.RoleFiador
}

// HasToken reports whether a usable token record exists
func (g *Guarantor) HasToken() bool {
	return g.AccessToken != nil && g.TokenExpiresAt != nil
}

// ReferenceCount returns the count of the list that applies to the variant
func (g *Guarantor) ReferenceCount() int {
	if g.IsCompany {
		return len(g.CommercialReferences)
	}
	return len(g.PersonalReferences)
}

// PersonProfile holds the individual variant's fields
type PersonProfile struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID string `gorm:"uniqueIndex;size:36;not null" json:"guarantor_id"`

	FullName    string             `gorm:"size:150" json:"full_name"`
	Nationality domain.Nationality `gorm:"size:10;default:'MEXICAN'" json:"nationality"`
	CURP        string             `gorm:"size:18" json:"curp,omitempty"`
	PassportNo  string             `gorm:"size:20" json:"passport_no,omitempty"`

	// Employment sub-record
	EmploymentStatus  string  `gorm:"size:30" json:"employment_status"`
	Employer          string  `gorm:"size:150" json:"employer"`
	Position          string  `gorm:"size:100" json:"position"`
	MonthlyIncome     float64 `gorm:"type:decimal(12,2)" json:"monthly_income"`
	IncomeSource      string  `gorm:"size:100" json:"income_source"`
	EmployerAddressID *string `gorm:"size:36" json:"employer_address_id"`

	// Marital sub-record
	MaritalStatus domain.MaritalStatus `gorm:"size:30" json:"marital_status"`
	SpouseName    string               `gorm:"size:150" json:"spouse_name,omitempty"`
	SpouseIDNo    string               `gorm:"size:20" json:"spouse_id_no,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PersonProfile) TableName() string {
	return "person_profiles"
}

func (p *PersonProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IdentityDocument returns the id number appropriate to the nationality
func (p *PersonProfile) IdentityDocument() string {
	if p.Nationality == domain.NationalityForeign {
		return p.PassportNo
	}
	return p.CURP
}

// CompanyProfile holds the company variant's fields
type CompanyProfile struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID string `gorm:"uniqueIndex;size:36;not null" json:"guarantor_id"`

	CompanyName string `gorm:"size:150" json:"company_name"`
	RFC         string `gorm:"size:13" json:"rfc"`

	LegalRepName     string `gorm:"size:150" json:"legal_rep_name"`
	LegalRepPosition string `gorm:"size:100" json:"legal_rep_position"`
	LegalRepRFC      string `gorm:"size:13" json:"legal_rep_rfc"`
	LegalRepPhone    string `gorm:"size:20" json:"legal_rep_phone"`
	LegalRepEmail    string `gorm:"size:100" json:"legal_rep_email"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CompanyProfile) TableName() string {
	return "company_profiles"
}

func (c *CompanyProfile) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// PropertyGuarantee holds the real-estate collateral fields
type PropertyGuarantee struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID string `gorm:"uniqueIndex;size:36;not null" json:"guarantor_id"`

	PropertyValue         float64 `gorm:"type:decimal(14,2)" json:"property_value"`
	DeedNumber            string  `gorm:"size:50" json:"deed_number"`
	RegistryFolio         string  `gorm:"size:50" json:"registry_folio"`
	TaxAccount            string  `gorm:"size:50" json:"tax_account"`
	UnderLegalProceeding  bool    `gorm:"default:false" json:"under_legal_proceeding"`
	PropertyAddressID     *string `gorm:"size:36" json:"property_address_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PropertyGuarantee) TableName() string {
	return "property_guarantees"
}

func (p *PropertyGuarantee) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// IncomeGuarantee holds the income-backing fields
type IncomeGuarantee struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID string `gorm:"uniqueIndex;size:36;not null" json:"guarantor_id"`

	MonthlyIncome float64 `gorm:"type:decimal(12,2)" json:"monthly_income"`
	IncomeSource  string  `gorm:"size:100" json:"income_source"`
	BankName      string  `gorm:"size:100" json:"bank_name"`
	AccountHolder string  `gorm:"size:150" json:"account_holder"`
	// Informational only; additional properties are not a guarantee basis.
	HasAdditionalProperties bool `gorm:"default:false" json:"has_additional_properties"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (IncomeGuarantee) TableName() string {
	return "income_guarantees"
}

func (i *IncomeGuarantee) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// PersonalReference is one entry of an individual guarantor's reference list
type PersonalReference struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID  string    `gorm:"index;size:36;not null" json:"guarantor_id"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Relationship string    `gorm:"size:100" json:"relationship"`
	YearsKnown   int       `json:"years_known"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PersonalReference) TableName() string {
	return "personal_references"
}

func (r *PersonalReference) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// CommercialReference is one entry of a company guarantor's reference list
type CommercialReference struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID string    `gorm:"index;size:36;not null" json:"guarantor_id"`
	CompanyName string    `gorm:"size:150;not null" json:"company_name"`
	ContactName string    `gorm:"size:150" json:"contact_name"`
	Phone       string    `gorm:"size:20" json:"phone"`
	YearsActive int       `json:"years_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CommercialReference) TableName() string {
	return "commercial_references"
}

func (r *CommercialReference) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Response DTOs
// ============================================================

// GuarantorResponse DTO
type GuarantorResponse struct {
	ID                   string                    `json:"id"`
	PolicyID             string                    `json:"policy_id"`
	Role                 domain.GuarantorRole      `json:"role"`
	IsCompany            bool                      `json:"is_company"`
	Email                string                    `json:"email"`
	Phone                string                    `json:"phone"`
	SecondaryPhone       string                    `json:"secondary_phone,omitempty"`
	Relationship         string                    `json:"relationship"`
	AddressID            *string                   `json:"address_id,omitempty"`
	GuaranteeMethod      domain.GuaranteeMethod    `json:"guarantee_method"`
	HasPropertyGuarantee bool                      `json:"has_property_guarantee"`
	Person               *PersonProfile            `json:"person,omitempty"`
	Company              *CompanyProfile           `json:"company,omitempty"`
	PropertyGuarantee    *PropertyGuarantee        `json:"property_guarantee,omitempty"`
	IncomeGuarantee      *IncomeGuarantee          `json:"income_guarantee,omitempty"`
	PersonalReferences   []PersonalReference       `json:"personal_references,omitempty"`
	CommercialReferences []CommercialReference     `json:"commercial_references,omitempty"`
	VerificationStatus   domain.VerificationStatus `json:"verification_status"`
	RejectionReason      *string                   `json:"rejection_reason,omitempty"`
	InformationComplete  bool                      `json:"information_complete"`
	CompletedAt          *time.Time                `json:"completed_at,omitempty"`
	SubmittedAt          *time.Time                `json:"submitted_at,omitempty"`
	TokenExpiresAt       *time.Time                `json:"token_expires_at,omitempty"`
	CreatedAt            time.Time                 `json:"created_at"`
}

func (g *Guarantor) ToResponse() *GuarantorResponse {
	return &GuarantorResponse{
		ID:                   g.ID,
		PolicyID:             g.PolicyID,
		Role:                 g.Role,
		IsCompany:            g.IsCompany,
		Email:                g.Email,
		Phone:                g.Phone,
		SecondaryPhone:       g.SecondaryPhone,
		Relationship:         g.Relationship,
		AddressID:            g.AddressID,
		GuaranteeMethod:      g.GuaranteeMethod,
		HasPropertyGuarantee: g.HasPropertyGuarantee,
		Person:               g.Person,
		Company:              g.Company,
		PropertyGuarantee:    g.PropertyGuarantee,
		IncomeGuarantee:      g.IncomeGuarantee,
		PersonalReferences:   g.PersonalReferences,
		CommercialReferences: g.CommercialReferences,
		VerificationStatus:   g.VerificationStatus,
		RejectionReason:      g.RejectionReason,
		InformationComplete:  g.InformationComplete,
		CompletedAt:          g.CompletedAt,
		SubmittedAt:          g.SubmittedAt,
		TokenExpiresAt:       g.TokenExpiresAt,
		CreatedAt:            g.CreatedAt,
	}
}
