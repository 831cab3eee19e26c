package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Staff auth tables
// ============================================================

// User represents the users table (staff: agents and admins)
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FullName  string         `gorm:"size:150" json:"full_name"`
	Role      string         `gorm:"size:20;default:'AGENT'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Rental policy
// ============================================================

// RentalPolicy represents the rental_policies table
type RentalPolicy struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	Folio             string         `gorm:"uniqueIndex;size:30;not null" json:"folio"`
	TenantName        string         `gorm:"size:150" json:"tenant_name"`
	LandlordName      string         `gorm:"size:150" json:"landlord_name"`
	PropertyAddressID *string        `gorm:"size:36" json:"property_address_id"`
	MonthlyRent       float64        `gorm:"type:decimal(12,2);not null" json:"monthly_rent"`
	DepositAmount     float64        `gorm:"type:decimal(12,2)" json:"deposit_amount"`
	PolicyFee         float64        `gorm:"type:decimal(12,2)" json:"policy_fee"`
	Status            string         `gorm:"size:20;default:'OPEN'" json:"status"`
	CreatedBy         string         `gorm:"size:36" json:"created_by"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	Guarantors []Guarantor `gorm:"foreignKey:PolicyID" json:"guarantors,omitempty"`
}

func (RentalPolicy) TableName() string {
	return "rental_policies"
}

func (p *RentalPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Addresses (owned by the address service; other records hold ids)
// ============================================================

// Address represents the addresses table
type Address struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Street       string    `gorm:"size:150" json:"street"`
	ExteriorNo   string    `gorm:"size:20" json:"exterior_no"`
	InteriorNo   string    `gorm:"size:20" json:"interior_no"`
	Neighborhood string    `gorm:"size:100" json:"neighborhood"`
	City         string    `gorm:"size:100" json:"city"`
	State        string    `gorm:"size:100" json:"state"`
	ZipCode      string    `gorm:"size:10" json:"zip_code"`
	Country      string    `gorm:"size:60;default:'MX'" json:"country"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Address) TableName() string {
	return "addresses"
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Documents
// ============================================================

// DocumentCategory is the master catalog of document types (seeded)
type DocumentCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Code        string    `gorm:"size:40;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	AppliesTo   string    `gorm:"size:20;default:'ALL'" json:"applies_to"` // PERSON | COMPANY | ALL
	IsRequired  bool      `gorm:"default:false" json:"is_required"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DocumentCategory) TableName() string {
	return "document_categories"
}

// Document represents an uploaded file attached to a guarantor
type Document struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	GuarantorID  string         `gorm:"index;size:36;not null" json:"guarantor_id"`
	CategoryCode string         `gorm:"size:40;not null;index" json:"category_code"`
	FileName     string         `gorm:"size:255;not null" json:"file_name"`
	ContentType  string         `gorm:"size:100" json:"content_type"`
	SizeBytes    int64          `json:"size_bytes"`
	StorageKey   string         `gorm:"size:255;not null" json:"-"`
	UploadedBy   string         `gorm:"size:64" json:"uploaded_by"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// ============================================================
// Activity log
// ============================================================

// ActivityLog represents the activity_logs table (policy timeline)
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PolicyID    string    `gorm:"index;size:36;not null" json:"policy_id"`
	GuarantorID *string   `gorm:"index;size:36" json:"guarantor_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	ActorID     string    `gorm:"size:64" json:"actor_id"` // staff user id or "TOKEN"
	Detail      string    `gorm:"type:text" json:"detail"`
	IPAddress   string    `gorm:"size:45" json:"ip_address"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// ============================================================
// Migration
// ============================================================

// AutoMigrate creates/updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&RentalPolicy{},
		&Address{},
		&DocumentCategory{},
		&Document{},
		&ActivityLog{},
		&Guarantor{},
		&PersonProfile{},
		&CompanyProfile{},
		&PropertyGuarantee{},
		&IncomeGuarantee{},
		&PersonalReference{},
		&CommercialReference{},
	)
}
