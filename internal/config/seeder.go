package config

import (
	"log"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDocumentCategories(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDocumentCategories seeds the document category catalog. Existing
// codes are left untouched so operators can tweak names and flags.
func (s *Seeder) seedDocumentCategories() error {
	categories := []models.DocumentCategory{
		{Code: "OFFICIAL_ID", Name: "Official identification", AppliesTo: "PERSON", IsRequired: true, SortOrder: 1},
		{Code: "PROOF_OF_ADDRESS", Name: "Proof of address", AppliesTo: "ALL", IsRequired: true, SortOrder: 2},
		{Code: "INCOME_PROOF", Name: "Proof of income", AppliesTo: "PERSON", IsRequired: false, SortOrder: 3},
		{Code: "PROPERTY_DEED", Name: "Property deed", AppliesTo: "ALL", IsRequired: false, SortOrder: 4},
		{Code: "ARTICLES_OF_INCORPORATION", Name: "Articles of incorporation", AppliesTo: "COMPANY", IsRequired: true, SortOrder: 5},
		{Code: "LEGAL_REP_POWER", Name: "Power of attorney of legal representative", AppliesTo: "COMPANY", IsRequired: true, SortOrder: 6},
		{Code: "TAX_STATUS_CERTIFICATE", Name: "Tax status certificate (constancia fiscal)", AppliesTo: "COMPANY", IsRequired: false, SortOrder: 7},
		{Code: "BANK_STATEMENT", Name: "Bank statement", AppliesTo: "ALL", IsRequired: false, SortOrder: 8},
		{Code: "MARRIAGE_CERTIFICATE", Name: "Marriage certificate", AppliesTo: "PERSON", IsRequired: false, SortOrder: 9},
		{Code: "SPOUSE_ID", Name: "Spouse identification", AppliesTo: "PERSON", IsRequired: false, SortOrder: 10},
		{Code: "SPOUSE_CONSENT_LETTER", Name: "Spouse consent letter", AppliesTo: "PERSON", IsRequired: false, SortOrder: 11},
	}

	created := 0
	for _, c := range categories {
		var count int64
		s.db.Model(&models.DocumentCategory{}).Where("code = ?", c.Code).Count(&count)
		if count > 0 {
			continue
		}
		c.IsActive = true
		if err := s.db.Create(&c).Error; err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Printf("   Created %d document categories", created)
	}
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@rentaguard.mx",
		Password: hashedPassword,
		FullName: "System Administrator",
		Role:     "ADMIN",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Username)
	return nil
}
