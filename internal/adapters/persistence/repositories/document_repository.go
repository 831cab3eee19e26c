package repositories

import (
	"context"

	"rentaguard/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// documentRepository implements DocumentRepository
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create creates a new document record
func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetByGuarantorID lists a guarantor's documents
func (r *documentRepository) GetByGuarantorID(ctx context.Context, guarantorID string) ([]*models.Document, error) {
	var docs []*models.Document
	err := r.db.WithContext(ctx).
		Where("guarantor_id = ?", guarantorID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// CountByCategory returns document counts keyed by category code
func (r *documentRepository) CountByCategory(ctx context.Context, guarantorID string) (map[string]int, error) {
	type row struct {
		CategoryCode string
		Count        int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Select("category_code, COUNT(*) as count").
		Where("guarantor_id = ?", guarantorID).
		Group("category_code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.CategoryCode] = r.Count
	}
	return counts, nil
}

// Delete soft deletes a document
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}

// ListCategories lists the active document category catalog
func (r *documentRepository) ListCategories(ctx context.Context) ([]*models.DocumentCategory, error) {
	var categories []*models.DocumentCategory
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&categories).Error
	return categories, err
}
