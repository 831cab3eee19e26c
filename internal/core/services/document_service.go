package services

import (
	"context"
	"errors"
	"fmt"

	"rentaguard/internal/adapters/persistence/models"
	"rentaguard/internal/adapters/persistence/repositories"
	"rentaguard/internal/core/domain"

	"gorm.io/gorm"
)

// DocumentService tracks uploaded document metadata per guarantor and
// answers the category requirements the submission gate checks. File
// bytes live in object storage; only the storage key is kept here.
type DocumentService struct {
	documentRepo repositories.DocumentRepository
	activity     ActivityRecorder
}

// NewDocumentService creates a new document service
func NewDocumentService(documentRepo repositories.DocumentRepository, activity ActivityRecorder) *DocumentService {
	return &DocumentService{documentRepo: documentRepo, activity: activity}
}

// RegisterDocumentInput represents an upload registration
type RegisterDocumentInput struct {
	GuarantorID  string `json:"guarantor_id" validate:"required"`
	CategoryCode string `json:"category_code" validate:"required"`
	FileName     string `json:"file_name" validate:"required"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
	StorageKey   string `json:"storage_key" validate:"required"`
}

// Register records an uploaded document's metadata
func (s *DocumentService) Register(ctx context.Context, policyID string, input *RegisterDocumentInput, actorID, ipAddress string) (*models.Document, error) {
	categories, err := s.documentRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	known := false
	for _, c := range categories {
		if c.Code == input.CategoryCode {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: unknown document category %q", domain.ErrInvalidInput, input.CategoryCode)
	}

	doc := &models.Document{
		GuarantorID:  input.GuarantorID,
		CategoryCode: input.CategoryCode,
		FileName:     input.FileName,
		ContentType:  input.ContentType,
		SizeBytes:    input.SizeBytes,
		StorageKey:   input.StorageKey,
		UploadedBy:   actorID,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if s.activity != nil {
		s.activity.LogActivity(policyID, &input.GuarantorID, domain.ActionDocumentUploaded, actorID, input.CategoryCode, ipAddress)
	}
	return doc, nil
}

// ListByGuarantor lists a guarantor's documents
func (s *DocumentService) ListByGuarantor(ctx context.Context, guarantorID string) ([]*models.Document, error) {
	return s.documentRepo.GetByGuarantorID(ctx, guarantorID)
}

// Delete removes a document record
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// CountByCategory returns per-category document counts for a guarantor
func (s *DocumentService) CountByCategory(ctx context.Context, guarantorID string) (map[string]int, error) {
	return s.documentRepo.CountByCategory(ctx, guarantorID)
}

// RequiredCategories returns the required category codes for the
// guarantor's legal-person kind. Spouse-consent documents are not part
// of this list; the submission gate adds them when the rule applies.
func (s *DocumentService) RequiredCategories(ctx context.Context, isCompany bool) ([]string, error) {
	categories, err := s.documentRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	kind := "PERSON"
	if isCompany {
		kind = "COMPANY"
	}

	var required []string
	for _, c := range categories {
		if !c.IsActive || !c.IsRequired {
			continue
		}
		if c.AppliesTo == "ALL" || c.AppliesTo == kind {
			required = append(required, c.Code)
		}
	}
	return required, nil
}

// ListCategories returns the document category catalog
func (s *DocumentService) ListCategories(ctx context.Context) ([]*models.DocumentCategory, error) {
	return s.documentRepo.ListCategories(ctx)
}
