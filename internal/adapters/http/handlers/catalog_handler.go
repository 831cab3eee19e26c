package handlers

import (
	"rentaguard/internal/core/domain"
	"rentaguard/internal/core/services"
	"rentaguard/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the static catalogs the frontend builds its
// forms from. Responses are cacheable.
type CatalogHandler struct {
	documentService *services.DocumentService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(documentService *services.DocumentService) *CatalogHandler {
	return &CatalogHandler{documentService: documentService}
}

// DocumentCategories lists the document category catalog
// @Summary List document categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /catalog/document-categories [get]
func (h *CatalogHandler) DocumentCategories(c *fiber.Ctx) error {
	categories, err := h.documentService.ListCategories(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list document categories")
	}

	return response.Success(c, "Document categories retrieved successfully", categories)
}

// Enums lists the closed value sets used across guarantor forms
// @Summary List enum catalogs
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /catalog/enums [get]
func (h *CatalogHandler) Enums(c *fiber.Ctx) error {
	return response.Success(c, "Catalogs retrieved successfully", fiber.Map{
		"guarantor_roles": []domain.GuarantorRole{
			domain.RoleFiador,
			domain.RoleObligadoSolidario,
		},
		"guarantee_methods": []domain.GuaranteeMethod{
			domain.MethodProperty,
			domain.MethodIncome,
		},
		"verification_statuses": []domain.VerificationStatus{
			domain.VerificationPending,
			domain.VerificationInReview,
			domain.VerificationApproved,
			domain.VerificationRejected,
			domain.VerificationRequiresChanges,
		},
		"marital_statuses": []domain.MaritalStatus{
			domain.MaritalSingle,
			domain.MaritalMarriedJointProperty,
			domain.MaritalMarriedSeparate,
			domain.MaritalDivorced,
			domain.MaritalWidowed,
			domain.MaritalCohabiting,
		},
		"nationalities": []domain.Nationality{
			domain.NationalityMexican,
			domain.NationalityForeign,
		},
	})
}

// ReferenceRequirements exposes the reference minimums per guarantor kind
// @Summary Reference requirements
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /catalog/reference-requirements [get]
func (h *CatalogHandler) ReferenceRequirements(c *fiber.Ctx) error {
	return response.Success(c, "Reference requirements retrieved successfully", fiber.Map{
		"person":  services.MinPersonalReferences,
		"company": services.MinCommercialReferences,
	})
}
