package handlers

import (
	"errors"

	"rentaguard/internal/core/domain"
	"rentaguard/internal/core/services"
	"rentaguard/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccessHandler serves the account-less guarantor self-service
// surface. Every operation re-validates the opaque access token.
type AccessHandler struct {
	guarantorService *services.GuarantorService
	documentService  *services.DocumentService
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(guarantorService *services.GuarantorService, documentService *services.DocumentService) *AccessHandler {
	return &AccessHandler{
		guarantorService: guarantorService,
		documentService:  documentService,
	}
}

// Get returns the guarantor snapshot for a valid token
// @Summary Get own data via access link
// @Tags Access
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 410 {object} response.Response
// @Router /access/{token} [get]
func (h *AccessHandler) Get(c *fiber.Ctx) error {
	snapshot, err := h.guarantorService.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return accessError(c, err)
	}

	return response.Success(c, "Guarantor retrieved successfully", snapshot)
}

// Update applies a partial patch as the guarantor themselves
// @Summary Update own data via access link
// @Tags Access
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Param body body services.UpdateGuarantorInput true "Partial update"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 410 {object} response.Response
// @Router /access/{token} [patch]
func (h *AccessHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateGuarantorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	g, err := h.guarantorService.UpdateByToken(c.Context(), c.Params("token"), &input, getClientIP(c))
	if err != nil {
		return accessError(c, err)
	}

	return response.Success(c, "Information saved successfully", g.ToResponse())
}

// SaveReferences replaces the reference list via the access link
// @Summary Save own references via access link
// @Tags Access
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /access/{token}/references [put]
func (h *AccessHandler) SaveReferences(c *fiber.Ctx) error {
	snapshot, err := h.guarantorService.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return accessError(c, err)
	}
	id := snapshot.Guarantor.ID

	if snapshot.Guarantor.IsCompany {
		var req SaveCommercialReferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		err = h.guarantorService.SaveCommercialReferences(c.Context(), id, services.BuildCommercialReferences(id, req.References), "TOKEN", getClientIP(c))
	} else {
		var req SavePersonalReferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		err = h.guarantorService.SavePersonalReferences(c.Context(), id, services.BuildPersonalReferences(id, req.References), "TOKEN", getClientIP(c))
	}
	if err != nil {
		return accessError(c, err)
	}

	return response.Success(c, "References saved successfully", nil)
}

// GetCompletion returns the completeness report via the access link
// @Summary Get own completion report via access link
// @Tags Access
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /access/{token}/completion [get]
func (h *AccessHandler) GetCompletion(c *fiber.Ctx) error {
	snapshot, err := h.guarantorService.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return accessError(c, err)
	}

	return response.Success(c, "Completion evaluated successfully", snapshot.Completion)
}

// CanSubmit checks the submission gate via the access link
// @Summary Check own submission gate via access link
// @Tags Access
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /access/{token}/can-submit [get]
func (h *AccessHandler) CanSubmit(c *fiber.Ctx) error {
	snapshot, err := h.guarantorService.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return accessError(c, err)
	}

	result, err := h.guarantorService.CanSubmit(c.Context(), snapshot.Guarantor.ID)
	if err != nil {
		return accessError(c, err)
	}

	return response.Success(c, "Submission gate evaluated", result)
}

// Submit submits via the access link
// @Summary Submit own information via access link
// @Tags Access
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /access/{token}/submit [post]
func (h *AccessHandler) Submit(c *fiber.Ctx) error {
	g, err := h.guarantorService.SubmitByToken(c.Context(), c.Params("token"), getClientIP(c))
	if err != nil {
		return accessError(c, err)
	}

	return response.Success(c, "Information submitted for verification", g.ToResponse())
}

// RegisterDocument records an uploaded document via the access link
// @Summary Register own document via access link
// @Tags Access
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Param body body services.RegisterDocumentInput true "Document metadata"
// @Success 201 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /access/{token}/documents [post]
func (h *AccessHandler) RegisterDocument(c *fiber.Ctx) error {
	snapshot, err := h.guarantorService.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		return accessError(c, err)
	}

	var input services.RegisterDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.GuarantorID = snapshot.Guarantor.ID

	doc, err := h.documentService.Register(c.Context(), snapshot.Guarantor.PolicyID, &input, "TOKEN", getClientIP(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to register document")
	}

	return response.Created(c, "Document registered successfully", doc)
}

// accessError maps token and lifecycle errors onto HTTP responses.
// Expired links get 410 so the frontend can show a "request a new
// link" screen instead of a generic auth failure.
func accessError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return response.Error(c, fiber.StatusGone, "This access link has expired; ask your agent for a new one")
	case errors.Is(err, domain.ErrTokenInvalid):
		return response.Unauthorized(c, "Invalid access link")
	case errors.Is(err, domain.ErrNotSubmittable):
		return response.ValidationFailed(c, err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return response.Conflict(c, "Information has already been submitted")
	case errors.Is(err, domain.ErrConfirmationNeeded):
		return response.Conflict(c, "Switching methods would discard saved data; confirmation required")
	case errors.Is(err, domain.ErrMethodFixed):
		return response.Conflict(c, "A fiador's guarantee method is fixed to PROPERTY")
	case errors.Is(err, domain.ErrKindMismatch):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}
