package handlers

import (
	"errors"
	"strconv"

	"rentaguard/internal/core/domain"
	"rentaguard/internal/core/services"
	"rentaguard/internal/pkg/response"
	"rentaguard/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// GuarantorHandler handles staff-facing guarantor endpoints
type GuarantorHandler struct {
	guarantorService *services.GuarantorService
	tokenService     *services.AccessTokenService
	documentService  *services.DocumentService
	activityService  *services.ActivityService
}

// NewGuarantorHandler creates a new guarantor handler
func NewGuarantorHandler(
	guarantorService *services.GuarantorService,
	tokenService *services.AccessTokenService,
	documentService *services.DocumentService,
	activityService *services.ActivityService,
) *GuarantorHandler {
	return &GuarantorHandler{
		guarantorService: guarantorService,
		tokenService:     tokenService,
		documentService:  documentService,
		activityService:  activityService,
	}
}

// getClientIP gets client IP address
func getClientIP(c *fiber.Ctx) string {
	ip := c.Get("X-Real-IP")
	if ip == "" {
		ip = c.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = c.IP()
	}
	return ip
}

// actorID pulls the authenticated staff user id from context
func actorID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}

// Create creates a new guarantor on a policy
// @Summary Create guarantor
// @Description Create a guarantor with minimal identifiers and a fresh access link
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateGuarantorInput true "Guarantor data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors [post]
func (h *GuarantorHandler) Create(c *fiber.Ctx) error {
	var input services.CreateGuarantorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	// Nested form: POST /policies/:id/guarantors carries the policy in the path.
	if id := c.Params("id"); id != "" {
		input.PolicyID = id
	}
	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationFailed(c, "Validation failed", errs)
	}

	g, err := h.guarantorService.Create(c.Context(), &input, actorID(c), getClientIP(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPolicyNotFound):
			return response.NotFound(c, "Policy not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create guarantor")
		}
	}

	return response.Created(c, "Guarantor created successfully", fiber.Map{
		"guarantor":        g.ToResponse(),
		"access_token":     g.AccessToken,
		"token_expires_at": g.TokenExpiresAt,
	})
}

// GetByID gets a guarantor by ID
// @Summary Get guarantor
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id} [get]
func (h *GuarantorHandler) GetByID(c *fiber.Ctx) error {
	g, err := h.guarantorService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrGuarantorNotFound) {
			return response.NotFound(c, "Guarantor not found")
		}
		return response.InternalServerError(c, "Failed to get guarantor")
	}

	return response.Success(c, "Guarantor retrieved successfully", g.ToResponse())
}

// Update applies a partial update to a guarantor
// @Summary Update guarantor
// @Description Patch any subset of guarantor data; completeness is re-evaluated
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Param body body services.UpdateGuarantorInput true "Partial update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /guarantors/{id} [patch]
func (h *GuarantorHandler) Update(c *fiber.Ctx) error {
	var input services.UpdateGuarantorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	g, err := h.guarantorService.Update(c.Context(), c.Params("id"), &input, actorID(c), getClientIP(c))
	if err != nil {
		return guarantorError(c, err, "Failed to update guarantor")
	}

	return response.Success(c, "Guarantor updated successfully", g.ToResponse())
}

// SetGuaranteeMethodRequest represents a guarantee method switch
type SetGuaranteeMethodRequest struct {
	Method          domain.GuaranteeMethod `json:"method" validate:"required,oneof=PROPERTY INCOME"`
	ConfirmDataLoss bool                   `json:"confirm_data_loss"`
}

// SetGuaranteeMethod switches the guarantee method
// @Summary Switch guarantee method
// @Description Switch between PROPERTY and INCOME; clearing the other side's data requires confirmation
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Param body body SetGuaranteeMethodRequest true "Target method"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /guarantors/{id}/guarantee-method [put]
func (h *GuarantorHandler) SetGuaranteeMethod(c *fiber.Ctx) error {
	var req SetGuaranteeMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&req); errs != nil {
		return response.ValidationFailed(c, "Validation failed", errs)
	}

	g, err := h.guarantorService.SetGuaranteeMethod(c.Context(), c.Params("id"), req.Method, req.ConfirmDataLoss, actorID(c), getClientIP(c))
	if err != nil {
		return guarantorError(c, err, "Failed to switch guarantee method")
	}

	return response.Success(c, "Guarantee method updated successfully", g.ToResponse())
}

// SavePersonalReferencesRequest wraps the replacement list
type SavePersonalReferencesRequest struct {
	References []services.PersonalReferenceInput `json:"references" validate:"required,dive"`
}

// SaveCommercialReferencesRequest wraps the replacement list
type SaveCommercialReferencesRequest struct {
	References []services.CommercialReferenceInput `json:"references" validate:"required,dive"`
}

// SaveReferences replaces the guarantor's reference list
// @Summary Save references
// @Description Full replacement of the personal or commercial reference list
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /guarantors/{id}/references [put]
func (h *GuarantorHandler) SaveReferences(c *fiber.Ctx) error {
	id := c.Params("id")

	g, err := h.guarantorService.GetByID(c.Context(), id)
	if err != nil {
		return guarantorError(c, err, "Failed to save references")
	}

	if g.IsCompany {
		var req SaveCommercialReferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		err = h.guarantorService.SaveCommercialReferences(c.Context(), id, services.BuildCommercialReferences(id, req.References), actorID(c), getClientIP(c))
	} else {
		var req SavePersonalReferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		err = h.guarantorService.SavePersonalReferences(c.Context(), id, services.BuildPersonalReferences(id, req.References), actorID(c), getClientIP(c))
	}
	if err != nil {
		return guarantorError(c, err, "Failed to save references")
	}

	g, err = h.guarantorService.GetByID(c.Context(), id)
	if err != nil {
		return guarantorError(c, err, "Failed to save references")
	}
	return response.Success(c, "References saved successfully", g.ToResponse())
}

// GetCompletion evaluates the guarantor's completeness
// @Summary Get completion report
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id}/completion [get]
func (h *GuarantorHandler) GetCompletion(c *fiber.Ctx) error {
	result, err := h.guarantorService.Completion(c.Context(), c.Params("id"))
	if err != nil {
		return guarantorError(c, err, "Failed to evaluate completion")
	}

	return response.Success(c, "Completion evaluated successfully", result)
}

// CanSubmit runs the submission gate without submitting
// @Summary Check submission gate
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id}/can-submit [get]
func (h *GuarantorHandler) CanSubmit(c *fiber.Ctx) error {
	result, err := h.guarantorService.CanSubmit(c.Context(), c.Params("id"))
	if err != nil {
		return guarantorError(c, err, "Failed to check submission gate")
	}

	return response.Success(c, "Submission gate evaluated", result)
}

// Submit sends the guarantor for verification
// @Summary Submit guarantor
// @Description Submit for staff verification; fails with the full missing list when the gate is closed
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /guarantors/{id}/submit [post]
func (h *GuarantorHandler) Submit(c *fiber.Ctx) error {
	g, err := h.guarantorService.Submit(c.Context(), c.Params("id"), actorID(c), getClientIP(c))
	if err != nil {
		return guarantorError(c, err, "Failed to submit guarantor")
	}

	return response.Success(c, "Guarantor submitted for verification", g.ToResponse())
}

// SetVerification records a staff verification decision
// @Summary Set verification status
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Param body body services.SetVerificationInput true "Decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id}/verification [put]
func (h *GuarantorHandler) SetVerification(c *fiber.Ctx) error {
	var input services.SetVerificationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationFailed(c, "Validation failed", errs)
	}

	g, err := h.guarantorService.SetVerification(c.Context(), c.Params("id"), &input, actorID(c), getClientIP(c))
	if err != nil {
		return guarantorError(c, err, "Failed to set verification status")
	}

	return response.Success(c, "Verification status updated", g.ToResponse())
}

// Archive soft deletes a guarantor
// @Summary Archive guarantor
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id} [delete]
func (h *GuarantorHandler) Archive(c *fiber.Ctx) error {
	if err := h.guarantorService.Archive(c.Context(), c.Params("id"), actorID(c), getClientIP(c)); err != nil {
		return guarantorError(c, err, "Failed to archive guarantor")
	}

	return response.Success(c, "Guarantor archived successfully", nil)
}

// Restore un-archives a guarantor
// @Summary Restore guarantor
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id}/restore [post]
func (h *GuarantorHandler) Restore(c *fiber.Ctx) error {
	g, err := h.guarantorService.Restore(c.Context(), c.Params("id"), actorID(c), getClientIP(c))
	if err != nil {
		return guarantorError(c, err, "Failed to restore guarantor")
	}

	return response.Success(c, "Guarantor restored successfully", g.ToResponse())
}

// RefreshTokenRequest allows overriding the default expiry window
type RefreshAccessTokenRequest struct {
	ExpiryDays int `json:"expiry_days"`
}

// RefreshToken extends the guarantor's access link
// @Summary Refresh access token
// @Description Extend the access link's expiry from now; the token string does not change
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id}/token/refresh [post]
func (h *GuarantorHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshAccessTokenRequest
	_ = c.BodyParser(&req)
	if req.ExpiryDays <= 0 {
		req.ExpiryDays = services.DefaultTokenDays
	}

	expiresAt, err := h.tokenService.Refresh(c.Context(), c.Params("id"), req.ExpiryDays, actorID(c), getClientIP(c))
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			return response.NotFound(c, "Guarantor has no access token")
		}
		return guarantorError(c, err, "Failed to refresh access token")
	}

	return response.Success(c, "Access token refreshed", fiber.Map{
		"token_expires_at": expiresAt,
	})
}

// RevokeToken disables the guarantor's access link
// @Summary Revoke access token
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /guarantors/{id}/token [delete]
func (h *GuarantorHandler) RevokeToken(c *fiber.Ctx) error {
	if err := h.tokenService.Revoke(c.Context(), c.Params("id"), actorID(c), getClientIP(c)); err != nil {
		return guarantorError(c, err, "Failed to revoke access token")
	}

	return response.Success(c, "Access token revoked", nil)
}

// ListDocuments lists a guarantor's documents
// @Summary List documents
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Success 200 {object} response.Response
// @Router /guarantors/{id}/documents [get]
func (h *GuarantorHandler) ListDocuments(c *fiber.Ctx) error {
	docs, err := h.documentService.ListByGuarantor(c.Context(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list documents")
	}

	return response.Success(c, "Documents retrieved successfully", docs)
}

// RegisterDocument records an uploaded document's metadata
// @Summary Register document
// @Tags Guarantors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Param body body services.RegisterDocumentInput true "Document metadata"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /guarantors/{id}/documents [post]
func (h *GuarantorHandler) RegisterDocument(c *fiber.Ctx) error {
	g, err := h.guarantorService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return guarantorError(c, err, "Failed to register document")
	}

	var input services.RegisterDocumentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	input.GuarantorID = g.ID
	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationFailed(c, "Validation failed", errs)
	}

	doc, err := h.documentService.Register(c.Context(), g.PolicyID, &input, actorID(c), getClientIP(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to register document")
	}

	return response.Created(c, "Document registered successfully", doc)
}

// GetHistory lists the guarantor's activity timeline
// @Summary Get guarantor history
// @Tags Guarantors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Guarantor ID"
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Response
// @Router /guarantors/{id}/history [get]
func (h *GuarantorHandler) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.activityService.GetGuarantorTimeline(c.Context(), c.Params("id"), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to get history")
	}

	return response.Success(c, "History retrieved successfully", entries)
}

// guarantorError maps service errors onto HTTP responses
func guarantorError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrGuarantorNotFound):
		return response.NotFound(c, "Guarantor not found")
	case errors.Is(err, domain.ErrPolicyNotFound):
		return response.NotFound(c, "Policy not found")
	case errors.Is(err, domain.ErrMethodFixed):
		return response.Conflict(c, "A fiador's guarantee method is fixed to PROPERTY")
	case errors.Is(err, domain.ErrConfirmationNeeded):
		return response.Conflict(c, "Switching methods would discard saved data; confirmation required")
	case errors.Is(err, domain.ErrKindMismatch):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return response.Conflict(c, "Guarantor has already been submitted")
	case errors.Is(err, domain.ErrNotSubmittable):
		return response.ValidationFailed(c, err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}
