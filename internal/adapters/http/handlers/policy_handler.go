package handlers

import (
	"errors"
	"strconv"

	"rentaguard/internal/core/domain"
	"rentaguard/internal/core/services"
	"rentaguard/internal/pkg/pagination"
	"rentaguard/internal/pkg/response"
	"rentaguard/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// PolicyHandler handles rental policy endpoints
type PolicyHandler struct {
	policyService    *services.PolicyService
	guarantorService *services.GuarantorService
	activityService  *services.ActivityService
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(
	policyService *services.PolicyService,
	guarantorService *services.GuarantorService,
	activityService *services.ActivityService,
) *PolicyHandler {
	return &PolicyHandler{
		policyService:    policyService,
		guarantorService: guarantorService,
		activityService:  activityService,
	}
}

// Create creates a rental policy
// @Summary Create policy
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePolicyInput true "Policy data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /policies [post]
func (h *PolicyHandler) Create(c *fiber.Ctx) error {
	var input services.CreatePolicyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationFailed(c, "Validation failed", errs)
	}

	policy, err := h.policyService.Create(c.Context(), &input, actorID(c), getClientIP(c))
	if err != nil {
		return response.InternalServerError(c, "Failed to create policy")
	}

	return response.Created(c, "Policy created successfully", policy)
}

// List lists policies with pagination
// @Summary List policies
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /policies [get]
func (h *PolicyHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	policies, total, err := h.policyService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list policies")
	}

	return response.Success(c, "Policies retrieved successfully", pagination.NewResponse(policies, params, total))
}

// GetByID gets a policy with its guarantors
// @Summary Get policy
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Policy ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [get]
func (h *PolicyHandler) GetByID(c *fiber.Ctx) error {
	policy, err := h.policyService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return response.NotFound(c, "Policy not found")
		}
		return response.InternalServerError(c, "Failed to get policy")
	}

	finance, err := h.policyService.FinanceSummary(c.Context(), policy)
	if err != nil {
		return response.InternalServerError(c, "Failed to get policy")
	}

	return response.Success(c, "Policy retrieved successfully", fiber.Map{
		"policy":  policy,
		"finance": finance,
	})
}

// Update applies a partial policy patch
// @Summary Update policy
// @Tags Policies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Policy ID"
// @Param body body services.UpdatePolicyInput true "Partial update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /policies/{id} [patch]
func (h *PolicyHandler) Update(c *fiber.Ctx) error {
	var input services.UpdatePolicyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := validation.Struct(&input); errs != nil {
		return response.ValidationFailed(c, "Validation failed", errs)
	}

	policy, err := h.policyService.Update(c.Context(), c.Params("id"), &input)
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return response.NotFound(c, "Policy not found")
		}
		return response.InternalServerError(c, "Failed to update policy")
	}

	return response.Success(c, "Policy updated successfully", policy)
}

// ListGuarantors lists a policy's guarantors
// @Summary List policy guarantors
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Policy ID"
// @Success 200 {object} response.Response
// @Router /policies/{id}/guarantors [get]
func (h *PolicyHandler) ListGuarantors(c *fiber.Ctx) error {
	guarantors, err := h.guarantorService.GetByPolicyID(c.Context(), c.Params("id"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list guarantors")
	}

	out := make([]interface{}, len(guarantors))
	for i, g := range guarantors {
		out[i] = g.ToResponse()
	}
	return response.Success(c, "Guarantors retrieved successfully", out)
}

// GetHistory lists the policy activity timeline
// @Summary Get policy history
// @Tags Policies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Policy ID"
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Response
// @Router /policies/{id}/history [get]
func (h *PolicyHandler) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.activityService.GetPolicyTimeline(c.Context(), c.Params("id"), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to get history")
	}

	return response.Success(c, "History retrieved successfully", entries)
}
