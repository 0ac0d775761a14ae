// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
)

// AdminHandlerInterface defines the contract for the admin panel handlers
type AdminHandlerInterface interface {
	Captcha(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Dashboard(c fiber.Ctx) error

	ListProviders(c fiber.Ctx) error
	SetProviderActive(c fiber.Ctx) error
	SetServiceCertified(c fiber.Ctx) error

	ListLeads(c fiber.Ctx) error
	AssignLead(c fiber.Ctx) error
	CompleteLead(c fiber.Ctx) error
	RejectLead(c fiber.Ctx) error
	ScheduleLead(c fiber.Ctx) error

	ListGlobalZips(c fiber.Ctx) error
	UpsertGlobalZip(c fiber.Ctx) error
	DeleteGlobalZip(c fiber.Ctx) error

	GetOperatorProfile(c fiber.Ctx) error
	UpdateOperatorProfile(c fiber.Ctx) error
	LoadCentroids(c fiber.Ctx) error
}

// AdminHandler handles the admin panel endpoints
type AdminHandler struct {
	adminFlow businessflow.AdminFlow
	leadFlow  businessflow.LeadFlow
	validator *validator.Validate
}

// NewAdminHandler creates a new admin panel handler
func NewAdminHandler(adminFlow businessflow.AdminFlow, leadFlow businessflow.LeadFlow) *AdminHandler {
	return &AdminHandler{
		adminFlow: adminFlow,
		leadFlow:  leadFlow,
		validator: newValidator(),
	}
}

// Captcha issues a rotate captcha challenge for the admin login page
// @Summary Admin Login Captcha
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminCaptchaResponse} "Captcha challenge"
// @Router /api/v1/admin/captcha [get]
func (h *AdminHandler) Captcha(c fiber.Ctx) error {
	result, err := h.adminFlow.Captcha(requestContext(c))
	if err != nil {
		log.Println("Captcha generation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to generate captcha", "CAPTCHA_GENERATION_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Captcha challenge", result)
}

// Login authenticates an admin (captcha is verified before credentials)
// @Summary Admin Login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials with captcha answer"
// @Success 200 {object} dto.APIResponse{data=dto.AdminSessionDTO} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid credentials or captcha"
// @Router /api/v1/admin/login [post]
func (h *AdminHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.adminFlow.Login(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCaptchaFailed(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Captcha verification failed", dto.ErrorCaptchaFailed, nil)
		}
		if businessflow.IsAdminNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", dto.ErrorAdminNotFound, nil)
		}
		log.Println("Admin login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Login successful", result)
}

// Dashboard summarizes marketplace activity
// @Summary Admin Dashboard
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboardResponse} "Dashboard"
// @Router /api/v1/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c fiber.Ctx) error {
	result, err := h.adminFlow.Dashboard(requestContext(c))
	if err != nil {
		log.Println("Dashboard failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load dashboard", "DASHBOARD_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Dashboard", result)
}

// ListProviders pages through all provider accounts
// @Summary List Providers
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Success 200 {object} dto.APIResponse{data=[]dto.ProviderDTO} "Providers"
// @Router /api/v1/admin/providers [get]
func (h *AdminHandler) ListProviders(c fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)

	result, err := h.adminFlow.ListProviders(requestContext(c), page, pageSize)
	if err != nil {
		log.Println("List providers failed", err)
		return errorResponse(c, fiber.StatusBadRequest, "Failed to list providers", "PROVIDER_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Providers", result)
}

// SetProviderActive enables or disables a provider account
// @Summary Set Provider Active
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Provider ID"
// @Param request body dto.SetProviderActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse "Provider updated"
// @Failure 404 {object} dto.APIResponse "Provider not found"
// @Router /api/v1/admin/providers/{id}/active [put]
func (h *AdminHandler) SetProviderActive(c fiber.Ctx) error {
	providerID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid provider id", "INVALID_PROVIDER_ID", nil)
	}

	var req dto.SetProviderActiveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.adminFlow.SetProviderActive(requestContext(c), providerID, req.IsActive, clientMetadata(c)); err != nil {
		if businessflow.IsProviderNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Provider not found", dto.ErrorProviderNotFound, nil)
		}
		log.Println("Set provider active failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update provider", "PROVIDER_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Provider updated", nil)
}

// SetServiceCertified toggles the certified badge on a service listing
// @Summary Set Service Certified
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Param certified query bool false "Certified flag (default true)"
// @Success 200 {object} dto.APIResponse "Service updated"
// @Failure 404 {object} dto.APIResponse "Service not found"
// @Router /api/v1/admin/services/{id}/certified [put]
func (h *AdminHandler) SetServiceCertified(c fiber.Ctx) error {
	serviceID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid service id", "INVALID_SERVICE_ID", nil)
	}
	certified := !strings.EqualFold(c.Query("certified", "true"), "false")

	if err := h.adminFlow.SetServiceCertified(requestContext(c), serviceID, certified); err != nil {
		if businessflow.IsServiceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Service not found", dto.ErrorServiceNotFound, nil)
		}
		log.Println("Set service certified failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update service", "SERVICE_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Service updated", nil)
}

// ListLeads pages through all leads across providers
// @Summary List All Leads
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Param view query string false "Filter tab: active, completed, rejected or recurring"
// @Success 200 {object} dto.APIResponse{data=dto.LeadListResponse} "Leads"
// @Router /api/v1/admin/leads [get]
func (h *AdminHandler) ListLeads(c fiber.Ctx) error {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	view := c.Query("view")

	result, err := h.leadFlow.ListLeads(requestContext(c), nil, view, page, pageSize)
	if err != nil {
		log.Println("List leads failed", err)
		return errorResponse(c, fiber.StatusBadRequest, "Failed to list leads", "LEAD_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Leads", result)
}

// AssignLead reassigns a lead to a provider
// @Summary Assign Lead
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.AssignLeadRequest true "Target provider"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead assigned"
// @Failure 404 {object} dto.APIResponse "Lead or provider not found"
// @Router /api/v1/admin/leads/{id}/assign [put]
func (h *AdminHandler) AssignLead(c fiber.Ctx) error {
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	var req dto.AssignLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.leadFlow.AssignLead(requestContext(c), leadID, req.ProviderID, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsAssignProviderNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Provider not found", dto.ErrorProviderNotFound, nil)
		}
		log.Println("Assign lead failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to assign lead", "LEAD_ASSIGN_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Lead assigned", result)
}

// CompleteLead closes a lead on behalf of its provider
// @Summary Complete Lead (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead completed"
// @Router /api/v1/admin/leads/{id}/complete [post]
func (h *AdminHandler) CompleteLead(c fiber.Ctx) error {
	return h.leadTransition(c, h.leadFlow.CompleteLead, "Lead completed")
}

// RejectLead closes a lead without service on behalf of its provider
// @Summary Reject Lead (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead rejected"
// @Router /api/v1/admin/leads/{id}/reject [post]
func (h *AdminHandler) RejectLead(c fiber.Ctx) error {
	return h.leadTransition(c, h.leadFlow.RejectLead, "Lead rejected")
}

// ScheduleLead marks a lead for a visit tomorrow
// @Summary Schedule Lead (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead scheduled"
// @Router /api/v1/admin/leads/{id}/schedule [post]
func (h *AdminHandler) ScheduleLead(c fiber.Ctx) error {
	return h.leadTransition(c, h.leadFlow.ScheduleLead, "Lead scheduled")
}

func (h *AdminHandler) leadTransition(c fiber.Ctx, fn leadTransitionFunc, message string) error {
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	result, err := fn(requestContext(c), leadID, nil, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsLeadAlreadyClosed(err) {
			return errorResponse(c, fiber.StatusConflict, "Lead is already closed", dto.ErrorLeadInvalidStatus, nil)
		}
		log.Println("Lead transition failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", "LEAD_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, message, result)
}

// ListGlobalZips lists the operator-wide ZIP allowlist
// @Summary List Global Zips
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.GlobalZipsResponse} "Global zips"
// @Router /api/v1/admin/zips [get]
func (h *AdminHandler) ListGlobalZips(c fiber.Ctx) error {
	result, err := h.adminFlow.ListGlobalZips(requestContext(c))
	if err != nil {
		log.Println("List global zips failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list zips", "ZIP_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Global zips", result)
}

// UpsertGlobalZip adds or updates an allowlist row
// @Summary Upsert Global Zip
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertGlobalZipRequest true "Zip and radius"
// @Success 200 {object} dto.APIResponse{data=dto.GlobalZipDTO} "Zip saved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/zips [put]
func (h *AdminHandler) UpsertGlobalZip(c fiber.Ctx) error {
	var req dto.UpsertGlobalZipRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.adminFlow.UpsertGlobalZip(requestContext(c), &req)
	if err != nil {
		if businessflow.IsInvalidZip(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid zip code", dto.ErrorInvalidZip, nil)
		}
		log.Println("Upsert global zip failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to save zip", "ZIP_SAVE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Zip saved", result)
}

// DeleteGlobalZip removes an allowlist row
// @Summary Delete Global Zip
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param zip path string true "ZIP code"
// @Success 200 {object} dto.APIResponse "Zip removed"
// @Failure 404 {object} dto.APIResponse "Zip not found"
// @Router /api/v1/admin/zips/{zip} [delete]
func (h *AdminHandler) DeleteGlobalZip(c fiber.Ctx) error {
	zip := c.Params("zip")

	if err := h.adminFlow.DeleteGlobalZip(requestContext(c), zip); err != nil {
		if businessflow.IsGlobalZipNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Zip not found", dto.ErrorGlobalZipNotFound, nil)
		}
		if businessflow.IsInvalidZip(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid zip code", dto.ErrorInvalidZip, nil)
		}
		log.Println("Delete global zip failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to remove zip", "ZIP_DELETE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Zip removed", nil)
}

// GetOperatorProfile returns the single operator profile row
// @Summary Get Operator Profile
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.OperatorProfileDTO} "Operator profile"
// @Router /api/v1/admin/profile [get]
func (h *AdminHandler) GetOperatorProfile(c fiber.Ctx) error {
	result, err := h.adminFlow.GetOperatorProfile(requestContext(c))
	if err != nil {
		log.Println("Get operator profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load operator profile", "OPERATOR_PROFILE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Operator profile", result)
}

// UpdateOperatorProfile edits the operator profile row
// @Summary Update Operator Profile
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateOperatorProfileRequest true "Profile edits"
// @Success 200 {object} dto.APIResponse{data=dto.OperatorProfileDTO} "Profile updated"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/profile [put]
func (h *AdminHandler) UpdateOperatorProfile(c fiber.Ctx) error {
	var req dto.UpdateOperatorProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.adminFlow.UpdateOperatorProfile(requestContext(c), &req)
	if err != nil {
		log.Println("Update operator profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update operator profile", "OPERATOR_PROFILE_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Profile updated", result)
}

// LoadCentroids bulk-loads ZIP centroid rows for proximity matching
// @Summary Load Zip Centroids
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LoadCentroidsRequest true "Centroid rows"
// @Success 200 {object} dto.APIResponse{data=dto.LoadCentroidsResponse} "Centroids loaded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/centroids [post]
func (h *AdminHandler) LoadCentroids(c fiber.Ctx) error {
	var req dto.LoadCentroidsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.adminFlow.LoadCentroids(requestContext(c), &req)
	if err != nil {
		log.Println("Load centroids failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load centroids", "CENTROID_LOAD_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Centroids loaded", result)
}
