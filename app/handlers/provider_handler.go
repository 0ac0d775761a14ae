// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
)

// ProviderHandlerInterface defines the contract for the provider dashboard handlers
type ProviderHandlerInterface interface {
	GetProfile(c fiber.Ctx) error
	UpdateProfile(c fiber.Ctx) error
	ListServiceAreas(c fiber.Ctx) error
	AddServiceArea(c fiber.Ctx) error
	RemoveServiceArea(c fiber.Ctx) error
	Analytics(c fiber.Ctx) error

	ListLeads(c fiber.Ctx) error
	CompleteLead(c fiber.Ctx) error
	RejectLead(c fiber.Ctx) error
	ScheduleLead(c fiber.Ctx) error
	ToggleLeadRecurring(c fiber.Ctx) error

	ListServices(c fiber.Ctx) error
	CreateService(c fiber.Ctx) error
	UpdateService(c fiber.Ctx) error
	DeleteService(c fiber.Ctx) error
	ListProducts(c fiber.Ctx) error
	CreateProduct(c fiber.Ctx) error
	UpdateProduct(c fiber.Ctx) error
	DeleteProduct(c fiber.Ctx) error
}

// ProviderHandler handles the authenticated provider dashboard
type ProviderHandler struct {
	profileFlow businessflow.ProviderProfileFlow
	catalogFlow businessflow.CatalogFlow
	leadFlow    businessflow.LeadFlow
	validator   *validator.Validate
}

// NewProviderHandler creates a new provider dashboard handler
func NewProviderHandler(
	profileFlow businessflow.ProviderProfileFlow,
	catalogFlow businessflow.CatalogFlow,
	leadFlow businessflow.LeadFlow,
) *ProviderHandler {
	return &ProviderHandler{
		profileFlow: profileFlow,
		catalogFlow: catalogFlow,
		leadFlow:    leadFlow,
		validator:   newValidator(),
	}
}

// GetProfile returns the authenticated provider's account
// @Summary Get Provider Profile
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProviderDTO} "Profile"
// @Router /api/v1/providers/me [get]
func (h *ProviderHandler) GetProfile(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	result, err := h.profileFlow.GetProfile(requestContext(c), providerID)
	if err != nil {
		log.Println("Get profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load profile", "PROFILE_LOOKUP_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Profile", result)
}

// UpdateProfile edits the authenticated provider's account
// @Summary Update Provider Profile
// @Tags Provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProviderProfileRequest true "Profile edits"
// @Success 200 {object} dto.APIResponse{data=dto.ProviderDTO} "Updated profile"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/providers/me [put]
func (h *ProviderHandler) UpdateProfile(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	var req dto.UpdateProviderProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.profileFlow.UpdateProfile(requestContext(c), providerID, &req, clientMetadata(c))
	if err != nil {
		log.Println("Update profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update profile", "PROFILE_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Profile updated", result)
}

// ListServiceAreas lists the provider's coverage rows
// @Summary List Service Areas
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ServiceAreasResponse} "Service areas"
// @Router /api/v1/providers/me/service-areas [get]
func (h *ProviderHandler) ListServiceAreas(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	result, err := h.profileFlow.ListServiceAreas(requestContext(c), providerID)
	if err != nil {
		log.Println("List service areas failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list service areas", "SERVICE_AREA_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Service areas", result)
}

// AddServiceArea registers a new coverage row
// @Summary Add Service Area
// @Tags Provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddServiceAreaRequest true "Service area"
// @Success 201 {object} dto.APIResponse{data=dto.ServiceAreaDTO} "Service area added"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Duplicate ZIP or limit reached"
// @Router /api/v1/providers/me/service-areas [post]
func (h *ProviderHandler) AddServiceArea(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	var req dto.AddServiceAreaRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.profileFlow.AddServiceArea(requestContext(c), providerID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsServiceAreaLimitReached(err) {
			return errorResponse(c, fiber.StatusConflict, "Service area limit reached", dto.ErrorServiceAreaLimit, nil)
		}
		if businessflow.IsServiceAreaDuplicate(err) {
			return errorResponse(c, fiber.StatusConflict, "Service area already registered for this zip", dto.ErrorServiceAreaDuplicate, nil)
		}
		log.Println("Add service area failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to add service area", "SERVICE_AREA_ADD_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "Service area added", result)
}

// RemoveServiceArea deletes a coverage row
// @Summary Remove Service Area
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service area ID"
// @Success 200 {object} dto.APIResponse "Service area removed"
// @Failure 404 {object} dto.APIResponse "Service area not found"
// @Router /api/v1/providers/me/service-areas/{id} [delete]
func (h *ProviderHandler) RemoveServiceArea(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	areaID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid service area id", "INVALID_SERVICE_AREA_ID", nil)
	}

	if err := h.profileFlow.RemoveServiceArea(requestContext(c), providerID, areaID, clientMetadata(c)); err != nil {
		if businessflow.IsServiceAreaNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Service area not found", dto.ErrorServiceAreaNotFound, nil)
		}
		log.Println("Remove service area failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to remove service area", "SERVICE_AREA_REMOVE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Service area removed", nil)
}

// Analytics summarizes the provider's lead pipeline
// @Summary Provider Analytics
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProviderAnalyticsResponse} "Analytics"
// @Router /api/v1/providers/me/analytics [get]
func (h *ProviderHandler) Analytics(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	result, err := h.profileFlow.Analytics(requestContext(c), providerID)
	if err != nil {
		log.Println("Analytics failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load analytics", "ANALYTICS_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Analytics", result)
}

// ListLeads returns the provider's leads, newest first
// @Summary List Leads
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20)"
// @Param view query string false "Filter tab: active, completed, rejected or recurring"
// @Success 200 {object} dto.APIResponse{data=dto.LeadListResponse} "Leads"
// @Router /api/v1/providers/me/leads [get]
func (h *ProviderHandler) ListLeads(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	view := c.Query("view")

	result, err := h.leadFlow.ListLeads(requestContext(c), &providerID, view, page, pageSize)
	if err != nil {
		log.Println("List leads failed", err)
		return errorResponse(c, fiber.StatusBadRequest, "Failed to list leads", "LEAD_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Leads", result)
}

// CompleteLead marks a lead done (and schedules the weekly follow-up for recurring leads)
// @Summary Complete Lead
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead completed"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 409 {object} dto.APIResponse "Lead already closed"
// @Router /api/v1/providers/me/leads/{id}/complete [post]
func (h *ProviderHandler) CompleteLead(c fiber.Ctx) error {
	return h.leadTransition(c, h.leadFlow.CompleteLead, "Lead completed")
}

// RejectLead closes a lead without service
// @Summary Reject Lead
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead rejected"
// @Router /api/v1/providers/me/leads/{id}/reject [post]
func (h *ProviderHandler) RejectLead(c fiber.Ctx) error {
	return h.leadTransition(c, h.leadFlow.RejectLead, "Lead rejected")
}

// ScheduleLead marks a lead for a visit tomorrow
// @Summary Schedule Lead
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead scheduled"
// @Router /api/v1/providers/me/leads/{id}/schedule [post]
func (h *ProviderHandler) ScheduleLead(c fiber.Ctx) error {
	return h.leadTransition(c, h.leadFlow.ScheduleLead, "Lead scheduled")
}

type leadTransitionFunc func(ctx context.Context, leadID uint, actorProviderID *uint, metadata *businessflow.ClientMetadata) (*dto.LeadDTO, error)

func (h *ProviderHandler) leadTransition(c fiber.Ctx, fn leadTransitionFunc, message string) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	result, err := fn(requestContext(c), leadID, &providerID, clientMetadata(c))
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsLeadAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Lead access denied", dto.ErrorLeadAccessDenied, nil)
		}
		if businessflow.IsLeadAlreadyClosed(err) {
			return errorResponse(c, fiber.StatusConflict, "Lead is already closed", dto.ErrorLeadInvalidStatus, nil)
		}
		log.Println("Lead transition failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", "LEAD_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, message, result)
}

// ToggleLeadRecurring flips the weekly re-scheduling flag
// @Summary Toggle Lead Recurring
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO} "Lead updated"
// @Router /api/v1/providers/me/leads/{id}/recurring [post]
func (h *ProviderHandler) ToggleLeadRecurring(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	leadID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid lead id", "INVALID_LEAD_ID", nil)
	}

	result, err := h.leadFlow.ToggleRecurring(requestContext(c), leadID, &providerID)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Lead not found", dto.ErrorLeadNotFound, nil)
		}
		if businessflow.IsLeadAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Lead access denied", dto.ErrorLeadAccessDenied, nil)
		}
		log.Println("Toggle recurring failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", "LEAD_UPDATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Lead updated", result)
}

// ListServices lists the provider's own service listings
// @Summary List My Services
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ServiceDTO} "Services"
// @Router /api/v1/providers/me/services [get]
func (h *ProviderHandler) ListServices(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	result, err := h.catalogFlow.ListProviderServices(requestContext(c), providerID)
	if err != nil {
		log.Println("List services failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list services", "SERVICE_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Services", result)
}

// CreateService adds a service listing
// @Summary Create Service
// @Tags Provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateServiceRequest true "Service data"
// @Success 201 {object} dto.APIResponse{data=dto.ServiceDTO} "Service created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/providers/me/services [post]
func (h *ProviderHandler) CreateService(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	var req dto.CreateServiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.catalogFlow.CreateService(requestContext(c), providerID, &req)
	if err != nil {
		log.Println("Create service failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create service", "SERVICE_CREATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "Service created", result)
}

// UpdateService edits a service listing
// @Summary Update Service
// @Tags Provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Param request body dto.UpdateServiceRequest true "Service edits"
// @Success 200 {object} dto.APIResponse{data=dto.ServiceDTO} "Service updated"
// @Failure 403 {object} dto.APIResponse "Not the owner"
// @Failure 404 {object} dto.APIResponse "Service not found"
// @Router /api/v1/providers/me/services/{id} [put]
func (h *ProviderHandler) UpdateService(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	serviceID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid service id", "INVALID_SERVICE_ID", nil)
	}

	var req dto.UpdateServiceRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.catalogFlow.UpdateService(requestContext(c), providerID, serviceID, &req)
	if err != nil {
		return h.listingError(c, err, "Failed to update service", "SERVICE_UPDATE_FAILED")
	}
	return successResponse(c, fiber.StatusOK, "Service updated", result)
}

// DeleteService removes a service listing
// @Summary Delete Service
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service ID"
// @Success 200 {object} dto.APIResponse "Service deleted"
// @Failure 404 {object} dto.APIResponse "Service not found"
// @Router /api/v1/providers/me/services/{id} [delete]
func (h *ProviderHandler) DeleteService(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	serviceID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid service id", "INVALID_SERVICE_ID", nil)
	}

	if err := h.catalogFlow.DeleteService(requestContext(c), providerID, serviceID); err != nil {
		return h.listingError(c, err, "Failed to delete service", "SERVICE_DELETE_FAILED")
	}
	return successResponse(c, fiber.StatusOK, "Service deleted", nil)
}

// ListProducts lists the provider's own product listings
// @Summary List My Products
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProductDTO} "Products"
// @Router /api/v1/providers/me/products [get]
func (h *ProviderHandler) ListProducts(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	result, err := h.catalogFlow.ListProviderProducts(requestContext(c), providerID)
	if err != nil {
		log.Println("List products failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list products", "PRODUCT_LIST_FAILED", nil)
	}
	return successResponse(c, fiber.StatusOK, "Products", result)
}

// CreateProduct adds a product listing
// @Summary Create Product
// @Tags Provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "Product data"
// @Success 201 {object} dto.APIResponse{data=dto.ProductDTO} "Product created"
// @Router /api/v1/providers/me/products [post]
func (h *ProviderHandler) CreateProduct(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	var req dto.CreateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.catalogFlow.CreateProduct(requestContext(c), providerID, &req)
	if err != nil {
		log.Println("Create product failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create product", "PRODUCT_CREATE_FAILED", nil)
	}
	return successResponse(c, fiber.StatusCreated, "Product created", result)
}

// UpdateProduct edits a product listing
// @Summary Update Product
// @Tags Provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body dto.UpdateProductRequest true "Product edits"
// @Success 200 {object} dto.APIResponse{data=dto.ProductDTO} "Product updated"
// @Router /api/v1/providers/me/products/{id} [put]
func (h *ProviderHandler) UpdateProduct(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid product id", "INVALID_PRODUCT_ID", nil)
	}

	var req dto.UpdateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.catalogFlow.UpdateProduct(requestContext(c), providerID, productID, &req)
	if err != nil {
		return h.listingError(c, err, "Failed to update product", "PRODUCT_UPDATE_FAILED")
	}
	return successResponse(c, fiber.StatusOK, "Product updated", result)
}

// DeleteProduct removes a product listing
// @Summary Delete Product
// @Tags Provider
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} dto.APIResponse "Product deleted"
// @Router /api/v1/providers/me/products/{id} [delete]
func (h *ProviderHandler) DeleteProduct(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid product id", "INVALID_PRODUCT_ID", nil)
	}

	if err := h.catalogFlow.DeleteProduct(requestContext(c), providerID, productID); err != nil {
		return h.listingError(c, err, "Failed to delete product", "PRODUCT_DELETE_FAILED")
	}
	return successResponse(c, fiber.StatusOK, "Product deleted", nil)
}

func (h *ProviderHandler) listingError(c fiber.Ctx, err error, message, code string) error {
	if businessflow.IsServiceNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Service not found", dto.ErrorServiceNotFound, nil)
	}
	if businessflow.IsProductNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Product not found", dto.ErrorProductNotFound, nil)
	}
	if businessflow.IsListingAccessDenied(err) {
		return errorResponse(c, fiber.StatusForbidden, "Listing access denied", dto.ErrorListingDenied, nil)
	}
	log.Println(message, err)
	return errorResponse(c, fiber.StatusInternalServerError, message, code, nil)
}
