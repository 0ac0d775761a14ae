// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
)

// PublicHandlerInterface defines the contract for the unauthenticated surface
type PublicHandlerInterface interface {
	CheckZip(c fiber.Ctx) error
	Search(c fiber.Ctx) error
	Listings(c fiber.Ctx) error
	ServiceDetail(c fiber.Ctx) error
	ProviderDirectory(c fiber.Ctx) error
	ProviderProfile(c fiber.Ctx) error
	Contact(c fiber.Ctx) error
}

// PublicHandler handles the customer-facing endpoints
type PublicHandler struct {
	eligibilityFlow businessflow.EligibilityFlow
	searchFlow      businessflow.SearchFlow
	catalogFlow     businessflow.CatalogFlow
	leadFlow        businessflow.LeadFlow
	validator       *validator.Validate
}

// NewPublicHandler creates a new public handler
func NewPublicHandler(
	eligibilityFlow businessflow.EligibilityFlow,
	searchFlow businessflow.SearchFlow,
	catalogFlow businessflow.CatalogFlow,
	leadFlow businessflow.LeadFlow,
) *PublicHandler {
	return &PublicHandler{
		eligibilityFlow: eligibilityFlow,
		searchFlow:      searchFlow,
		catalogFlow:     catalogFlow,
		leadFlow:        leadFlow,
		validator:       newValidator(),
	}
}

// CheckZip answers whether any provider serves a ZIP code
// @Summary Check ZIP serviceability
// @Description Reports whether the marketplace serves the given ZIP code
// @Tags Public
// @Produce json
// @Param zip query string true "5-digit ZIP code"
// @Success 200 {object} dto.APIResponse{data=dto.ZipCheckResponse} "Serviceability result"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/zip-check [get]
func (h *PublicHandler) CheckZip(c fiber.Ctx) error {
	zip := c.Query("zip")

	result, err := h.eligibilityFlow.IsZipServable(requestContext(c), zip)
	if err != nil {
		log.Println("Zip check failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Zip check failed", "ZIP_CHECK_FAILED", nil)
	}

	message := "We don't serve that area yet"
	if result.Servable {
		message = "We serve your area"
	}
	return successResponse(c, fiber.StatusOK, message, result)
}

// Search runs a lexical search over active service listings
// @Summary Search services
// @Description Full-text search with synonym expansion over active services
// @Tags Public
// @Produce json
// @Param q query string false "Search query"
// @Param limit query int false "Maximum results (default 25)"
// @Success 200 {object} dto.APIResponse{data=dto.SearchResponse} "Search results"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/search [get]
func (h *PublicHandler) Search(c fiber.Ctx) error {
	req := dto.SearchRequest{
		Query: c.Query("q"),
		Limit: queryInt(c, "limit", 0),
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.searchFlow.Search(requestContext(c), &req)
	if err != nil {
		log.Println("Search failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Search failed", "SEARCH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Search results", result)
}

// Listings returns the public browse page payload
// @Summary Browse listings
// @Description Lists active services and products, newest first
// @Tags Public
// @Produce json
// @Param limit query int false "Maximum rows per section (default 50)"
// @Success 200 {object} dto.APIResponse{data=dto.ListingsResponse} "Active listings"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/listings [get]
func (h *PublicHandler) Listings(c fiber.Ctx) error {
	result, err := h.catalogFlow.PublicListings(requestContext(c), queryInt(c, "limit", 0))
	if err != nil {
		log.Println("Listings failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load listings", "LISTINGS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Listings", result)
}

// ServiceDetail returns one active service
// @Summary Service detail
// @Tags Public
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} dto.APIResponse{data=dto.ServiceDTO} "Service"
// @Failure 404 {object} dto.APIResponse "Service not found"
// @Router /api/v1/services/{id} [get]
func (h *PublicHandler) ServiceDetail(c fiber.Ctx) error {
	serviceID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid service id", "INVALID_SERVICE_ID", nil)
	}

	result, err := h.catalogFlow.GetService(requestContext(c), serviceID)
	if err != nil {
		if businessflow.IsServiceNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Service not found", dto.ErrorServiceNotFound, nil)
		}
		log.Println("Service detail failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load service", "SERVICE_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Service", result)
}

// ProviderDirectory lists active providers
// @Summary Provider directory
// @Tags Public
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProviderDirectoryResponse} "Active providers"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/providers [get]
func (h *PublicHandler) ProviderDirectory(c fiber.Ctx) error {
	result, err := h.catalogFlow.ProviderDirectory(requestContext(c))
	if err != nil {
		log.Println("Provider directory failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list providers", "PROVIDER_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Providers", result)
}

// ProviderProfile returns a provider's public page
// @Summary Provider public profile
// @Description Returns the provider's published details and active listings
// @Tags Public
// @Produce json
// @Param id path int true "Provider ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProviderProfileResponse} "Provider profile"
// @Failure 404 {object} dto.APIResponse "Provider not found"
// @Router /api/v1/providers/{id} [get]
func (h *PublicHandler) ProviderProfile(c fiber.Ctx) error {
	providerID, err := parseIDParam(c, "id")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid provider id", "INVALID_PROVIDER_ID", nil)
	}

	result, err := h.catalogFlow.ProviderProfile(requestContext(c), providerID)
	if err != nil {
		if businessflow.IsProviderNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Provider not found", dto.ErrorProviderNotFound, nil)
		}
		log.Println("Provider profile failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load provider", "PROVIDER_LOOKUP_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Provider", result)
}

// Contact submits the customer contact form
// @Summary Submit contact form
// @Description Records a lead when the ZIP code is inside a coverage area
// @Tags Public
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Contact data"
// @Success 200 {object} dto.APIResponse{data=dto.ContactResponse} "Contact recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/contact [post]
func (h *PublicHandler) Contact(c fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.leadFlow.SubmitContact(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		log.Println("Contact failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to submit contact", "CONTACT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
