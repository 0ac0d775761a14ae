// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/localyard/localyard/app/dto"
	businessflow "github.com/localyard/localyard/business_flow"
)

// ProviderAuthHandlerInterface defines the contract for provider authentication handlers
type ProviderAuthHandlerInterface interface {
	Register(c fiber.Ctx) error
	Login(c fiber.Ctx) error
	Refresh(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	ChangePassword(c fiber.Ctx) error
}

// ProviderAuthHandler handles provider authentication HTTP requests
type ProviderAuthHandler struct {
	authFlow  businessflow.ProviderAuthFlow
	validator *validator.Validate
}

// NewProviderAuthHandler creates a new provider authentication handler
func NewProviderAuthHandler(authFlow businessflow.ProviderAuthFlow) *ProviderAuthHandler {
	return &ProviderAuthHandler{
		authFlow:  authFlow,
		validator: newValidator(),
	}
}

// Register handles provider signup
// @Summary Provider Registration
// @Description Register a new provider account
// @Tags Provider Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterProviderRequest true "Provider registration data"
// @Success 201 {object} dto.APIResponse{data=dto.ProviderAuthResponse} "Account created"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Email already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/providers/register [post]
func (h *ProviderAuthHandler) Register(c fiber.Ctx) error {
	var req dto.RegisterProviderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.authFlow.Register(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsEmailAlreadyExists(err) {
			return errorResponse(c, fiber.StatusConflict, "Email already registered", dto.ErrorEmailAlreadyExists, nil)
		}
		log.Println("Provider registration failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Registration failed", "REGISTRATION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, "Account created", result)
}

// Login handles provider login
// @Summary Provider Login
// @Description Authenticate a provider with email and password
// @Tags Provider Auth
// @Accept json
// @Produce json
// @Param request body dto.ProviderLoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.ProviderAuthResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 403 {object} dto.APIResponse "Account inactive"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/providers/login [post]
func (h *ProviderAuthHandler) Login(c fiber.Ctx) error {
	var req dto.ProviderLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.authFlow.Login(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsProviderNotFound(err) || businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
		}
		if businessflow.IsAccountInactive(err) {
			return errorResponse(c, fiber.StatusForbidden, "Account is inactive", dto.ErrorAccountInactive, nil)
		}
		log.Println("Provider login failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Login successful", result)
}

// Refresh rotates the session token pair
// @Summary Refresh Tokens
// @Tags Provider Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.ProviderSessionDTO} "Tokens refreshed"
// @Failure 401 {object} dto.APIResponse "Session expired or not found"
// @Router /api/v1/providers/refresh [post]
func (h *ProviderAuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.authFlow.Refresh(requestContext(c), &req, clientMetadata(c))
	if err != nil {
		log.Println("Token refresh failed", err)
		return errorResponse(c, fiber.StatusUnauthorized, "Session refresh failed", "REFRESH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Tokens refreshed", result)
}

// Logout ends the provider's sessions
// @Summary Provider Logout
// @Tags Provider Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse "Logged out"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/v1/providers/logout [post]
func (h *ProviderAuthHandler) Logout(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}
	accessToken, _ := c.Locals("access_token").(string)

	if err := h.authFlow.Logout(requestContext(c), providerID, accessToken, clientMetadata(c)); err != nil {
		log.Println("Logout failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Logged out", nil)
}

// ChangePassword changes the provider's password
// @Summary Change Password
// @Tags Provider Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Password change data"
// @Success 200 {object} dto.APIResponse{data=dto.ChangePasswordResponse} "Password changed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Incorrect current password"
// @Router /api/v1/providers/password [put]
func (h *ProviderAuthHandler) ChangePassword(c fiber.Ctx) error {
	providerID, ok := providerIDFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "Unauthorized", "UNAUTHORIZED", nil)
	}

	var req dto.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorList(err))
	}

	result, err := h.authFlow.ChangePassword(requestContext(c), providerID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsIncorrectPassword(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Current password is incorrect", dto.ErrorIncorrectPassword, nil)
		}
		log.Println("Password change failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to change password", "PASSWORD_CHANGE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, "Password changed", result)
}
