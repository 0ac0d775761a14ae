// Package dto contains Data Transfer Objects for API request and response structures
package dto

import (
	"time"
)

// RegisterProviderRequest represents the payload for provider signup
type RegisterProviderRequest struct {
	Email           string `json:"email" validate:"required,email,max=255" example:"owner@glendalelawnpros.com"`
	Password        string `json:"password" validate:"required,min=8,max=100,password_strength" example:"SecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"SecurePass123!"`
	FirstName       string `json:"first_name" validate:"required,min=2,max=255" example:"Sam"`
	BusinessName    string `json:"business_name" validate:"required,min=2,max=255" example:"Glendale Lawn Pros"`
	Phone           string `json:"phone" validate:"omitempty,max=20" example:"+16025550188"`
	BaseZip         string `json:"base_zip" validate:"omitempty,len=5,numeric" example:"85302"`
}

// ProviderLoginRequest represents the payload for provider login
type ProviderLoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"owner@glendalelawnpros.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// ProviderDTO represents provider account information in API responses
type ProviderDTO struct {
	ID           uint    `json:"id" example:"12"`
	UUID         string  `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email        string  `json:"email" example:"owner@glendalelawnpros.com"`
	FirstName    string  `json:"first_name" example:"Sam"`
	BusinessName string  `json:"business_name" example:"Glendale Lawn Pros"`
	Phone        *string `json:"phone,omitempty" example:"+16025550188"`
	BaseZip      *string `json:"base_zip,omitempty" example:"85302"`
	Address      *string `json:"address,omitempty" example:"5800 W Glendale Ave"`
	About        *string `json:"about,omitempty" example:"Family-owned since 2012"`
	WebsiteURL   *string `json:"website_url,omitempty" example:"https://glendalelawnpros.com"`
	FacebookURL  *string `json:"facebook_url,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
	IsActive     *bool   `json:"is_active" example:"true"`
	CreatedAt    string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ProviderSessionDTO carries the issued token pair
type ProviderSessionDTO struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
}

// ProviderAuthResponse bundles the account and session after signup or login
type ProviderAuthResponse struct {
	Provider ProviderDTO        `json:"provider"`
	Session  ProviderSessionDTO `json:"session"`
}

// RefreshTokenRequest represents the payload for refreshing a session
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ChangePasswordRequest represents the payload for changing the password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100,password_strength" example:"NewSecurePass123!"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword" example:"NewSecurePass123!"`
}

// ChangePasswordResponse reports when the password was changed
type ChangePasswordResponse struct {
	PasswordChangedAt time.Time `json:"password_changed_at" example:"2024-01-15T16:30:00Z"`
}

// UpdateProviderProfileRequest represents the payload for editing the profile
type UpdateProviderProfileRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=2,max=255" example:"Sam"`
	BusinessName *string `json:"business_name" validate:"omitempty,min=2,max=255" example:"Glendale Lawn Pros"`
	Phone        *string `json:"phone" validate:"omitempty,max=20" example:"+16025550188"`
	BaseZip      *string `json:"base_zip" validate:"omitempty,len=5,numeric" example:"85302"`
	Address      *string `json:"address" validate:"omitempty,max=255" example:"5800 W Glendale Ave"`
	About        *string `json:"about" validate:"omitempty,max=5000" example:"Family-owned since 2012"`
	WebsiteURL   *string `json:"website_url" validate:"omitempty,url,max=255" example:"https://glendalelawnpros.com"`
	FacebookURL  *string `json:"facebook_url" validate:"omitempty,url,max=255"`
	InstagramURL *string `json:"instagram_url" validate:"omitempty,url,max=255"`
}

// ServiceAreaDTO represents one explicit coverage row
type ServiceAreaDTO struct {
	ID          uint    `json:"id" example:"3"`
	ZipCode     string  `json:"zip_code" example:"85303"`
	RadiusMiles float64 `json:"radius_miles" example:"10"`
	CreatedAt   string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// AddServiceAreaRequest represents the payload for adding a coverage row
type AddServiceAreaRequest struct {
	ZipCode     string  `json:"zip_code" validate:"required,len=5,numeric" example:"85303"`
	RadiusMiles float64 `json:"radius_miles" validate:"omitempty,gt=0,lte=100" example:"10"`
}

// ServiceAreasResponse lists a provider's coverage rows
type ServiceAreasResponse struct {
	ServiceAreas []ServiceAreaDTO `json:"service_areas"`
}

// ProviderAnalyticsResponse summarizes a provider's lead pipeline
type ProviderAnalyticsResponse struct {
	TotalLeads     int64 `json:"total_leads" example:"37"`
	NewLeads       int64 `json:"new_leads" example:"4"`
	ScheduledLeads int64 `json:"scheduled_leads" example:"6"`
	CompletedLeads int64 `json:"completed_leads" example:"25"`
	RejectedLeads  int64 `json:"rejected_leads" example:"2"`
	RecurringLeads int64 `json:"recurring_leads" example:"9"`
	ActiveServices int64 `json:"active_services" example:"5"`
}

// Common error codes for provider account operations
const (
	ErrorProviderNotFound     = "PROVIDER_NOT_FOUND"
	ErrorIncorrectPassword    = "INCORRECT_PASSWORD"
	ErrorAccountInactive      = "ACCOUNT_INACTIVE"
	ErrorEmailAlreadyExists   = "EMAIL_ALREADY_EXISTS"
	ErrorServiceAreaLimit     = "SERVICE_AREA_LIMIT_REACHED"
	ErrorServiceAreaDuplicate = "SERVICE_AREA_DUPLICATE"
	ErrorServiceAreaNotFound  = "SERVICE_AREA_NOT_FOUND"
)
