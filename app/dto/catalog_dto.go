// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ServiceDTO represents a service listing in API responses
type ServiceDTO struct {
	ID          uint   `json:"id" example:"42"`
	ProviderID  uint   `json:"provider_id" example:"12"`
	PostedBy    string `json:"posted_by" example:"Glendale Lawn Pros"`
	Title       string `json:"title" example:"Weekly Yard Mowing"`
	Description string `json:"description" example:"Mowing, edging and blowing for standard lots"`
	Price       string `json:"price" example:"$40/visit"`
	IsActive    *bool  `json:"is_active" example:"true"`
	IsCertified *bool  `json:"is_certified" example:"false"`
	CreatedAt   string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ProductDTO represents a product listing in API responses
type ProductDTO struct {
	ID          uint   `json:"id" example:"7"`
	ProviderID  uint   `json:"provider_id" example:"12"`
	PostedBy    string `json:"posted_by" example:"Glendale Lawn Pros"`
	Title       string `json:"title" example:"Organic Lawn Fertilizer 20lb"`
	Description string `json:"description" example:"Slow-release blend, covers 5000 sq ft"`
	Price       string `json:"price" example:"$35"`
	IsActive    *bool  `json:"is_active" example:"true"`
	CreatedAt   string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// CreateServiceRequest represents the payload for creating a service listing
type CreateServiceRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255" example:"Weekly Yard Mowing"`
	Description string `json:"description" validate:"max=5000" example:"Mowing, edging and blowing for standard lots"`
	Price       string `json:"price" validate:"max=100" example:"$40/visit"`
}

// UpdateServiceRequest represents the payload for updating a service listing
type UpdateServiceRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255" example:"Weekly Yard Mowing"`
	Description *string `json:"description" validate:"omitempty,max=5000" example:"Mowing, edging and blowing"`
	Price       *string `json:"price" validate:"omitempty,max=100" example:"$45/visit"`
	IsActive    *bool   `json:"is_active" example:"true"`
}

// CreateProductRequest represents the payload for creating a product listing
type CreateProductRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255" example:"Organic Lawn Fertilizer 20lb"`
	Description string `json:"description" validate:"max=5000" example:"Slow-release blend, covers 5000 sq ft"`
	Price       string `json:"price" validate:"max=100" example:"$35"`
}

// UpdateProductRequest represents the payload for updating a product listing
type UpdateProductRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=255" example:"Organic Lawn Fertilizer 20lb"`
	Description *string `json:"description" validate:"omitempty,max=5000" example:"Slow-release blend"`
	Price       *string `json:"price" validate:"omitempty,max=100" example:"$32"`
	IsActive    *bool   `json:"is_active" example:"true"`
}

// ListingsResponse bundles the public browse page payload
type ListingsResponse struct {
	Services []ServiceDTO `json:"services"`
	Products []ProductDTO `json:"products"`
}

// PublicProviderDTO is the directory view of a provider. The account email
// stays private; everything else is what the provider chose to publish.
type PublicProviderDTO struct {
	ID           uint    `json:"id" example:"12"`
	BusinessName string  `json:"business_name" example:"Glendale Lawn Pros"`
	FirstName    string  `json:"first_name" example:"Sam"`
	Phone        *string `json:"phone,omitempty" example:"+16025550188"`
	BaseZip      *string `json:"base_zip,omitempty" example:"85302"`
	About        *string `json:"about,omitempty" example:"Family-owned since 2012"`
	WebsiteURL   *string `json:"website_url,omitempty" example:"https://glendalelawnpros.com"`
	FacebookURL  *string `json:"facebook_url,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
}

// ProviderDirectoryResponse lists the active providers for the public site
type ProviderDirectoryResponse struct {
	Providers []PublicProviderDTO `json:"providers"`
	Total     int                 `json:"total" example:"8"`
}

// ProviderProfileResponse is a provider's public page: the profile plus
// their active listings.
type ProviderProfileResponse struct {
	Provider PublicProviderDTO `json:"provider"`
	Services []ServiceDTO      `json:"services"`
	Products []ProductDTO      `json:"products"`
}

// Error codes for catalog operations
const (
	ErrorServiceNotFound = "SERVICE_NOT_FOUND"
	ErrorProductNotFound = "PRODUCT_NOT_FOUND"
	ErrorListingDenied   = "LISTING_ACCESS_DENIED"
)
