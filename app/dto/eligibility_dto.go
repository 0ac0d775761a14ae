// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ZipCheckRequest represents a customer asking whether any provider serves a ZIP code
type ZipCheckRequest struct {
	Zip string `json:"zip" validate:"required,len=5,numeric" example:"85301"`
}

// ZipCheckResponse reports whether a ZIP code falls inside at least one service area
type ZipCheckResponse struct {
	Zip       string `json:"zip" example:"85301"`
	Servable  bool   `json:"servable" example:"true"`
	MatchMode string `json:"match_mode" example:"proximity"` // "exact", "proximity", or "none"
}

// EligibleProviderDTO describes one provider that serves the requested ZIP code
type EligibleProviderDTO struct {
	ProviderID    uint     `json:"provider_id" example:"12"`
	BusinessName  string   `json:"business_name" example:"Glendale Lawn Pros"`
	MatchedZip    string   `json:"matched_zip" example:"85302"`
	MatchMode     string   `json:"match_mode" example:"proximity"`
	DistanceMiles *float64 `json:"distance_miles,omitempty" example:"6.21"`
}

// EligibleProvidersResponse lists every provider serving a ZIP code
type EligibleProvidersResponse struct {
	Zip       string                `json:"zip" example:"85301"`
	Mode      string                `json:"mode" example:"exact_plus_proximity"` // engine capability in effect
	Providers []EligibleProviderDTO `json:"providers"`
}

// Error codes for eligibility operations
const (
	ErrorInvalidZip = "INVALID_ZIP"
)
