// Package dto contains Data Transfer Objects for API request and response structures
package dto

// AdminCaptchaResponse carries a rotate captcha challenge for the admin login page
type AdminCaptchaResponse struct {
	ChallengeID string `json:"challenge_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	MasterImage string `json:"master_image" example:"data:image/png;base64,..."`
	ThumbImage  string `json:"thumb_image" example:"data:image/png;base64,..."`
}

// AdminLoginRequest represents the payload for admin login
type AdminLoginRequest struct {
	Username     string  `json:"username" validate:"required,min=3,max=100" example:"admin"`
	Password     string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	ChallengeID  string  `json:"challenge_id" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
	CaptchaAngle float64 `json:"captcha_angle" validate:"required" example:"87"`
}

// AdminSessionDTO carries the issued admin token pair
type AdminSessionDTO struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
}

// AdminDashboardResponse summarizes marketplace activity for the admin panel
type AdminDashboardResponse struct {
	TotalProviders    int64 `json:"total_providers" example:"24"`
	ActiveProviders   int64 `json:"active_providers" example:"21"`
	TotalServices     int64 `json:"total_services" example:"63"`
	TotalProducts     int64 `json:"total_products" example:"18"`
	TotalLeads        int64 `json:"total_leads" example:"412"`
	OpenLeads         int64 `json:"open_leads" example:"37"`
	RecurringLeads    int64 `json:"recurring_leads" example:"58"`
	GlobalZips        int64 `json:"global_zips" example:"12"`
	ProximityEnabled  bool  `json:"proximity_enabled" example:"true"`
	FullTextAvailable bool  `json:"fulltext_available" example:"true"`
}

// GlobalZipDTO represents one allowlist row
type GlobalZipDTO struct {
	Zip         string  `json:"zip" example:"85301"`
	RadiusMiles float64 `json:"radius_miles" example:"20"`
	CreatedAt   string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// UpsertGlobalZipRequest adds or updates an allowlist row
type UpsertGlobalZipRequest struct {
	Zip         string  `json:"zip" validate:"required,len=5,numeric" example:"85301"`
	RadiusMiles float64 `json:"radius_miles" validate:"omitempty,gt=0,lte=100" example:"20"`
}

// GlobalZipsResponse lists the operator-wide ZIP allowlist
type GlobalZipsResponse struct {
	Zips []GlobalZipDTO `json:"zips"`
}

// SetProviderActiveRequest toggles a provider account (admin moderation)
type SetProviderActiveRequest struct {
	IsActive bool `json:"is_active" example:"false"`
}

// UpdateOperatorProfileRequest edits the single operator profile row
type UpdateOperatorProfileRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=255" example:"Alex"`
	BusinessName *string `json:"business_name" validate:"omitempty,max=255" example:"Localyard"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email,max=255" example:"hello@localyard.com"`
	Phone        *string `json:"phone" validate:"omitempty,max=20" example:"+16025550100"`
	BaseZip      *string `json:"base_zip" validate:"omitempty,len=5,numeric" example:"85301"`
	Address      *string `json:"address" validate:"omitempty,max=255" example:"100 N Central Ave"`
	About        *string `json:"about" validate:"omitempty,max=5000"`
}

// OperatorProfileDTO represents the operator profile in API responses
type OperatorProfileDTO struct {
	FirstName    string  `json:"first_name" example:"Alex"`
	BusinessName string  `json:"business_name" example:"Localyard"`
	ContactEmail *string `json:"contact_email,omitempty" example:"hello@localyard.com"`
	Phone        *string `json:"phone,omitempty" example:"+16025550100"`
	BaseZip      *string `json:"base_zip,omitempty" example:"85301"`
	Address      *string `json:"address,omitempty" example:"100 N Central Ave"`
	About        *string `json:"about,omitempty"`
	UpdatedAt    string  `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

// LoadCentroidsRequest bulk-loads ZIP centroid rows for proximity matching
type LoadCentroidsRequest struct {
	Centroids []CentroidRowDTO `json:"centroids" validate:"required,min=1,dive"`
}

// CentroidRowDTO is one ZIP centroid coordinate pair
type CentroidRowDTO struct {
	Zip       string  `json:"zip" validate:"required,len=5,numeric" example:"85301"`
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90" example:"33.5312"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180" example:"-112.1781"`
}

// LoadCentroidsResponse reports how many centroid rows were stored
type LoadCentroidsResponse struct {
	Loaded int `json:"loaded" example:"41000"`
}

// Common error codes for admin operations
const (
	ErrorAdminNotFound     = "ADMIN_NOT_FOUND"
	ErrorCaptchaFailed     = "CAPTCHA_FAILED"
	ErrorGlobalZipNotFound = "GLOBAL_ZIP_NOT_FOUND"
)
