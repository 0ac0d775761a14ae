// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ContactRequest represents a customer submitting the contact form
type ContactRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=255" example:"Jane Smith"`
	Email     string `json:"email" validate:"omitempty,email,max=255" example:"jane@example.com"`
	Phone     string `json:"phone" validate:"omitempty,max=20" example:"+16025550133"`
	Zip       string `json:"zip" validate:"required,len=5,numeric" example:"85301"`
	Address   string `json:"address" validate:"omitempty,max=255" example:"123 W Olive Ave"`
	Message   string `json:"message" validate:"omitempty,max=5000" example:"Need weekly mowing starting next month"`
	Recurring bool   `json:"recurring" example:"true"`
}

// ContactResponse reports the outcome of a contact submission
type ContactResponse struct {
	LeadID        uint   `json:"lead_id" example:"101"`
	CorrelationID string `json:"correlation_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status        string `json:"status" example:"new"`
	Servable      bool   `json:"servable" example:"true"`
	Message       string `json:"message" example:"Thanks! We'll be in touch shortly."`
}

// LeadDTO represents a lead in API responses
type LeadDTO struct {
	ID            uint    `json:"id" example:"101"`
	CorrelationID string  `json:"correlation_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name          string  `json:"name" example:"Jane Smith"`
	Email         *string `json:"email,omitempty" example:"jane@example.com"`
	Phone         *string `json:"phone,omitempty" example:"+16025550133"`
	Zip           string  `json:"zip" example:"85301"`
	Address       *string `json:"address,omitempty" example:"123 W Olive Ave"`
	Message       *string `json:"message,omitempty" example:"Need weekly mowing"`
	ProviderID    uint    `json:"provider_id" example:"12"`
	Status        string  `json:"status" example:"new"`
	Recurring     *bool   `json:"recurring" example:"true"`
	FollowUpDate  *string `json:"follow_up_date,omitempty" example:"2024-01-22T00:00:00Z"`
	CreatedAt     string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// LeadListResponse carries a page of leads
type LeadListResponse struct {
	Leads []LeadDTO `json:"leads"`
	Total int64     `json:"total" example:"37"`
}

// AssignLeadRequest reassigns a lead to a provider (admin only)
type AssignLeadRequest struct {
	ProviderID uint `json:"provider_id" example:"12"`
}

// Error codes for lead operations
const (
	ErrorLeadNotFound      = "LEAD_NOT_FOUND"
	ErrorLeadAccessDenied  = "LEAD_ACCESS_DENIED"
	ErrorLeadNotServable   = "LEAD_NOT_SERVABLE"
	ErrorLeadInvalidStatus = "LEAD_INVALID_STATUS"
)
